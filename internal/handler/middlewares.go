package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/domain"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// pathID 解析路径中的整数 id 并放入 context
func (h *Handler) pathID(param string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
			if err != nil {
				h.badRequest(w, r, domain.ErrInvalidID)
				return
			}

			ctx := context.WithValue(r.Context(), IDCtxKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// rateLimit 按客户端 IP 做固定窗口限流，未配置 redis 或 redis 出错时直接放行
func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := h.config.RateLimit.Requests
		if h.redisClient == nil || limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		key := "rate_limit:" + ip
		window := time.Duration(h.config.RateLimit.Window) * time.Second

		// INCR 和 TTL 放在同一个事务里执行
		var incr *redis.IntCmd
		var ttl *redis.DurationCmd
		if _, err := h.redisClient.TxPipelined(r.Context(), func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(r.Context(), key)
			ttl = pipe.TTL(r.Context(), key)
			return nil
		}); err != nil {
			slog.Warn("限流计数失败，放行请求", "ip", ip, "error", err)
			next.ServeHTTP(w, r)
			return
		}
		count := incr.Val()

		// TTL 为负说明窗口还没有过期时间（首次请求或上次设置失败），此时补上
		if ttl.Val() < 0 {
			if err := h.redisClient.Expire(r.Context(), key, window).Err(); err != nil {
				slog.Warn("无法设置限流窗口", "ip", ip, "error", err)
			}
		}

		if count > int64(limit) {
			w.Header().Set("Retry-After", strconv.Itoa(h.config.RateLimit.Window))
			h.writeText(w, r, http.StatusTooManyRequests, "Too many requests.")
			return
		}

		next.ServeHTTP(w, r)
	})
}
