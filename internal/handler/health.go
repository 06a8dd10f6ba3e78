package handler

import (
	"log/slog"
	"net/http"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.pinger.Ping(r.Context()); err != nil {
		slog.Error("数据库健康检查失败", "error", err)
		h.writeText(w, r, http.StatusServiceUnavailable, "Database unavailable.")
		return
	}

	h.successText(w, r, "OK")
}
