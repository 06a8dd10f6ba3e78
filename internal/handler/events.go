package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/domain"
)

// publishEvent 发布名册变更事件。发布失败只记录日志，不影响响应。
func (h *Handler) publishEvent(r *http.Request, event domain.RosterEvent) {
	if h.publisher == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.publisher.Publish(ctx, event); err != nil {
		slog.Error("无法发布名册事件", "type", event.Type, "path", r.URL.Path, "error", err)
	}
}
