package handler

import (
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/domain"
)

func (h *Handler) GetAllWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.directory.List(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, workers)
}

func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, domain.ErrWorkerNameRequired)
		return
	}

	id, err := h.directory.Create(r.Context(), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			// 重名由数据库唯一约束报告，按存储错误返回
			h.internalServerError(w, r, err)
		default:
			h.serviceError(w, r, err)
		}
		return
	}

	h.publishEvent(r, domain.RosterEvent{
		Type:       domain.EventWorkerCreated,
		WorkerID:   id,
		WorkerName: req.Name,
	})

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"message":  "Worker created successfully.",
		"workerId": id,
	})
}

// UpdateWorker 不校验姓名，也不检查工人是否存在
func (h *Handler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	id := idFromContext(r)
	if err := h.directory.Update(r.Context(), id, req.Name); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.publishEvent(r, domain.RosterEvent{
		Type:       domain.EventWorkerUpdated,
		WorkerID:   id,
		WorkerName: req.Name,
	})

	h.successText(w, r, "Worker updated successfully.")
}

func (h *Handler) DeleteWorker(w http.ResponseWriter, r *http.Request) {
	id := idFromContext(r)

	if err := h.directory.Delete(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.publishEvent(r, domain.RosterEvent{
		Type:     domain.EventWorkerDeleted,
		WorkerID: id,
	})

	h.successText(w, r, "Worker and their shifts deleted successfully.")
}
