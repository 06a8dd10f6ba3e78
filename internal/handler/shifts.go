package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/domain"
)

// shiftDecodeError 把请求体解析错误转换为面向客户端的班次错误，
// 只有 shift_date 类型错误时报日期无效，其余都按开始时间无效处理
func shiftDecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "shift_date" {
		return domain.ErrInvalidShiftDate
	}
	return domain.ErrInvalidShiftStart
}

func (h *Handler) GetAllShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.ledger.List(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, shifts)
}

func (h *Handler) GetWorkerShifts(w http.ResponseWriter, r *http.Request) {
	ws, err := h.ledger.GetByWorker(r.Context(), idFromContext(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, ws)
}

func (h *Handler) GetShiftsWithWorkers(w http.ResponseWriter, r *http.Request) {
	all, err := h.ledger.ListWithWorkers(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, all)
}

func (h *Handler) AddShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShiftStart *int `json:"shift_start" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, shiftDecodeError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, domain.ErrInvalidShiftStart)
		return
	}

	shift, err := h.ledger.AddShift(r.Context(), idFromContext(r), *req.ShiftStart)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.publishEvent(r, domain.NewShiftEvent(domain.EventShiftAdded, shift, time.Now()))

	h.successText(w, r, "Shift added successfully.")
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShiftDate  string `json:"shift_date" validate:"omitempty,datetime=2006-01-02"`
		ShiftStart *int   `json:"shift_start" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, shiftDecodeError(err))
		return
	}
	if req.ShiftStart == nil {
		h.badRequest(w, r, domain.ErrInvalidShiftStart)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, err := h.ledger.UpdateShift(r.Context(), idFromContext(r), req.ShiftDate, *req.ShiftStart)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.publishEvent(r, domain.NewShiftEvent(domain.EventShiftUpdated, shift, time.Now()))

	h.successText(w, r, "Shift updated successfully.")
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id := idFromContext(r)

	if err := h.ledger.Delete(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.publishEvent(r, domain.RosterEvent{
		Type:    domain.EventShiftDeleted,
		ShiftID: id,
	})

	h.successText(w, r, "Shift deleted successfully.")
}
