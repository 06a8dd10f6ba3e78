package domain

import "time"

type EventType string

const (
	EventWorkerCreated EventType = "worker_created"
	EventWorkerUpdated EventType = "worker_updated"
	EventWorkerDeleted EventType = "worker_deleted"
	EventShiftAdded    EventType = "shift_added"
	EventShiftUpdated  EventType = "shift_updated"
	EventShiftDeleted  EventType = "shift_deleted"
)

// RosterEvent 在名册发生变更后发布到消息队列，由通知服务消费
type RosterEvent struct {
	Type       EventType `json:"type"`
	WorkerID   int64     `json:"worker_id,omitempty"`
	WorkerName string    `json:"worker_name,omitempty"`
	ShiftID    int64     `json:"shift_id,omitempty"`
	ShiftDate  string    `json:"shift_date,omitempty"`
	ShiftStart *int      `json:"shift_start,omitempty"`
	ShiftEnd   *int      `json:"shift_end,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewShiftEvent(t EventType, s *Shift, at time.Time) RosterEvent {
	start, end := s.ShiftStart, s.ShiftEnd
	return RosterEvent{
		Type:       t,
		WorkerID:   s.WorkerID,
		ShiftID:    s.ID,
		ShiftDate:  s.ShiftDate,
		ShiftStart: &start,
		ShiftEnd:   &end,
		OccurredAt: at,
	}
}
