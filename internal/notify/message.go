package notify

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var eventTemplate = template.Must(template.ParseFS(templateFS, "templates/roster_event.html"))

var subjects = map[domain.EventType]string{
	domain.EventWorkerCreated: "Worker created",
	domain.EventWorkerUpdated: "Worker updated",
	domain.EventWorkerDeleted: "Worker deleted",
	domain.EventShiftAdded:    "Shift added",
	domain.EventShiftUpdated:  "Shift updated",
	domain.EventShiftDeleted:  "Shift deleted",
}

const subjectPrefix = "Worker Roster - "

type eventView struct {
	Title      string
	WorkerID   int64
	WorkerName string
	ShiftID    int64
	ShiftDate  string
	Hours      string
	OccurredAt string
}

func newEventView(title string, event domain.RosterEvent) eventView {
	v := eventView{
		Title:      title,
		WorkerID:   event.WorkerID,
		WorkerName: event.WorkerName,
		ShiftID:    event.ShiftID,
		ShiftDate:  event.ShiftDate,
		OccurredAt: event.OccurredAt.Format("2006-01-02 15:04:05"),
	}
	if event.ShiftStart != nil && event.ShiftEnd != nil {
		v.Hours = fmt.Sprintf("%02d:00 - %02d:00", *event.ShiftStart, *event.ShiftEnd)
	}
	return v
}

// BuildMessage 根据事件类型渲染通知邮件
func BuildMessage(from, to string, event domain.RosterEvent) (*mail.Msg, error) {
	title, ok := subjects[event.Type]
	if !ok {
		return nil, fmt.Errorf("不支持的事件类型: %q", event.Type)
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}
	m.Subject(subjectPrefix + title)

	if err := m.SetBodyHTMLTemplate(eventTemplate, newEventView(title, event)); err != nil {
		return nil, fmt.Errorf("无法设置邮件正文: %w", err)
	}

	return m, nil
}
