package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

type publishCall struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	calls []publishCall
	err   error
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.calls = append(c.calls, publishCall{exchange: exchange, key: key, msg: msg})
	return c.err
}

func (c *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if !durable || autoDelete || exclusive {
		return amqp.Queue{}, errors.New("unexpected queue flags")
	}
	return amqp.Queue{Name: name}, nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []*mail.Msg
	err  error
}

func (s *fakeSender) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, messages...)
	return nil
}

type ackRecord struct {
	acked   bool
	nacked  bool
	requeue bool
}

type fakeAcknowledger struct {
	mu      sync.Mutex
	records map[uint64]*ackRecord
}

func newFakeAcknowledger() *fakeAcknowledger {
	return &fakeAcknowledger{records: make(map[uint64]*ackRecord)}
}

func (a *fakeAcknowledger) record(tag uint64) *ackRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	r, ok := a.records[tag]
	if !ok {
		r = &ackRecord{}
		a.records[tag] = r
	}
	return r
}

func (a *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	a.record(tag).acked = true
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	r := a.record(tag)
	r.nacked = true
	r.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func shiftEvent() domain.RosterEvent {
	return domain.NewShiftEvent(domain.EventShiftAdded, &domain.Shift{
		ID:         7,
		WorkerID:   2,
		ShiftDate:  "2024-05-01",
		ShiftStart: 16,
		ShiftEnd:   0,
	}, time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local))
}

func TestDeclareQueue(t *testing.T) {
	q, err := DeclareQueue(&fakeChannel{}, "roster_events")
	require.NoError(t, err)
	assert.Equal(t, "roster_events", q.Name)
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, "roster_events")

	event := shiftEvent()
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, ch.calls, 1)
	call := ch.calls[0]
	assert.Equal(t, "", call.exchange)
	assert.Equal(t, "roster_events", call.key)
	assert.Equal(t, "application/json", call.msg.ContentType)
	assert.Equal(t, "shift_added", call.msg.Type)

	var decoded domain.RosterEvent
	require.NoError(t, json.Unmarshal(call.msg.Body, &decoded))
	assert.Equal(t, event.ShiftID, decoded.ShiftID)
	assert.Equal(t, "2024-05-01", decoded.ShiftDate)
	require.NotNil(t, decoded.ShiftEnd)
	assert.Equal(t, 0, *decoded.ShiftEnd)
}

func TestPublisher_PropagatesError(t *testing.T) {
	ch := &fakeChannel{err: amqp.ErrClosed}
	p := NewPublisher(ch, "roster_events")

	err := p.Publish(context.Background(), shiftEvent())
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestBuildMessage(t *testing.T) {
	m, err := BuildMessage("roster@example.com", "supervisor@example.com", shiftEvent())
	require.NoError(t, err)

	assert.Equal(t, []string{"Worker Roster - Shift added"}, m.GetGenHeader(mail.HeaderSubject))
	assert.Equal(t, []string{"<supervisor@example.com>"}, m.GetToString())

	parts := m.GetParts()
	require.Len(t, parts, 1)
	content, err := parts[0].GetContent()
	require.NoError(t, err)
	assert.Contains(t, string(content), "2024-05-01")
	assert.Contains(t, string(content), "16:00 - 00:00")
	assert.Contains(t, string(content), "2024-05-01 09:30:00")
}

func TestBuildMessage_EveryEventType(t *testing.T) {
	for eventType, title := range subjects {
		m, err := BuildMessage("a@example.com", "b@example.com", domain.RosterEvent{Type: eventType, WorkerID: 1})
		require.NoError(t, err, eventType)
		assert.Equal(t, []string{subjectPrefix + title}, m.GetGenHeader(mail.HeaderSubject))
	}
}

func TestBuildMessage_WorkerEventEscapesName(t *testing.T) {
	m, err := BuildMessage("a@example.com", "b@example.com", domain.RosterEvent{
		Type:       domain.EventWorkerCreated,
		WorkerID:   3,
		WorkerName: "<b>Jane</b>",
	})
	require.NoError(t, err)

	content, err := m.GetParts()[0].GetContent()
	require.NoError(t, err)
	assert.Contains(t, string(content), "&lt;b&gt;Jane&lt;/b&gt;")
	assert.NotContains(t, string(content), "Hours")
}

func TestBuildMessage_Errors(t *testing.T) {
	_, err := BuildMessage("a@example.com", "b@example.com", domain.RosterEvent{Type: "shift_swapped"})
	assert.Error(t, err)

	_, err = BuildMessage("not an address", "b@example.com", shiftEvent())
	assert.Error(t, err)
}

func TestConsumer_Handle(t *testing.T) {
	sender := &fakeSender{}
	c := NewConsumer(sender, "a@example.com", "b@example.com")

	body, err := json.Marshal(shiftEvent())
	require.NoError(t, err)

	requeue, err := c.Handle(context.Background(), body)
	require.NoError(t, err)
	assert.False(t, requeue)
	assert.Len(t, sender.sent, 1)
}

func TestConsumer_HandleFailures(t *testing.T) {
	c := NewConsumer(&fakeSender{}, "a@example.com", "b@example.com")

	requeue, err := c.Handle(context.Background(), []byte("{"))
	assert.Error(t, err)
	assert.False(t, requeue)

	requeue, err = c.Handle(context.Background(), []byte(`{"type":"unknown"}`))
	assert.Error(t, err)
	assert.False(t, requeue)

	c = NewConsumer(&fakeSender{err: errors.New("connection refused")}, "a@example.com", "b@example.com")
	body, _ := json.Marshal(shiftEvent())
	requeue, err = c.Handle(context.Background(), body)
	assert.Error(t, err)
	assert.True(t, requeue)
}

func TestConsumer_Run(t *testing.T) {
	sender := &fakeSender{}
	c := NewConsumer(sender, "a@example.com", "b@example.com")
	ack := newFakeAcknowledger()

	good, _ := json.Marshal(shiftEvent())
	deliveries := make(chan amqp.Delivery, 2)
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: good}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("not json")}
	close(deliveries)

	c.Run(context.Background(), deliveries)

	assert.True(t, ack.record(1).acked)
	assert.True(t, ack.record(2).nacked)
	assert.False(t, ack.record(2).requeue)
	assert.Len(t, sender.sent, 1)
}

func TestConsumer_RunStopsOnCancel(t *testing.T) {
	c := NewConsumer(&fakeSender{}, "a@example.com", "b@example.com")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		c.Run(ctx, make(chan amqp.Delivery))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
