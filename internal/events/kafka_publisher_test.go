package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/barbershop_bot/internal/model"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaPublisherWritesKeyedMessage(t *testing.T) {
	writer := &recordingWriter{}
	p := &KafkaPublisher{writer: writer, topic: "appointment.events", logger: zap.NewNop()}

	appt := &model.Appointment{
		ID:          42,
		BarberID:    7,
		ClientPhone: "5511999990000",
		StartAt:     time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), NewEvent(AppointmentBooked, appt)))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, AppointmentBooked, string(msg.Headers[0].Value))

	var evt Event
	require.NoError(t, json.Unmarshal(msg.Value, &evt))
	assert.Equal(t, AppointmentBooked, evt.Type)
	assert.Equal(t, int64(7), evt.BarberID)
	assert.True(t, appt.StartAt.Equal(evt.StartAt))
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := &KafkaPublisher{writer: &recordingWriter{err: boom}, topic: "t", logger: zap.NewNop()}

	err := p.Publish(context.Background(), NewEvent(AppointmentCancelled, &model.Appointment{ID: 1}))
	assert.ErrorIs(t, err, boom)
}
