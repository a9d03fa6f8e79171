package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ledger/events"
	"ledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, subject, key string, data []byte) error {
	args := m.Called(ctx, subject, key, data)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	return m.Called().Error(0)
}

func TestEventForwarder_Forward(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	publisher := new(MockMessagePublisher)
	forwarder := NewEventForwarder(publisher)
	forwarder.now = func() time.Time { return fixed }

	var (
		key  string
		data []byte
	)
	publisher.On("Publish", mock.Anything, "ledger.transfer_completed", mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) {
			key = args.String(2)
			data = args.Get(3).([]byte)
		}).
		Return(nil).Once()

	event := events.TransferCompletedEvent{SenderID: 1, ReceiverID: 2, Amount: 6}
	require.NoError(t, forwarder.Forward(context.Background(), event))
	publisher.AssertExpectations(t)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Equal(t, key, envelope.ID)
	assert.Len(t, envelope.ID, 36)
	assert.Equal(t, "transfer_completed", envelope.Type)
	assert.True(t, fixed.Equal(envelope.OccurredAt))
	assert.JSONEq(t, `{"sender_id":1,"receiver_id":2,"amount":6}`, string(envelope.Payload))
}

func TestEventForwarder_PublishError(t *testing.T) {
	publisher := new(MockMessagePublisher)
	forwarder := NewEventForwarder(publisher)

	publisher.On("Publish", mock.Anything, "ledger.account_deleted", mock.Anything, mock.Anything).
		Return(errors.New("broker down")).Once()

	err := forwarder.Forward(context.Background(), events.AccountDeletedEvent{AccountID: 3})
	assert.EqualError(t, err, "broker down")
	publisher.AssertExpectations(t)
}

func TestEventForwarder_RegisterForwardsBusEvents(t *testing.T) {
	publisher := new(MockMessagePublisher)
	forwarder := NewEventForwarder(publisher)
	bus := events.NewBus()
	forwarder.Register(bus)

	done := make(chan string, 1)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { done <- args.String(1) }).
		Return(nil).Once()

	bus.Emit(context.Background(), events.BalanceChangeEvent{
		AccountID:    7,
		OldBalance:   10,
		NewBalance:   4,
		ChangeAmount: -6,
		ChangeType:   models.BalanceChangeTransferOut,
	})

	select {
	case subject := <-done:
		assert.Equal(t, "ledger.balance_change", subject)
	case <-time.After(time.Second):
		t.Fatal("event was not forwarded")
	}
}

func TestSubjects(t *testing.T) {
	assert.Equal(t, "ledger.account_created", SubjectFor(events.EventTypeAccountCreated))
	assert.Equal(t, []string{
		"ledger.account_created",
		"ledger.account_updated",
		"ledger.account_deleted",
		"ledger.balance_change",
		"ledger.transfer_completed",
	}, AllSubjects())
}

func TestNewMessagePublisher(t *testing.T) {
	ctx := context.Background()

	t.Run("no sink", func(t *testing.T) {
		for _, sink := range []string{"", "none", " NONE "} {
			publisher, err := NewMessagePublisher(ctx, SinkConfig{Sink: sink})
			require.NoError(t, err)
			assert.Nil(t, publisher)
		}
	})

	t.Run("kafka", func(t *testing.T) {
		publisher, err := NewMessagePublisher(ctx, SinkConfig{Sink: "kafka", KafkaBrokers: "localhost:9092, localhost:9093"})
		require.NoError(t, err)
		require.IsType(t, &KafkaPublisher{}, publisher)
		assert.Equal(t, DefaultKafkaTopic, publisher.(*KafkaPublisher).writer.Topic)
		assert.NoError(t, publisher.Close())
	})

	t.Run("missing addresses", func(t *testing.T) {
		_, err := NewMessagePublisher(ctx, SinkConfig{Sink: "kafka"})
		assert.Error(t, err)
		_, err = NewMessagePublisher(ctx, SinkConfig{Sink: "nats"})
		assert.Error(t, err)
	})

	t.Run("unknown sink", func(t *testing.T) {
		_, err := NewMessagePublisher(ctx, SinkConfig{Sink: "carrier-pigeon"})
		assert.EqualError(t, err, `unsupported event sink "carrier-pigeon"`)
	})
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a:1", "b:2"}, splitList(" a:1 ,,b:2 "))
	assert.Nil(t, splitList(""))
}
