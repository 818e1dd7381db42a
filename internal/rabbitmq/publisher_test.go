package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func TestPublisher_Publish(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	payload := map[string]any{"reservation_id": 7, "class_id": 3}

	t.Run("wraps payload into event", func(t *testing.T) {
		ch := new(MockChannel)
		var published amqp.Publishing
		ch.On("Publish", "fitpoint.events", RoutingReservationCreated, false, false, mock.AnythingOfType("amqp.Publishing")).
			Run(func(args mock.Arguments) { published = args.Get(4).(amqp.Publishing) }).
			Return(nil).Once()

		p := NewPublisher(ch, "fitpoint.events")
		p.now = func() time.Time { return fixed }

		require.NoError(t, p.Publish(context.Background(), RoutingReservationCreated, payload))
		ch.AssertExpectations(t)

		assert.Equal(t, "application/json", published.ContentType)
		assert.Equal(t, amqp.Persistent, published.DeliveryMode)

		var event Event
		require.NoError(t, json.Unmarshal(published.Body, &event))
		assert.Equal(t, published.MessageId, event.ID)
		_, err := uuid.Parse(event.ID)
		assert.NoError(t, err)
		assert.Equal(t, RoutingReservationCreated, event.Type)
		assert.True(t, fixed.Equal(event.OccurredAt))
		assert.JSONEq(t, `{"reservation_id":7,"class_id":3}`, string(event.Payload))
	})

	t.Run("channel error is returned", func(t *testing.T) {
		ch := new(MockChannel)
		ch.On("Publish", mock.Anything, mock.Anything, false, false, mock.Anything).
			Return(errors.New("channel closed")).Once()

		err := NewPublisher(ch, "fitpoint.events").Publish(context.Background(), RoutingMembershipPurchased, payload)
		assert.ErrorContains(t, err, "channel closed")
	})

	t.Run("cancelled context skips publishing", func(t *testing.T) {
		ch := new(MockChannel)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := NewPublisher(ch, "fitpoint.events").Publish(ctx, RoutingMembershipPurchased, payload)
		assert.ErrorIs(t, err, context.Canceled)
		ch.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unmarshalable payload", func(t *testing.T) {
		ch := new(MockChannel)
		err := NewPublisher(ch, "fitpoint.events").Publish(context.Background(), RoutingReservationRated, make(chan int))
		assert.Error(t, err)
	})
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), RoutingReservationCreated, nil))
}

func TestGetEventQueues(t *testing.T) {
	queues := GetEventQueues()
	require.Len(t, queues, 2)
	for _, q := range queues {
		assert.NotEmpty(t, q.QueueName)
		assert.Contains(t, q.RoutingKey, ".*")
		assert.NotEqual(t, "reservation.*", q.RoutingKey, "reservation events have no consumer")
	}
}
