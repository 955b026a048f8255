package messaging_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/shortloop/shortloop/internal/click"
	"github.com/shortloop/shortloop/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	messages   []*message.Message
	topic      string
	publishErr error
	closeErr   error
	closed     bool
}

func (m *mockPublisher) Publish(topic string, msgs ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.topic = topic
	m.messages = append(m.messages, msgs...)

	return nil
}

func (m *mockPublisher) Close() error {
	m.closed = true

	return m.closeErr
}

func TestNewPublishFunc(t *testing.T) {
	t.Run("publishes a click event as json", func(t *testing.T) {
		mock := &mockPublisher{}
		publish := messaging.NewPublishFunc[click.Event](mock, click.TopicClick)

		event := &click.Event{
			Code:       "promo",
			OccurredAt: time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC),
			IPHash:     click.Fingerprint("203.0.113.7"),
		}

		err := publish(event)

		require.NoError(t, err)
		assert.Equal(t, click.TopicClick, mock.topic)
		require.Len(t, mock.messages, 1)
		assert.NotEmpty(t, mock.messages[0].UUID)
		assert.Contains(t, string(mock.messages[0].Payload), `"code":"promo"`)
	})

	t.Run("returns the publish error", func(t *testing.T) {
		mock := &mockPublisher{publishErr: errors.New("stream unavailable")}
		publish := messaging.NewPublishFunc[click.Event](mock, click.TopicClick)

		err := publish(&click.Event{Code: "promo"})

		assert.Error(t, err)
	})
}

func TestPublisherGroup(t *testing.T) {
	t.Run("hands out the underlying publisher", func(t *testing.T) {
		mock := &mockPublisher{}
		group := messaging.NewPublisherGroup(mock)

		assert.Equal(t, mock, group.Publisher())
	})

	t.Run("shutdown closes the publisher once", func(t *testing.T) {
		mock := &mockPublisher{}
		group := messaging.NewPublisherGroup(mock)

		require.NoError(t, group.Shutdown())
		assert.True(t, mock.closed)
	})

	t.Run("shutdown surfaces close errors", func(t *testing.T) {
		mock := &mockPublisher{closeErr: errors.New("close error")}
		group := messaging.NewPublisherGroup(mock)

		assert.Error(t, group.Shutdown())
	})
}
