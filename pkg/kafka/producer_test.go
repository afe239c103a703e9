package kafka

import (
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestProducer_PublishQueues(t *testing.T) {
	p := NewProducer([]string{"localhost:1"}, "order.created", 4, zap.NewNop())

	p.Publish([]byte("order-1"), []byte(`{"orderId":1}`), kafkago.Header{Key: "x-event-type", Value: []byte("OrderCreated")})
	p.Publish([]byte("order-2"), []byte(`{"orderId":2}`))
	assert.Equal(t, 2, p.Pending())

	m := <-p.inbox
	assert.Equal(t, "order-1", string(m.Key))
	assert.Equal(t, "x-event-type", m.Headers[0].Key)
	assert.False(t, m.Time.IsZero())
	assert.Equal(t, "order.created", p.w.Topic)
}
