package kafka_test

import (
	"stayops/infras/kafka"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Type     string `json:"type"`
	EntityID string `json:"entity_id"`
}

func TestMessage_RoundTrip(t *testing.T) {
	message := kafka.Message{
		Key:   "tenant-a:b1",
		Value: payload{Type: "booking.checked_in", EntityID: "b1"},
	}

	msg, err := message.ToKafkaMessage()
	require.NoError(t, err)

	assert.Equal(t, []byte("tenant-a:b1"), msg.Key)
	assert.JSONEq(t, `{"type":"booking.checked_in","entity_id":"b1"}`, string(msg.Value))

	decoded, err := kafka.DecodeKafkaMessage[payload](msg)
	require.NoError(t, err)
	assert.Equal(t, message.Value, decoded)
}

func TestMessage_Unmarshalable(t *testing.T) {
	message := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := message.ToKafkaMessage()
	assert.Error(t, err)
}
