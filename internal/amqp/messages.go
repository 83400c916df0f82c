package amqp

import (
	"encoding/json"
	"time"
)

// ChangeOp names the mutation an ItemChangeMessage announces.
type ChangeOp string

const (
	OpCreated ChangeOp = "created"
	OpUpdated ChangeOp = "updated"
	OpDeleted ChangeOp = "deleted"
)

// ItemChangeMessage tells consumers that one item changed. It carries only
// the ID and the kind of change; consumers refetch whatever state they
// need from the item store.
type ItemChangeMessage struct {
	ID        string    `json:"id"`
	Op        ChangeOp  `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

func NewItemChangeMessage(id string, op ChangeOp) *ItemChangeMessage {
	return &ItemChangeMessage{
		ID:        id,
		Op:        op,
		Timestamp: time.Now(),
	}
}

func (m *ItemChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ItemChangeMessageFromJSON(data []byte) (*ItemChangeMessage, error) {
	var msg ItemChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
