package notification

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TaskTypeDeliver is the asynq task type for the delivery fan-out.
const TaskTypeDeliver = "notification:deliver"

// DeliverPayload is the serialized payload for a delivery task.
type DeliverPayload struct {
	NotificationID string `json:"notification_id"`
}

// NewDeliverTask creates an asynq task carrying a notification id.
func NewDeliverTask(notificationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(DeliverPayload{NotificationID: notificationID})
	if err != nil {
		return nil, fmt.Errorf("marshaling task payload: %w", err)
	}
	return asynq.NewTask(TaskTypeDeliver, payload), nil
}

// ParseDeliverPayload deserializes the task payload.
func ParseDeliverPayload(data []byte) (*DeliverPayload, error) {
	var p DeliverPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshaling task payload: %w", err)
	}
	return &p, nil
}
