package models

import "fmt"

// Object and aspect types carried by webhook events
const (
	ObjectTypeActivity = "activity"
	ObjectTypeAthlete  = "athlete"

	AspectTypeCreate = "create"
	AspectTypeUpdate = "update"
	AspectTypeDelete = "delete"
)

// WebhookEvent is the payload the platform POSTs to the callback URL.
type WebhookEvent struct {
	ObjectType     string            `json:"object_type"`
	ObjectID       int64             `json:"object_id"`
	AspectType     string            `json:"aspect_type"`
	OwnerID        int64             `json:"owner_id"`
	SubscriptionID int64             `json:"subscription_id"`
	EventTime      int64             `json:"event_time"`
	Updates        map[string]string `json:"updates,omitempty"`
}

// IsActivityCreate reports whether the event announces a new activity.
func (e WebhookEvent) IsActivityCreate() bool {
	return e.ObjectType == ObjectTypeActivity && e.AspectType == AspectTypeCreate
}

// DedupKey identifies redeliveries of the same event.
func (e WebhookEvent) DedupKey() string {
	return fmt.Sprintf("%s:%d:%s", e.ObjectType, e.ObjectID, e.AspectType)
}
