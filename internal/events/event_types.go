package events

import (
	"time"

	"github.com/spec-kit/service-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated  EventType = "request_created"
	EventStatusChanged   EventType = "request_status_changed"
	EventRequestAssigned EventType = "request_assigned"
	EventCommentAdded    EventType = "request_comment_added"
	EventRequestDeleted  EventType = "request_deleted"
)

// Event represents a catalog change emitted by the store.
type Event struct {
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     string      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	Category string                 `json:"category"`
	Priority domain.RequestPriority `json:"priority"`
	Subject  string                 `json:"subject"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus domain.RequestStatus `json:"old_status"`
	NewStatus domain.RequestStatus `json:"new_status"`
}

// RequestAssignedPayload payload.
type RequestAssignedPayload struct {
	Agent string `json:"agent"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	Preview string `json:"preview"`
}
