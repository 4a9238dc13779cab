package notify

import "encoding/json"

type EventType string

const (
	EventNewPendingOrder EventType = "new_pending_order"
	EventOrderConfirmed  EventType = "order_confirmed"
	EventOrderCancelled  EventType = "order_cancelled"
	EventNotification    EventType = "notification"
)

// Event is one inbound frame on the notification channel. Payload is kept
// raw; events are transient and most consumers only ever show the message.
type Event struct {
	Type    EventType       `json:"type"`
	Message string          `json:"message"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// registerFrame is the one frame the client emits, so the server can target
// personal notifications at this terminal.
type registerFrame struct {
	Event  string `json:"event"`
	UserID int    `json:"user_id"`
}

// Sink receives whatever the channel produces. Implementations must not
// block; the channel calls them from its own goroutines.
type Sink interface {
	// Toast shows a transient notification to the user.
	Toast(e Event)
	// PendingCount reports the current number of pending orders whenever
	// the channel learns it changed.
	PendingCount(n int)
}
