package analytics

import "time"

// Topics for the link lifecycle event stream.
const (
	TopicLinkCreated = "link.created"
	TopicLinkClicked = "link.clicked"
	TopicLinkDeleted = "link.deleted"
)

// LinkCreatedEvent is emitted after a short link is registered.
type LinkCreatedEvent struct {
	LinkID      string    `json:"linkId"`
	UserID      string    `json:"userId"`
	Code        string    `json:"code"`
	Alias       string    `json:"alias,omitempty"`
	OriginalURL string    `json:"originalUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LinkClickedEvent is emitted after a click is recorded. The synchronous
// click path is authoritative; this event is a fan-out for offline
// consumers.
type LinkClickedEvent struct {
	LinkID    string    `json:"linkId"`
	UserID    string    `json:"userId"`
	Code      string    `json:"code"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Device    string    `json:"device"`
	Browser   string    `json:"browser"`
	OS        string    `json:"os"`
	Referrer  string    `json:"referrer,omitempty"`
	ClickedAt time.Time `json:"clickedAt"`
}

// LinkDeletedEvent is emitted after a link and its click log are removed.
type LinkDeletedEvent struct {
	LinkID    string    `json:"linkId"`
	UserID    string    `json:"userId"`
	Code      string    `json:"code"`
	DeletedAt time.Time `json:"deletedAt"`
}
