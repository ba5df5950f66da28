package mq

import "time"

// CaptureReceivedPayload is published by channel bridges (chat bots,
// automation shortcuts) when a new text fragment arrives.
type CaptureReceivedPayload struct {
	Source     string    `json:"source"`
	Content    string    `json:"content"`
	Sender     string    `json:"sender,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}
