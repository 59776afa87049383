package entity

import "time"

// Message is a single chat message between two users. Messages are
// append-only: once stored they are never edited or deleted.
// At least one of Text/ImageURL is always set.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Text       string    `json:"text,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
