package chat

import "time"

// Message is one user/bot turn. It is written once and never edited.
type Message struct {
	UserMessage string    `json:"userMessage" bson:"userMessage"`
	BotResponse string    `json:"botResponse" bson:"botResponse"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}
