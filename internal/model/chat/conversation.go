package chat

import "go.mongodb.org/mongo-driver/bson/primitive"

// Conversation is an ordered, append-only list of turns addressed by its ObjectID.
type Conversation struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Messages []Message          `json:"messages" bson:"messages"`
}
