package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zhouzirui/startup-chat/backend/internal/model/chat"
)

var (
	ErrInvalidID = errors.New("invalid conversation id")
	ErrNotFound  = errors.New("conversation not found")
)

// Store persists conversations as append-only lists of turns.
type Store interface {
	// AppendTurn creates a conversation when conversationID is empty and
	// returns its id. Otherwise it appends to the existing conversation;
	// an unknown id is a no-op and is returned unchanged.
	AppendTurn(ctx context.Context, conversationID, userMessage, botResponse string) (string, error)

	// DeleteConversation reports whether a conversation was removed.
	DeleteConversation(ctx context.Context, conversationID string) (bool, error)

	// SweepExpired removes every conversation holding at least one message
	// older than now-maxAge and returns how many were removed.
	SweepExpired(ctx context.Context, maxAge time.Duration) (int64, error)

	GetConversation(ctx context.Context, conversationID string) (chat.Conversation, error)
}

func parseID(conversationID string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, conversationID)
	}
	return oid, nil
}

// stamp returns a UTC timestamp at the millisecond precision BSON dates keep.
func stamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Millisecond)
}
