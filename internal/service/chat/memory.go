package chat

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zhouzirui/startup-chat/backend/internal/model/chat"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps conversations in process memory, suitable for local runs without MongoDB.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[primitive.ObjectID][]chat.Message
	now           func() time.Time
}

// NewMemoryStore bootstraps an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock bootstraps an empty in-memory store stamping turns with now.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		conversations: make(map[primitive.ObjectID][]chat.Message),
		now:           now,
	}
}

// AppendTurn creates or extends a conversation.
func (s *MemoryStore) AppendTurn(_ context.Context, conversationID, userMessage, botResponse string) (string, error) {
	message := chat.Message{
		UserMessage: userMessage,
		BotResponse: botResponse,
		Timestamp:   stamp(s.now),
	}

	if conversationID == "" {
		oid := primitive.NewObjectID()
		s.mu.Lock()
		s.conversations[oid] = []chat.Message{message}
		s.mu.Unlock()
		return oid.Hex(), nil
	}

	oid, err := parseID(conversationID)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if messages, ok := s.conversations[oid]; ok {
		s.conversations[oid] = append(messages, message)
	}
	return conversationID, nil
}

// DeleteConversation removes a conversation by id.
func (s *MemoryStore) DeleteConversation(_ context.Context, conversationID string) (bool, error) {
	oid, err := parseID(conversationID)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[oid]; !ok {
		return false, nil
	}
	delete(s.conversations, oid)
	return true, nil
}

// SweepExpired drops conversations with any message older than the cutoff.
func (s *MemoryStore) SweepExpired(_ context.Context, maxAge time.Duration) (int64, error) {
	cutoff := s.now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for oid, messages := range s.conversations {
		for _, msg := range messages {
			if msg.Timestamp.Before(cutoff) {
				delete(s.conversations, oid)
				removed++
				break
			}
		}
	}
	return removed, nil
}

// GetConversation returns a copy of the stored conversation.
func (s *MemoryStore) GetConversation(_ context.Context, conversationID string) (chat.Conversation, error) {
	oid, err := parseID(conversationID)
	if err != nil {
		return chat.Conversation{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.conversations[oid]
	if !ok {
		return chat.Conversation{}, ErrNotFound
	}

	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return chat.Conversation{ID: oid, Messages: copied}, nil
}
