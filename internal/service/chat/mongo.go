package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zhouzirui/startup-chat/backend/internal/model/chat"
)

var _ Store = (*MongoStore)(nil)

// MongoStore keeps one document per conversation with the turns embedded in a messages array.
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoStore wraps the conversation collection.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return NewMongoStoreWithClock(coll, time.Now)
}

// NewMongoStoreWithClock wraps the conversation collection and stamps turns with now.
func NewMongoStoreWithClock(coll *mongo.Collection, now func() time.Time) *MongoStore {
	return &MongoStore{coll: coll, now: now}
}

// AppendTurn inserts a new conversation or pushes one turn onto an existing one.
// Both paths are a single write.
func (s *MongoStore) AppendTurn(ctx context.Context, conversationID, userMessage, botResponse string) (string, error) {
	message := chat.Message{
		UserMessage: userMessage,
		BotResponse: botResponse,
		Timestamp:   stamp(s.now),
	}

	if conversationID == "" {
		res, err := s.coll.InsertOne(ctx, chat.Conversation{Messages: []chat.Message{message}})
		if err != nil {
			return "", fmt.Errorf("failed to insert conversation: %w", err)
		}
		oid, ok := res.InsertedID.(primitive.ObjectID)
		if !ok {
			return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
		}
		return oid.Hex(), nil
	}

	oid, err := parseID(conversationID)
	if err != nil {
		return "", err
	}

	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"messages": message}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		log.Printf("[chat] append skipped, conversation=%s does not exist", conversationID)
		return conversationID, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to append to conversation %s: %w", conversationID, err)
	}
	return conversationID, nil
}

// DeleteConversation removes a conversation by id.
func (s *MongoStore) DeleteConversation(ctx context.Context, conversationID string) (bool, error) {
	oid, err := parseID(conversationID)
	if err != nil {
		return false, err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("failed to delete conversation %s: %w", conversationID, err)
	}
	return res.DeletedCount == 1, nil
}

// SweepExpired matches on any element of messages, so a single stale turn
// removes the whole conversation.
func (s *MongoStore) SweepExpired(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := s.now().Add(-maxAge)

	res, err := s.coll.DeleteMany(ctx, bson.M{"messages.timestamp": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to sweep conversations older than %s: %w", cutoff.UTC().Format(time.RFC3339), err)
	}
	return res.DeletedCount, nil
}

// GetConversation loads a conversation by id.
func (s *MongoStore) GetConversation(ctx context.Context, conversationID string) (chat.Conversation, error) {
	oid, err := parseID(conversationID)
	if err != nil {
		return chat.Conversation{}, err
	}

	var conversation chat.Conversation
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&conversation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return chat.Conversation{}, ErrNotFound
	}
	if err != nil {
		return chat.Conversation{}, fmt.Errorf("failed to load conversation %s: %w", conversationID, err)
	}
	return conversation, nil
}
