package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	chatservice "github.com/zhouzirui/startup-chat/backend/internal/service/chat"
)

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (g *stubGenerator) Generate(_ context.Context, message string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.reply + " about " + message, nil
}

type failingStore struct {
	chatservice.Store
}

func (failingStore) AppendTurn(context.Context, string, string, string) (string, error) {
	return "", errors.New("write concern timeout")
}

func setupRouter(gen Generator, store chatservice.Store) *chi.Mux {
	handler := New(gen, store)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postChat(t *testing.T, r http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestChatCreatesThenContinuesConversation(t *testing.T) {
	store := chatservice.NewMemoryStore()
	r := setupRouter(&stubGenerator{reply: "startups"}, store)

	resp := postChat(t, r, map[string]string{"message": "battery recycling"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	first := decode(t, resp)
	if first["reply"] == "" || first["conversationId"] == "" {
		t.Fatalf("unexpected response: %v", first)
	}

	resp = postChat(t, r, map[string]string{"message": "more detail", "conversationId": first["conversationId"]})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	second := decode(t, resp)
	if second["conversationId"] != first["conversationId"] {
		t.Fatalf("expected same conversation id, got %s", second["conversationId"])
	}

	conversation, err := store.GetConversation(context.Background(), first["conversationId"])
	if err != nil {
		t.Fatalf("GetConversation err: %v", err)
	}
	if len(conversation.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conversation.Messages))
	}
	if conversation.Messages[1].BotResponse != second["reply"] {
		t.Fatalf("stored reply mismatch: %q vs %q", conversation.Messages[1].BotResponse, second["reply"])
	}
}

func TestChatModelFailureSkipsPersistence(t *testing.T) {
	store := chatservice.NewMemoryStore()
	r := setupRouter(&stubGenerator{err: errors.New("upstream down")}, store)

	resp := postChat(t, r, map[string]string{"message": "robotics"})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if got := decode(t, resp)["error"]; got != errChatFailed {
		t.Fatalf("unexpected error body: %q", got)
	}

	swept, _ := store.SweepExpired(context.Background(), -1)
	if swept != 0 {
		t.Fatalf("expected nothing persisted, found %d conversations", swept)
	}
}

func TestChatStoreFailureReturnsGenericError(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	r := setupRouter(gen, failingStore{})

	resp := postChat(t, r, map[string]string{"message": "robotics"})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if gen.calls != 1 {
		t.Fatalf("expected model to be called once, got %d", gen.calls)
	}
}

func TestChatInvalidBody(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	r := setupRouter(gen, chatservice.NewMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte(`{`)))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if gen.calls != 0 {
		t.Fatal("model should not be called for an undecodable body")
	}
}

func TestDeleteConversation(t *testing.T) {
	store := chatservice.NewMemoryStore()
	r := setupRouter(&stubGenerator{reply: "ok"}, store)

	id, err := store.AppendTurn(context.Background(), "", "hello", "hi")
	if err != nil {
		t.Fatalf("AppendTurn err: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/chat/conversation/"+id, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decode(t, resp)["message"]; got != "Conversation deleted successfully" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestDeleteConversationNeverCreated(t *testing.T) {
	r := setupRouter(&stubGenerator{reply: "ok"}, chatservice.NewMemoryStore())

	req := httptest.NewRequest(http.MethodDelete, "/chat/conversation/65f1c0ffee0000000000beef", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if got := decode(t, resp)["error"]; got != "Conversation not found" {
		t.Fatalf("unexpected error: %q", got)
	}
}

func TestDeleteConversationMalformedID(t *testing.T) {
	r := setupRouter(&stubGenerator{reply: "ok"}, chatservice.NewMemoryStore())

	req := httptest.NewRequest(http.MethodDelete, "/chat/conversation/not-an-id", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestGetConversation(t *testing.T) {
	store := chatservice.NewMemoryStore()
	r := setupRouter(&stubGenerator{reply: "ok"}, store)

	id, _ := store.AppendTurn(context.Background(), "", "hello", "hi")

	req := httptest.NewRequest(http.MethodGet, "/chat/conversation/"+id, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/chat/conversation/65f1c0ffee0000000000beef", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
