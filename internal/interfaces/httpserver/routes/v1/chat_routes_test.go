package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"maizey-chat/services/chat-api/internal/domain/chat"
	"maizey-chat/services/chat-api/internal/interfaces/httpserver/handlers"
	"maizey-chat/services/chat-api/internal/utils/platformerrors"
)

type mockService struct {
	listConversationsFunc  func(ctx context.Context) ([]*chat.Conversation, error)
	createConversationFunc func(ctx context.Context) (*chat.Conversation, error)
	listMessagesFunc       func(ctx context.Context, conversationPK int64) ([]*chat.Message, error)
	sendMessageFunc        func(ctx context.Context, conversationPK int64, query string) (*chat.RemoteMessage, error)
}

func (m *mockService) ListConversations(ctx context.Context) ([]*chat.Conversation, error) {
	return m.listConversationsFunc(ctx)
}

func (m *mockService) CreateConversation(ctx context.Context) (*chat.Conversation, error) {
	return m.createConversationFunc(ctx)
}

func (m *mockService) ListMessages(ctx context.Context, conversationPK int64) ([]*chat.Message, error) {
	return m.listMessagesFunc(ctx, conversationPK)
}

func (m *mockService) SendMessage(ctx context.Context, conversationPK int64, query string) (*chat.RemoteMessage, error) {
	return m.sendMessageFunc(ctx, conversationPK, query)
}

func (m *mockService) EnsureConversation(ctx context.Context, remote *chat.RemoteConversation) (*chat.Conversation, bool, error) {
	return nil, false, nil
}

func (m *mockService) EnsureMessage(ctx context.Context, conv *chat.Conversation, remote *chat.RemoteMessage) (*chat.Message, bool, error) {
	return nil, false, nil
}

func newTestEngine(svc chat.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewRoutes(handlers.NewProvider(svc)).Register(engine)
	return engine
}

func TestListConversationsRoute(t *testing.T) {
	now := time.Now()
	svc := &mockService{
		listConversationsFunc: func(ctx context.Context) ([]*chat.Conversation, error) {
			return []*chat.Conversation{
				{ConversationPK: 43, Title: "Second", CreatedAt: now, UpdatedAt: now, MessageCount: 1},
				{ConversationPK: 42, Title: "First", CreatedAt: now, UpdatedAt: now, MessageCount: 4},
			}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/conversations", nil)
	newTestEngine(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("len(body) = %d, want 2", len(body))
	}
	if body[0]["conversation_pk"].(float64) != 43 {
		t.Errorf("first conversation_pk = %v, want 43", body[0]["conversation_pk"])
	}
	if body[1]["message_count"].(float64) != 4 {
		t.Errorf("message_count = %v, want 4", body[1]["message_count"])
	}
}

func TestCreateConversationRoute(t *testing.T) {
	svc := &mockService{
		createConversationFunc: func(ctx context.Context) (*chat.Conversation, error) {
			return &chat.Conversation{ConversationPK: 42, Title: "New Chat"}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/conversations", nil)
	newTestEngine(svc).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["conversation_pk"].(float64) != 42 || body["title"] != "New Chat" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestCreateConversationRouteUpstreamFailure(t *testing.T) {
	svc := &mockService{
		createConversationFunc: func(ctx context.Context) (*chat.Conversation, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeUpstream, "maizey unavailable", nil, "test-upstream")
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/conversations", nil)
	newTestEngine(svc).ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
}

func TestListMessagesRouteUnknownConversation(t *testing.T) {
	svc := &mockService{
		listMessagesFunc: func(ctx context.Context, conversationPK int64) ([]*chat.Message, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeNotFound, "conversation not found", nil, "test-not-found")
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/conversations/42/messages", nil)
	newTestEngine(svc).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestListMessagesRouteNonNumericPK(t *testing.T) {
	svc := &mockService{
		listMessagesFunc: func(ctx context.Context, conversationPK int64) ([]*chat.Message, error) {
			t.Fatal("service should not be reached for a non-numeric pk")
			return nil, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/conversations/abc/messages", nil)
	newTestEngine(svc).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestListMessagesRoute(t *testing.T) {
	now := time.Now()
	svc := &mockService{
		listMessagesFunc: func(ctx context.Context, conversationPK int64) ([]*chat.Message, error) {
			if conversationPK != 42 {
				t.Errorf("conversationPK = %d, want 42", conversationPK)
			}
			return []*chat.Message{
				{MessageID: 1, Query: "q1", Response: "r1", Sources: []chat.Source{}, CreatedAt: now},
				{MessageID: 2, Query: "q2", Response: "r2", Sources: nil, CreatedAt: now},
			}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/conversations/42/messages", nil)
	newTestEngine(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("len(body) = %d, want 2", len(body))
	}
	if body[0]["conversation_id"].(float64) != 42 {
		t.Errorf("conversation_id = %v, want 42", body[0]["conversation_id"])
	}
	// nil sources must serialize as [], not null
	if sources, ok := body[1]["sources"].([]any); !ok || len(sources) != 0 {
		t.Errorf("sources = %v, want empty array", body[1]["sources"])
	}
}

func TestSendMessageRoute(t *testing.T) {
	raw := `{"id": 99, "query": "hello", "response": "hi", "sources": []}`
	svc := &mockService{
		sendMessageFunc: func(ctx context.Context, conversationPK int64, query string) (*chat.RemoteMessage, error) {
			if conversationPK != 42 || query != "hello" {
				t.Errorf("SendMessage(%d, %q)", conversationPK, query)
			}
			return &chat.RemoteMessage{ID: 99, Query: query, Response: "hi", Raw: []byte(raw)}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/conversations/42/messages/send",
		strings.NewReader(`{"query": "hello"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(svc).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if w.Body.String() != raw {
		t.Errorf("body = %s, want upstream payload relayed verbatim", w.Body.String())
	}
}

func TestSendMessageRouteValidation(t *testing.T) {
	svc := &mockService{
		sendMessageFunc: func(ctx context.Context, conversationPK int64, query string) (*chat.RemoteMessage, error) {
			t.Fatal("service should not be reached for an invalid query")
			return nil, nil
		},
	}
	engine := newTestEngine(svc)

	tests := []struct {
		name string
		body string
	}{
		{"missing query", `{}`},
		{"empty query", `{"query": ""}`},
		{"blank query", `{"query": "   "}`},
		{"too long", `{"query": "` + strings.Repeat("a", 1001) + `"}`},
		{"not json", `nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/conversations/42/messages/send",
				strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			engine.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestSendMessageRouteUpstreamFailure(t *testing.T) {
	svc := &mockService{
		sendMessageFunc: func(ctx context.Context, conversationPK int64, query string) (*chat.RemoteMessage, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeUpstream, "maizey unavailable", nil, "test-upstream")
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/conversations/42/messages/send",
		strings.NewReader(`{"query": "hello"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(svc).ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
}
