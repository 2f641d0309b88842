package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/vgorule/GeminiQA/internal/api"
	"github.com/vgorule/GeminiQA/internal/domain/commonModels"
	"github.com/vgorule/GeminiQA/internal/rag"
)

// mockService implements rag.Service
type mockService struct {
	OnChat              func(ctx context.Context, input rag.ChatInput) (rag.ChatResult, error)
	OnAsk               func(ctx context.Context, question string) (string, error)
	OnDeleteInteraction func(ctx context.Context, id string) error
}

func (m *mockService) Chat(ctx context.Context, input rag.ChatInput) (rag.ChatResult, error) {
	if m.OnChat != nil {
		return m.OnChat(ctx, input)
	}
	return rag.ChatResult{Answer: "mock answer", ChatID: "mock-chat"}, nil
}

func (m *mockService) Ask(ctx context.Context, question string) (string, error) {
	if m.OnAsk != nil {
		return m.OnAsk(ctx, question)
	}
	return "mock answer", nil
}

func (m *mockService) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string, prompt string) (string, error) {
	return "mock analysis", nil
}

func (m *mockService) DeleteInteraction(ctx context.Context, id string) error {
	if m.OnDeleteInteraction != nil {
		return m.OnDeleteInteraction(ctx, id)
	}
	return nil
}

func (m *mockService) Availability(ctx context.Context) map[string]bool {
	return map[string]bool{"gemini": true, "vector_db": false}
}

func TestChatHandler_Success(t *testing.T) {
	h := New(&mockService{
		OnChat: func(ctx context.Context, input rag.ChatInput) (rag.ChatResult, error) {
			if input.Message != "What is 2+2?" {
				t.Errorf("Message got %q", input.Message)
			}
			return rag.ChatResult{
				Answer:  "2+2 equals 4.",
				ChatID:  "chat-1",
				Similar: []commonModels.Match{{Id: "m1", Text: "related", Type: commonModels.FileTypeQAPair, Similarity: 0.8}},
			}, nil
		},
	})

	body := bytes.NewBufferString(`{"message":"What is 2+2?"}`)
	req := httptest.NewRequest(http.MethodPost, "/chat", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ChatHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status got %d, want 200", rec.Code)
	}

	var resp api.ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Could not decode response: %v", err)
	}
	if resp.Answer == "" {
		t.Error("Answer should not be empty")
	}
	if resp.Error != nil {
		t.Errorf("Error should be null, got %+v", resp.Error)
	}
	if resp.ChatID != "chat-1" {
		t.Errorf("ChatID got %q, want chat-1", resp.ChatID)
	}
	if len(resp.SimilarContent) != 1 {
		t.Errorf("SimilarContent got %d entries, want 1", len(resp.SimilarContent))
	}
}

func TestChatHandler_EmptyMessage(t *testing.T) {
	h := New(&mockService{})

	body := bytes.NewBufferString(`{"message":"   "}`)
	req := httptest.NewRequest(http.MethodPost, "/chat", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ChatHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Status got %d, want 400", rec.Code)
	}

	var resp api.ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Could not decode response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != http.StatusBadRequest {
		t.Errorf("Expected a 400 error body, got %+v", resp.Error)
	}
}

func TestChatHandler_UnsupportedURL(t *testing.T) {
	h := New(&mockService{
		OnChat: func(ctx context.Context, input rag.ChatInput) (rag.ChatResult, error) {
			return rag.ChatResult{}, commonModels.NewPipelineError(
				commonModels.KindUnsupportedURL, "only YouTube URLs are supported", nil)
		},
	})

	body := bytes.NewBufferString(`{"message":"https://example.com/video"}`)
	req := httptest.NewRequest(http.MethodPost, "/chat", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ChatHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Status got %d, want 400", rec.Code)
	}

	var resp api.ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Could not decode response: %v", err)
	}
	if resp.Error == nil || resp.Error.Kind != string(commonModels.KindUnsupportedURL) {
		t.Errorf("Expected an unsupported_url error, got %+v", resp.Error)
	}
}

func TestAskHandler(t *testing.T) {
	h := New(&mockService{
		OnAsk: func(ctx context.Context, question string) (string, error) {
			return "four", nil
		},
	})

	body := bytes.NewBufferString(`{"question":"What is 2+2?"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/ask", body)
	rec := httptest.NewRecorder()

	h.AskHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status got %d, want 200", rec.Code)
	}

	var resp api.AskResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Could not decode response: %v", err)
	}
	if resp.Answer != "four" {
		t.Errorf("Answer got %q, want four", resp.Answer)
	}
}

func TestHealthHandler(t *testing.T) {
	h := New(&mockService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.HealthHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status got %d, want 200", rec.Code)
	}

	var resp api.HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Could not decode response: %v", err)
	}
	// one dependency is down in the mock, so the service is degraded
	if resp.Status != "degraded" {
		t.Errorf("Status got %q, want degraded", resp.Status)
	}
	if !resp.Services["gemini"] {
		t.Error("gemini should be reported available")
	}
}

func TestDeleteInteractionHandler(t *testing.T) {
	deleted := ""
	h := New(&mockService{
		OnDeleteInteraction: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	})

	r := chi.NewRouter()
	r.Delete("/api/interactions/{id}", h.DeleteInteractionHandler)

	req := httptest.NewRequest(http.MethodDelete, "/api/interactions/abc-123", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status got %d, want 200", rec.Code)
	}
	if deleted != "abc-123" {
		t.Errorf("Deleted id got %q, want abc-123", deleted)
	}

	var resp api.DeleteResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Could not decode response: %v", err)
	}
	if !resp.Deleted {
		t.Error("Deleted should be true")
	}
}

func TestIndexHandler(t *testing.T) {
	h := New(&mockService{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.IndexHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<html") {
		t.Error("Index page should serve HTML")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type got %q, want text/html", ct)
	}
}
