package rag_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vgorule/GeminiQA/internal/config"
	"github.com/vgorule/GeminiQA/internal/domain/commonModels"
	"github.com/vgorule/GeminiQA/internal/rag"
)

func newTestService(v *MockVectorDB, l *MockLLM, e *MockEmbedder, h *MockHistory) rag.Service {
	return rag.NewService(v, l, e, h, &MockExtractor{}, &MockVideoBuilder{}, true)
}

func testContext() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
}

func TestChat_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		input          rag.ChatInput
		setupMocks     func(e *MockEmbedder, v *MockVectorDB, l *MockLLM)
		expectedAnswer string
		expectedKind   commonModels.ErrorKind
	}{
		{
			name:  "Success_Direct_Question",
			input: rag.ChatInput{Message: "What is 2+2?"},
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				l.OnGenerate = func(ctx context.Context, prompt string) (string, error) {
					return "final answer", nil
				}
			},
			expectedAnswer: "final answer",
		},
		{
			name:         "Failure_Empty_Message",
			input:        rag.ChatInput{Message: "   "},
			setupMocks:   func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {},
			expectedKind: commonModels.KindEmptyMessage,
		},
		{
			name:         "Failure_Non_YouTube_URL",
			input:        rag.ChatInput{Message: "https://example.com/video"},
			setupMocks:   func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {},
			expectedKind: commonModels.KindUnsupportedURL,
		},
		{
			name:  "Success_YouTube_URL",
			input: rag.ChatInput{Message: "https://youtu.be/dQw4w9WgXcQ"},
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				l.OnGenerate = func(ctx context.Context, prompt string) (string, error) {
					return "video answer", nil
				}
			},
			expectedAnswer: "video answer",
		},
		{
			name:  "Success_Vector_Search_Failure_Degrades",
			input: rag.ChatInput{Message: "still works?"},
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnSearch = func(ctx context.Context, vector []float32, limit int) ([]commonModels.Match, error) {
					return nil, errors.New("db timeout")
				}
				l.OnGenerate = func(ctx context.Context, prompt string) (string, error) {
					return "degraded answer", nil
				}
			},
			expectedAnswer: "degraded answer",
		},
		{
			name:  "Failure_LLM_Generation",
			input: rag.ChatInput{Message: "test question"},
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				l.OnGenerate = func(ctx context.Context, prompt string) (string, error) {
					return "", errors.New("provider down")
				}
			},
			expectedKind: commonModels.ErrorKind(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			mLLM := &MockLLM{}
			mHist := &MockHistory{}

			tt.setupMocks(mEmbed, mVec, mLLM)

			s := newTestService(mVec, mLLM, mEmbed, mHist)

			result, err := s.Chat(testContext(), tt.input)

			if tt.expectedAnswer != "" {
				if err != nil {
					t.Fatalf("Chat returned error %v, want answer %q", err, tt.expectedAnswer)
				}
				if result.Answer != tt.expectedAnswer {
					t.Errorf("Answer got %q, want %q", result.Answer, tt.expectedAnswer)
				}
				if result.ChatID == "" {
					t.Errorf("ChatID should be minted for a new conversation")
				}
				if len(mHist.Appended) != 1 {
					t.Errorf("Appended turns got %d, want 1", len(mHist.Appended))
				}
				return
			}

			if err == nil {
				t.Fatal("Chat should have returned an error")
			}
			if tt.expectedKind != "" && commonModels.KindOf(err) != tt.expectedKind {
				t.Errorf("Error kind got %q, want %q", commonModels.KindOf(err), tt.expectedKind)
			}
		})
	}
}

func TestChat_ExistingChatIdPreserved(t *testing.T) {
	mHist := &MockHistory{
		OnValidateChatId: func(ctx context.Context, id string) bool { return id == "known-chat" },
		Turns:            []string{"Question: earlier\nAnswer: earlier answer"},
	}
	s := newTestService(&MockVectorDB{}, &MockLLM{}, &MockEmbedder{}, mHist)

	result, err := s.Chat(testContext(), rag.ChatInput{Message: "follow up", ChatID: "known-chat"})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if result.ChatID != "known-chat" {
		t.Errorf("ChatID got %q, want the validated id back", result.ChatID)
	}
}

func TestChat_FileExtractionFailure(t *testing.T) {
	extractor := &MockExtractor{
		OnProcess: func(ctx context.Context, path string) (commonModels.Extraction, error) {
			return commonModels.Extraction{}, commonModels.NewPipelineError(
				commonModels.KindExtractionFailed, "could not extract content from pdf file", nil)
		},
	}
	s := rag.NewService(&MockVectorDB{}, &MockLLM{}, &MockEmbedder{}, &MockHistory{}, extractor, &MockVideoBuilder{}, true)

	_, err := s.Chat(testContext(), rag.ChatInput{Message: "summarize", FilePath: "/tmp/broken.pdf"})
	if err == nil {
		t.Fatal("Chat should fail when extraction fails")
	}
	if commonModels.KindOf(err) != commonModels.KindExtractionFailed {
		t.Errorf("Error kind got %q, want %q", commonModels.KindOf(err), commonModels.KindExtractionFailed)
	}
}

func TestChat_ImageUploadUsesVisionModel(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "photo.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 3))); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	if err := os.WriteFile(imagePath, buf.Bytes(), 0600); err != nil {
		t.Fatalf("writing test image: %v", err)
	}

	extractor := &MockExtractor{
		OnProcess: func(ctx context.Context, path string) (commonModels.Extraction, error) {
			return commonModels.Extraction{FileType: commonModels.FileTypeImage, Text: "Image analysis: 2x3 PNG image."}, nil
		},
	}

	var visionBytes []byte
	var visionMime string
	mLLM := &MockLLM{
		OnGenerate: func(ctx context.Context, prompt string) (string, error) {
			t.Errorf("text model called for an image upload, prompt: %q", prompt)
			return "", nil
		},
		OnGenerateVision: func(ctx context.Context, prompt string, imageData []byte, mimeType string) (string, error) {
			visionBytes = imageData
			visionMime = mimeType
			return "a blue rectangle", nil
		},
	}

	s := rag.NewService(&MockVectorDB{}, mLLM, &MockEmbedder{}, &MockHistory{}, extractor, &MockVideoBuilder{}, true)

	result, err := s.Chat(testContext(), rag.ChatInput{Message: "What is in this picture?", FilePath: imagePath})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if result.Answer != "a blue rectangle" {
		t.Errorf("Answer got %q, want the vision model's answer", result.Answer)
	}
	if !bytes.Equal(visionBytes, buf.Bytes()) {
		t.Errorf("vision model got %d bytes, want the uploaded file's %d bytes", len(visionBytes), buf.Len())
	}
	if visionMime != "image/png" {
		t.Errorf("mime type got %q, want %q", visionMime, "image/png")
	}
}

func TestChat_YouTubePromptStructure(t *testing.T) {
	tests := []struct {
		name       string
		context    string
		wantPhrase string
		skipPhrase string
	}{
		{
			name:       "transcript available",
			context:    "YouTube Video Information:\nTitle: Go tutorial\n\nTranscript:\nToday we cover goroutines.",
			wantPhrase: "1. A brief overview (1-2 sentences)",
			skipPhrase: "limited information",
		},
		{
			name:       "transcription failed",
			context:    "YouTube Video Information:\nTitle: Go tutorial\n\nTranscription failed: no audio stream\n",
			wantPhrase: "Based on this limited information",
			skipPhrase: "comprehensive summary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			video := &MockVideoBuilder{
				OnBuildContext: func(ctx context.Context, url string) string { return tt.context },
			}
			var seenPrompt string
			mLLM := &MockLLM{OnGenerate: func(ctx context.Context, prompt string) (string, error) {
				seenPrompt = prompt
				return "summary", nil
			}}

			s := rag.NewService(&MockVectorDB{}, mLLM, &MockEmbedder{}, &MockHistory{}, &MockExtractor{}, video, true)

			if _, err := s.Chat(testContext(), rag.ChatInput{Message: "https://youtu.be/dQw4w9WgXcQ"}); err != nil {
				t.Fatalf("Chat returned error: %v", err)
			}
			if !strings.Contains(seenPrompt, tt.wantPhrase) {
				t.Errorf("prompt should contain %q, got:\n%s", tt.wantPhrase, seenPrompt)
			}
			if strings.Contains(seenPrompt, tt.skipPhrase) {
				t.Errorf("prompt should not contain %q, got:\n%s", tt.skipPhrase, seenPrompt)
			}
			if !strings.Contains(seenPrompt, tt.context) {
				t.Errorf("prompt should carry the video context document")
			}
		})
	}
}

func TestAsk(t *testing.T) {
	mLLM := &MockLLM{OnGenerate: func(ctx context.Context, prompt string) (string, error) {
		return "four", nil
	}}
	s := newTestService(&MockVectorDB{}, mLLM, &MockEmbedder{}, &MockHistory{})

	answer, err := s.Ask(testContext(), "What is 2+2?")
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	if answer != "four" {
		t.Errorf("Answer got %q, want %q", answer, "four")
	}

	if _, err := s.Ask(testContext(), ""); commonModels.KindOf(err) != commonModels.KindEmptyMessage {
		t.Errorf("Empty question should be rejected, got %v", err)
	}
}

func TestDeleteInteraction(t *testing.T) {
	deleted := ""
	mVec := &MockVectorDB{OnDelete: func(ctx context.Context, id string) error {
		deleted = id
		return nil
	}}
	s := newTestService(mVec, &MockLLM{}, &MockEmbedder{}, &MockHistory{})

	if err := s.DeleteInteraction(testContext(), "some-id"); err != nil {
		t.Fatalf("DeleteInteraction returned error: %v", err)
	}
	if deleted != "some-id" {
		t.Errorf("Delete called with %q, want %q", deleted, "some-id")
	}
}

func TestDeleteInteraction_NoVectorStore(t *testing.T) {
	s := rag.NewService(nil, &MockLLM{}, &MockEmbedder{}, &MockHistory{}, &MockExtractor{}, &MockVideoBuilder{}, false)

	err := s.DeleteInteraction(testContext(), "some-id")
	if commonModels.KindOf(err) != commonModels.KindServiceUnavailable {
		t.Errorf("Error kind got %q, want %q", commonModels.KindOf(err), commonModels.KindServiceUnavailable)
	}
}

func TestAvailability(t *testing.T) {
	s := rag.NewService(nil, &MockLLM{}, &MockEmbedder{}, &MockHistory{}, &MockExtractor{}, &MockVideoBuilder{}, false)

	services := s.Availability(context.Background())
	if services["gemini"] != true {
		t.Errorf("gemini should be reported available")
	}
	if services["vector_db"] != false {
		t.Errorf("vector_db should be reported unavailable")
	}
	if services["transcriber"] != false {
		t.Errorf("transcriber should be reported unavailable")
	}
}
