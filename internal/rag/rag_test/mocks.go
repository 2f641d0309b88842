package rag_test

import (
	"context"

	"github.com/vgorule/GeminiQA/internal/domain/commonModels"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnStore  func(ctx context.Context, record commonModels.Interaction, vector []float32) (string, error)
	OnSearch func(ctx context.Context, vector []float32, limit int) ([]commonModels.Match, error)
	OnDelete func(ctx context.Context, id string) error
}

func (m *MockVectorDB) Store(ctx context.Context, record commonModels.Interaction, vector []float32) (string, error) {
	if m.OnStore != nil {
		return m.OnStore(ctx, record, vector)
	}
	return record.Id, nil
}

func (m *MockVectorDB) Search(ctx context.Context, vector []float32, limit int) ([]commonModels.Match, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, vector, limit)
	}
	return []commonModels.Match{{Id: "match-1", Text: "default context", Type: commonModels.FileTypePDF, Similarity: 0.9}}, nil
}

func (m *MockVectorDB) Delete(ctx context.Context, id string) error {
	if m.OnDelete != nil {
		return m.OnDelete(ctx, id)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding func(ctx context.Context, text string) []float32
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) []float32 {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return []float32{0.1}
}

func (m *MockEmbedder) Dimension() int {
	return 1
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate       func(ctx context.Context, prompt string) (string, error)
	OnGenerateVision func(ctx context.Context, prompt string, imageData []byte, mimeType string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt)
	}
	return "mocked llm response", nil
}

func (m *MockLLM) GenerateVision(ctx context.Context, prompt string, imageData []byte, mimeType string) (string, error) {
	if m.OnGenerateVision != nil {
		return m.OnGenerateVision(ctx, prompt, imageData, mimeType)
	}
	return "mocked vision response", nil
}

// MockExtractor implements rag.FileExtractor
type MockExtractor struct {
	OnProcess func(ctx context.Context, path string) (commonModels.Extraction, error)
}

func (m *MockExtractor) Process(ctx context.Context, path string) (commonModels.Extraction, error) {
	if m.OnProcess != nil {
		return m.OnProcess(ctx, path)
	}
	return commonModels.Extraction{FileType: commonModels.FileTypePDF, Text: "extracted text"}, nil
}

// MockVideoBuilder implements rag.VideoContextBuilder
type MockVideoBuilder struct {
	OnBuildContext func(ctx context.Context, url string) string
}

func (m *MockVideoBuilder) BuildContext(ctx context.Context, url string) string {
	if m.OnBuildContext != nil {
		return m.OnBuildContext(ctx, url)
	}
	return "YouTube Video Information:\nTitle: mock video\n"
}

// MockHistory implements store.HistoryStore
type MockHistory struct {
	OnValidateChatId func(ctx context.Context, id string) bool
	Appended         []commonModels.Turn
	Turns            []string
}

func (m *MockHistory) ValidateChatId(ctx context.Context, id string) bool {
	if m.OnValidateChatId != nil {
		return m.OnValidateChatId(ctx, id)
	}
	return false
}

func (m *MockHistory) InitNewChat(ctx context.Context, id string) error {
	return nil
}

func (m *MockHistory) AppendTurn(ctx context.Context, id string, turn commonModels.Turn) error {
	m.Appended = append(m.Appended, turn)
	return nil
}

func (m *MockHistory) RecentTurns(ctx context.Context, chatId string) ([]string, error) {
	return m.Turns, nil
}
