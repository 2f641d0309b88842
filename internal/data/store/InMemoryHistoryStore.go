package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/vgorule/GeminiQA/internal/domain/commonModels"
	"github.com/vgorule/GeminiQA/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem HistoryStore")

type InMemoryHistoryStore struct {
	chatLock *sync.RWMutex
	chatMap  map[string][]commonModels.Turn
}

func InitInMemoryHistoryStore() *InMemoryHistoryStore {
	return &InMemoryHistoryStore{
		chatLock: new(sync.RWMutex),
		chatMap:  make(map[string][]commonModels.Turn),
	}
}

func (store *InMemoryHistoryStore) ValidateChatId(ctx context.Context, chatId string) bool {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	_, ok := store.chatMap[chatId]
	return ok
}

func (store *InMemoryHistoryStore) InitNewChat(ctx context.Context, id string) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[id] = make([]commonModels.Turn, 0)
	return nil
}

func (store *InMemoryHistoryStore) AppendTurn(ctx context.Context, id string, turn commonModels.Turn) error {
	if !store.ValidateChatId(ctx, id) {
		return fmt.Errorf("invalid chat id %q", id)
	}
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[id] = append(store.chatMap[id], turn)
	inMemLogger.Debug("Saved turn to chat history", "chat Id", id)
	return nil
}

func (store *InMemoryHistoryStore) RecentTurns(ctx context.Context, chatId string) ([]string, error) {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()

	turns := store.chatMap[chatId]
	start := 0
	if len(turns) > 5 {
		start = len(turns) - 5
	}

	var rendered []string
	for _, turn := range turns[start:] {
		rendered = append(rendered, fmt.Sprintf("Question: %s\nAnswer: %s", turn.Question, turn.Answer))
	}
	return rendered, nil
}
