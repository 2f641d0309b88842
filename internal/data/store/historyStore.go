package store

import (
	"context"

	"github.com/vgorule/GeminiQA/internal/domain/commonModels"
)

// HistoryStore keeps per-chat question/answer turns for prompt context.
type HistoryStore interface {
	ValidateChatId(ctx context.Context, id string) bool
	InitNewChat(ctx context.Context, id string) error
	AppendTurn(ctx context.Context, id string, turn commonModels.Turn) error
	// RecentTurns returns up to the last few turns rendered as
	// "Question: .. Answer: .." strings, oldest first.
	RecentTurns(ctx context.Context, chatId string) ([]string, error)
}
