package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vgorule/GeminiQA/internal/config"
	"github.com/vgorule/GeminiQA/internal/data/redisStore"
	"github.com/vgorule/GeminiQA/internal/domain/commonModels"
	"github.com/vgorule/GeminiQA/pkg/logger_i"
)

const historyWindow = 5

type RedisHistoryStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisHistoryStore returns nil when Redis is offline so the caller can
// fall back to the in-memory store.
func GetRedisHistoryStore(ctx context.Context) *RedisHistoryStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisHistoryDB)
	if inner == nil {
		return nil
	}
	return &RedisHistoryStore{
		store:  inner,
		logger: logger_i.NewLogger("HistoryStore"),
	}
}

func (s *RedisHistoryStore) ValidateChatId(ctx context.Context, chatId string) bool {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", chatId)
	isFound, err := s.store.Exists(ctx, chatId)
	if err != nil && !s.store.IsNil(err) {
		log.Error("Failed to check if chatId exists", "err", err)
		return false
	}
	return isFound
}

func (s *RedisHistoryStore) InitNewChat(ctx context.Context, id string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", id)
	log.Debug("Initializing new chat")
	if err := s.store.Del(ctx, id); err != nil && !s.store.IsNil(err) {
		log.Error("Error clearing chat key", "err", err)
	}
	return s.pushTurn(ctx, id, commonModels.Turn{})
}

func (s *RedisHistoryStore) AppendTurn(ctx context.Context, id string, turn commonModels.Turn) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", id)
	if !s.ValidateChatId(ctx, id) {
		err := fmt.Errorf("invalid chat id %q", id)
		log.Error("Failed validation before saving", "err", err)
		return err
	}
	return s.pushTurn(ctx, id, turn)
}

func (s *RedisHistoryStore) pushTurn(ctx context.Context, id string, turn commonModels.Turn) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", id)
	data, err := json.Marshal(turn)
	if err != nil {
		log.Error("Error marshalling turn", "err", err)
		return err
	}
	if err := s.store.ListPush(ctx, id, data); err != nil {
		log.Error("Error saving chat turn", "err", err)
		return err
	}
	if err := s.store.Expire(ctx, id, config.RedisHistoryTTL); err != nil {
		log.Error("Error refreshing chat ttl", "err", err)
	}
	return nil
}

func (s *RedisHistoryStore) RecentTurns(ctx context.Context, chatId string) ([]string, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", chatId)

	raw, err := s.store.ListGetLastN(ctx, chatId, historyWindow)
	if err != nil {
		log.Error("Error getting history", "err", err)
		return nil, err
	}

	var rendered []string
	for _, entry := range raw {
		var turn commonModels.Turn
		if err := json.Unmarshal([]byte(entry), &turn); err != nil {
			log.Error("Skipping malformed history entry", "err", err)
			continue
		}
		if turn.Question == "" && turn.Answer == "" {
			continue //init placeholder
		}
		rendered = append(rendered, fmt.Sprintf("Question: %s\nAnswer: %s", turn.Question, turn.Answer))
	}
	return rendered, nil
}

func TestHistoryStore(inner *redisStore.Store) *RedisHistoryStore {
	return &RedisHistoryStore{
		store:  inner,
		logger: logger_i.NewLogger("test history store"),
	}
}
