package qdrantDB

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"github.com/vgorule/GeminiQA/internal/config"
	"github.com/vgorule/GeminiQA/internal/domain/commonModels"
	"github.com/vgorule/GeminiQA/internal/metrics"
	"github.com/vgorule/GeminiQA/pkg/logger_i"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)
var collectionName = config.InteractionCollectionName

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQdrantClient(ctx context.Context) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient(ctx)
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: qdrantInstance,
	}
}

func newClient(ctx context.Context) *qdrant.Client {

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate qdrant client: ", "error", err)
		return nil
	}

	initCtx, cancel := context.WithTimeout(ctx, config.QdrantConnectionTimeout)
	defer cancel()

	if err = createCollection(initCtx, client, collectionName); err != nil {
		logger.Error("could not create collection: ", "collectionName", collectionName, "error", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant: ", "error", err)
	}
	logger.Info("Closed Qdrant")
}

// Store writes one interaction record. A vector whose length does not match
// the collection dimension is rejected outright; silently padding or
// truncating would hide an embedding-model/collection drift that needs an
// explicit migration.
func (db *ClientHolder) Store(ctx context.Context, record commonModels.Interaction, vector []float32) (string, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if uint64(len(vector)) != dimension {
		return "", commonModels.NewPipelineError(
			commonModels.KindDimensionMismatch,
			fmt.Sprintf("vector dimension %d does not match collection dimension %d", len(vector), dimension),
			nil,
		)
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_store", time.Since(start)) }()

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(record.Id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"text":      record.Text,
					"type":      string(record.Type),
					"timestamp": record.Timestamp.Format(time.RFC3339),
					"query":     record.Query,
					"answer":    record.Answer,
					"url":       record.URL,
				}),
			},
		},
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		loggr.Error("qdrant upsert failed", "error", err)
		return "", fmt.Errorf("qdrant upsert failed: %w", err)
	}

	metrics.IncrementInteractionsStored(string(record.Type))
	loggr.Debug("Stored interaction", "id", record.Id, "type", record.Type)
	return record.Id, nil
}

func (db *ClientHolder) Search(ctx context.Context, vector []float32, limit int) ([]commonModels.Match, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error", err)
		return nil, err
	}

	matches := make([]commonModels.Match, 0, len(result))
	for _, hit := range result {
		matches = append(matches, commonModels.Match{
			Id:         hit.Id.GetUuid(),
			Text:       hit.Payload["text"].GetStringValue(),
			Similarity: hit.Score,
			Type:       commonModels.FileType(hit.Payload["type"].GetStringValue()),
			URL:        hit.Payload["url"].GetStringValue(),
			Query:      hit.Payload["query"].GetStringValue(),
			Answer:     hit.Payload["answer"].GetStringValue(),
		})
	}

	loggr.Debug("Similarity search done", "matches", len(matches))
	return matches, nil
}

func (db *ClientHolder) Delete(ctx context.Context, id string) error {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points:         qdrant.NewPointsSelector(qdrant.NewID(id)),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		loggr.Error("Error deleting interaction", "id", id, "error", err)
		return err
	}
	loggr.Debug("Deleted interaction", "id", id)
	return nil
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}
