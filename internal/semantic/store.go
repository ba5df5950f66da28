package semantic

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"secondbrain/internal/classify"
)

const keyPrefix = "note:"

// Match is a semantic search hit with a cosine similarity in [-1,1].
type Match struct {
	ID         string
	Content    string
	Similarity float64
	Metadata   map[string]string
}

// Store keeps note embeddings in Redis, one hash per note. Nearest search
// embeds the query and scans the keyspace; the corpus is a single person's
// notes, a few thousand entries at most.
type Store struct {
	rdb      *redis.Client
	embedder classify.Embedder
	logger   *zap.Logger
}

func NewStore(rdb *redis.Client, embedder classify.Embedder, logger *zap.Logger) *Store {
	return &Store{
		rdb:      rdb,
		embedder: embedder,
		logger:   logger,
	}
}

// Upsert embeds content and writes the note hash.
func (s *Store) Upsert(ctx context.Context, id, content string, metadata map[string]string) error {
	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("failed to embed content: %w", err)
	}

	vec, err := json.Marshal(embedding)
	if err != nil {
		return err
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	err = s.rdb.HSet(ctx, keyPrefix+id, map[string]any{
		"content":   content,
		"embedding": string(vec),
		"metadata":  string(meta),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to store note %s: %w", id, err)
	}

	s.logger.Info("Note vectorised", zap.String("note_id", id))
	return nil
}

// SearchNearest returns the closest notes to the query, best first.
func (s *Store) SearchNearest(ctx context.Context, query string, limit int) ([]Match, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	var matches []Match

	iter := s.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		fields, err := s.rdb.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, err
		}

		var embedding []float64
		if err := json.Unmarshal([]byte(fields["embedding"]), &embedding); err != nil {
			s.logger.Warn("Skipping note with unreadable embedding", zap.String("key", key))
			continue
		}

		metadata := map[string]string{}
		if raw, ok := fields["metadata"]; ok && raw != "" {
			_ = json.Unmarshal([]byte(raw), &metadata)
		}

		matches = append(matches, Match{
			ID:         strings.TrimPrefix(key, keyPrefix),
			Content:    fields["content"],
			Similarity: cosineSimilarity(queryVec, embedding),
			Metadata:   metadata,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}

// Delete removes a note hash by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, keyPrefix+id).Err()
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
