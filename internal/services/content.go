package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"
)

// ContentService serves the static learning-content catalog: JSON
// files on disk keyed by subject and format, fronted by a Redis
// read-through cache so hot lookups skip the filesystem.
type ContentService struct {
	basePath string
	redis    *redis.Client
	ttl      time.Duration
}

func NewContentService(basePath string, redisClient *redis.Client, cacheTTLSeconds int) *ContentService {
	return &ContentService{
		basePath: basePath,
		redis:    redisClient,
		ttl:      time.Duration(cacheTTLSeconds) * time.Second,
	}
}

// Catalog keys are slugs; anything else is rejected before it can
// reach the filesystem.
var slugRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

func (s *ContentService) Lookup(ctx context.Context, subject, format string, index int) (json.RawMessage, error) {
	fieldErrors := make(map[string]string)
	if !slugRegex.MatchString(subject) {
		fieldErrors["subject"] = "subject must be a lowercase slug"
	}
	if !slugRegex.MatchString(format) {
		fieldErrors["format"] = "format must be a lowercase slug"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}
	if index < 0 {
		return nil, &ValidationError{Fields: map[string]string{"index": "index must be non-negative"}}
	}

	raw, err := s.load(ctx, subject, format)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("malformed content file %s/%s: %w", subject, format, err)
	}

	if index >= len(items) {
		return nil, &NotFoundError{Message: "Content item not found"}
	}
	return items[index], nil
}

func (s *ContentService) load(ctx context.Context, subject, format string) ([]byte, error) {
	cacheKey := fmt.Sprintf("content:%s:%s", subject, format)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			return cached, nil
		}
	}

	raw, err := os.ReadFile(filepath.Join(s.basePath, subject, format+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Message: "Content not found"}
		}
		return nil, err
	}

	if s.redis != nil {
		s.redis.Set(ctx, cacheKey, raw, s.ttl)
	}
	return raw, nil
}
