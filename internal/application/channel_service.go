package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Jayasawar1325/backend-series/internal/domain/entity"
	repo "github.com/Jayasawar1325/backend-series/internal/domain/repository"
	"github.com/Jayasawar1325/backend-series/pkg/helpers"
)

const profileCacheTTL = 30 * time.Second

// ChannelService serves the read side of the user graph: the aggregated
// channel profile, watch history, and channel search. It never mutates the
// subscription edge set.
type ChannelService struct {
	Repo            repo.UserRepository
	Redis           *redis.Client
	Logger          *logrus.Logger
	ES              *elasticsearch.Client
	ESChannelsIndex string
}

func NewChannelService(r repo.UserRepository, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *ChannelService {
	return &ChannelService{Repo: r, Redis: rdb, Logger: logger, ES: es, ESChannelsIndex: esIndex}
}

func profileCacheKey(username, viewerID string) string {
	return "channel:profile:" + username + ":" + viewerID
}

// GetChannelProfile returns the denormalized channel view for username, with
// IsSubscribed computed against viewerID (may be empty). Responses are cached
// briefly in Redis; the store stays authoritative.
func (s *ChannelService) GetChannelProfile(ctx context.Context, username, viewerID string) (*entity.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, fmt.Errorf("%w: username is missing", ErrValidation)
	}

	key := profileCacheKey(username, viewerID)
	if s.Redis != nil {
		var cached entity.ChannelProfile
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, key, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	p, err := s.Repo.GetChannelProfile(username, viewerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: channel does not exist", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, key, p, profileCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("profile cache write failed")
		}
	}
	return p, nil
}

// GetWatchHistory returns the ordered media ids the user has watched.
func (s *ChannelService) GetWatchHistory(ctx context.Context, userID string) ([]string, error) {
	history, err := s.Repo.GetWatchHistory(userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if history == nil {
		history = []string{}
	}
	return history, nil
}

// Search performs a multi_match over indexed channel usernames and names.
// Without an Elasticsearch client the result is simply empty.
func (s *ChannelService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESChannelsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^2", "fullName"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESChannelsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
