package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"tiffinbox/internal/domain"

	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrQuoteNotFound = errors.New("checkout quote not found or expired")

// RedisStore holds the navigation-carried checkout quotes and review
// duplicate markers. Quotes expire on their own if never submitted.
type RedisStore struct {
	Client   *redis.Client
	QuoteTTL time.Duration
}

func NewRedisStore(client *redis.Client, quoteTTL time.Duration) *RedisStore {
	return &RedisStore{Client: client, QuoteTTL: quoteTTL}
}

func quoteKey(token string) string {
	return "checkout:quote:" + token
}

// SaveQuote stores the quote under a fresh opaque token and returns it.
func (s *RedisStore) SaveQuote(ctx context.Context, quote *domain.CheckoutQuote) (string, error) {
	token := strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", "")
	quote.Token = token

	payload, err := json.Marshal(quote)
	if err != nil {
		return "", err
	}
	if err := s.Client.Set(ctx, quoteKey(token), payload, s.QuoteTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisStore) GetQuote(ctx context.Context, token string) (*domain.CheckoutQuote, error) {
	payload, err := s.Client.Get(ctx, quoteKey(token)).Bytes()
	if err == redis.Nil {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, err
	}

	var quote domain.CheckoutQuote
	if err := json.Unmarshal(payload, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// DeleteQuote consumes the quote. Called only after a successful order
// placement so a failed submission stays retryable.
func (s *RedisStore) DeleteQuote(ctx context.Context, token string) error {
	return s.Client.Del(ctx, quoteKey(token)).Err()
}

func (s *RedisStore) ReviewMarkerKey(orderID string) string {
	return "review:" + orderID
}

func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	res, err := s.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return res > 0, nil
}

func (s *RedisStore) SetMarker(ctx context.Context, key string) error {
	return s.Client.Set(ctx, key, "1", 24*time.Hour).Err()
}
