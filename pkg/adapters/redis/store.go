package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/toyrobot/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "toyrobot:position:"

// Store implements ports.PositionStore using Redis.
// Ids come from INCR on a sequence key; records live in a sorted set scored by id.
type Store struct {
	client *backend.Client
	prefix string
}

type Option func(*Store)

// WithPrefix sets the key prefix for the log.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying connection so a Locker can share it.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) seqKey() string {
	return s.prefix + "seq"
}

func (s *Store) logKey() string {
	return s.prefix + "log"
}

// Ping checks connectivity, used at start-up.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	return nil
}

// Append assigns the next id and adds the record to the log.
func (s *Store) Append(ctx context.Context, pos domain.Position) (domain.Record, error) {
	id, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to allocate id: %w", err)
	}

	rec := domain.NewRecord(id, pos)
	data, err := json.Marshal(rec)
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to marshal record: %w", err)
	}

	err = s.client.ZAdd(ctx, s.logKey(), backend.Z{
		Score:  float64(id),
		Member: data,
	}).Err()
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to save to redis: %w", err)
	}

	return rec, nil
}

// Latest returns the member with the highest score.
func (s *Store) Latest(ctx context.Context) (domain.Record, error) {
	records, err := s.Recent(ctx, 1)
	if err != nil {
		return domain.Record{}, err
	}
	if len(records) == 0 {
		return domain.Record{}, domain.ErrNotPlaced
	}
	return records[0], nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.Record, error) {
	if limit <= 0 {
		return []domain.Record{}, nil
	}

	vals, err := s.client.ZRevRange(ctx, s.logKey(), 0, int64(limit-1)).Result()
	if err != nil && !errors.Is(err, backend.Nil) {
		return nil, fmt.Errorf("failed to read from redis: %w", err)
	}

	records := make([]domain.Record, 0, len(vals))
	for _, val := range vals {
		var rec domain.Record
		if err := json.Unmarshal([]byte(val), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
