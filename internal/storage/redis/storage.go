package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Tournament operations

func (s *Storage) SaveTournament(ctx context.Context, t *model.TournamentState) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tournamentKey(t.ID), data, s.cfg.TournamentTTL)
	pipe.SAdd(ctx, tournamentsIndexKey(), tournamentKey(t.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetTournament(ctx context.Context, id string) (*model.TournamentState, error) {
	data, err := s.client.Get(ctx, tournamentKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrTournamentNotFound
		}
		return nil, err
	}

	var t model.TournamentState
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode tournament %s: %w", id, err)
	}
	return &t, nil
}

func (s *Storage) DeleteTournament(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, tournamentKey(id))
	pipe.SRem(ctx, tournamentsIndexKey(), tournamentKey(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) TournamentExists(ctx context.Context, id string) (bool, error) {
	exists, err := s.client.Exists(ctx, tournamentKey(id)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) ListTournaments(ctx context.Context) ([]*model.TournamentState, error) {
	values, err := s.loadIndexed(ctx, tournamentsIndexKey())
	if err != nil {
		return nil, err
	}

	tournaments := make([]*model.TournamentState, 0, len(values))
	for _, raw := range values {
		var t model.TournamentState
		if err := json.Unmarshal(raw, &t); err != nil {
			continue // Skip invalid data
		}
		tournaments = append(tournaments, &t)
	}
	sort.Slice(tournaments, func(i, j int) bool { return tournaments[i].ID < tournaments[j].ID })
	return tournaments, nil
}

// Backup operations

func (s *Storage) SaveBackup(ctx context.Context, b *model.BackupTournament) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, backupKey(b.ID), data, s.cfg.BackupTTL)
	pipe.SAdd(ctx, backupsIndexKey(), backupKey(b.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetBackup(ctx context.Context, id string) (*model.BackupTournament, error) {
	data, err := s.client.Get(ctx, backupKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrBackupNotFound
		}
		return nil, err
	}

	var b model.BackupTournament
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode backup %s: %w", id, err)
	}
	return &b, nil
}

func (s *Storage) DeleteBackup(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, backupKey(id))
	pipe.SRem(ctx, backupsIndexKey(), backupKey(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListBackups(ctx context.Context) ([]*model.BackupTournament, error) {
	values, err := s.loadIndexed(ctx, backupsIndexKey())
	if err != nil {
		return nil, err
	}

	backups := make([]*model.BackupTournament, 0, len(values))
	for _, raw := range values {
		var b model.BackupTournament
		if err := json.Unmarshal(raw, &b); err != nil {
			continue // Skip invalid data
		}
		backups = append(backups, &b)
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].ID < backups[j].ID })
	return backups, nil
}

// loadIndexed fetches every document referenced by an index set.
// Keys that have expired are pruned from the index.
func (s *Storage) loadIndexed(ctx context.Context, indexKey string) ([][]byte, error) {
	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	// Fetch all documents in one round trip using MGET
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	var stale []any
	out := make([][]byte, 0, len(values))
	for i, val := range values {
		str, ok := val.(string)
		if !ok {
			stale = append(stale, keys[i])
			continue
		}
		out = append(out, []byte(str))
	}

	if len(stale) > 0 {
		_ = s.client.SRem(ctx, indexKey, stale...).Err()
	}
	return out, nil
}
