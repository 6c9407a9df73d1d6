package store

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keeps each table in one hash: field = primary key, value = document.
type Redis struct {
	client redis.UniversalClient
}

var _ Backend = (*Redis)(nil)

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 5
	// store faults surface to the caller as-is
	opt.MaxRetries = -1
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func (r *Redis) Get(ctx context.Context, table, key string) ([]byte, bool, error) {
	doc, err := r.client.HGet(ctx, table, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (r *Redis) Put(ctx context.Context, table, key string, doc []byte) error {
	return r.client.HSet(ctx, table, key, doc).Err()
}

func (r *Redis) Scan(ctx context.Context, table string, filter Filter) ([][]byte, error) {
	rows, err := r.client.HGetAll(ctx, table).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([][]byte, 0, len(keys))
	for _, k := range keys {
		doc := []byte(rows[k])
		ok, err := matches(filter, doc)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

// Update is a read-merge-write; concurrent writers race with last-writer-wins.
func (r *Redis) Update(ctx context.Context, table, key string, attrs Attributes) error {
	doc, found, err := r.Get(ctx, table, key)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	merged, err := mergeAttributes(doc, attrs)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, table, key, merged).Err()
}

func (r *Redis) Delete(ctx context.Context, table, key string) error {
	return r.client.HDel(ctx, table, key).Err()
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
