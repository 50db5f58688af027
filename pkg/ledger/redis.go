package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix prefixes every campaign set key.
const DefaultKeyPrefix = "mailmerge:delivered:"

// Redis is a Ledger backed by one Redis set per campaign.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedis wraps an existing client. A zero ttl keeps records forever.
func NewRedis(client redis.UniversalClient, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) key(campaign string) string {
	return r.prefix + campaign
}

func (r *Redis) Delivered(ctx context.Context, campaign, address string) (bool, error) {
	if campaign == "" {
		return false, ErrEmptyCampaign
	}
	ok, err := r.client.SIsMember(ctx, r.key(campaign), normalize(address)).Result()
	if err != nil {
		return false, fmt.Errorf("ledger: sismember: %w", err)
	}
	return ok, nil
}

func (r *Redis) MarkDelivered(ctx context.Context, campaign, address string) error {
	if campaign == "" {
		return ErrEmptyCampaign
	}
	key := r.key(campaign)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, key, normalize(address))
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ledger: sadd: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrConnectionFailed, err)
	}
	return nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
