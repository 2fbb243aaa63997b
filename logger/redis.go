package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSink ships log entries to a Redis list so statement logs can be
// collected off-host (e.g. a shared slow-query log). It satisfies the
// Debugger capability and can be passed directly as a logging sink.
type RedisSink struct {
	Client *redis.Client
	// Key is the list the entries are pushed to.
	Key string
	// MaxLen caps the list length; older entries are trimmed away.
	// Zero means unbounded.
	MaxLen  int64
	Timeout time.Duration
}

// NewRedisSink creates a RedisSink writing to the given list key.
func NewRedisSink(opt *redis.Options, key string) *RedisSink {
	return &RedisSink{
		Client:  redis.NewClient(opt),
		Key:     key,
		MaxLen:  10000,
		Timeout: 5 * time.Second,
	}
}

// Ping verifies the Redis connection is reachable.
func (s *RedisSink) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout())
	defer cancel()
	return s.Client.Ping(ctx).Err()
}

// Debug pushes one log entry onto the list, trimming it to MaxLen.
func (s *RedisSink) Debug(format string, args ...any) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout())
	defer cancel()

	msg := fmt.Sprintf(format, args...)
	pipe := s.Client.TxPipeline()
	pipe.RPush(ctx, s.Key, msg)
	if s.MaxLen > 0 {
		pipe.LTrim(ctx, s.Key, -s.MaxLen, -1)
	}
	// Debug has no error return; a failed push is dropped.
	_, _ = pipe.Exec(ctx)
}

// Close releases the Redis client.
func (s *RedisSink) Close() error {
	return s.Client.Close()
}

func (s *RedisSink) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return 5 * time.Second
}

var _ Debugger = (*RedisSink)(nil)
