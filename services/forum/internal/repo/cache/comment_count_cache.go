package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds staleness if an invalidation is lost.
const DefaultTTL = 10 * time.Minute

// Entry is the result of a cache lookup. On a miss Version identifies the
// cache state the caller observed and must be handed back to Fill.
type Entry struct {
	Count   int64
	Hit     bool
	Version int64
}

type CommentCountCache interface {
	Get(ctx context.Context, postID int64) (Entry, error)
	// Fill stores count only if no invalidation happened since the Get
	// that returned version. It reports whether the value was stored.
	Fill(ctx context.Context, postID int64, count int64, version int64) (bool, error)
	Invalidate(ctx context.Context, postID int64) error
}

// fillScript sets KEYS[1] when KEYS[2] still holds ARGV[1]. The version key
// is stored again with a longer TTL so it never expires before the count.
var fillScript = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
  return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
redis.call('SET', KEYS[2], ARGV[1], 'PX', ARGV[4])
return 1
`)

type redisCommentCountCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCommentCountCache(client *redis.Client, ttl time.Duration) CommentCountCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisCommentCountCache{client: client, ttl: ttl}
}

func Key(postID int64) string {
	return fmt.Sprintf("post:comments:%d", postID)
}

func VersionKey(postID int64) string {
	return fmt.Sprintf("post:comments:%d:version", postID)
}

func (c *redisCommentCountCache) versionTTL() time.Duration {
	return 2 * c.ttl
}

func (c *redisCommentCountCache) Get(ctx context.Context, postID int64) (Entry, error) {
	values, err := c.client.MGet(ctx, Key(postID), VersionKey(postID)).Result()
	if err != nil {
		return Entry{}, err
	}

	version, err := parseCount(values[1])
	if err != nil {
		return Entry{}, fmt.Errorf("corrupt cache version: %w", err)
	}
	if values[0] == nil {
		return Entry{Version: version}, nil
	}

	count, err := parseCount(values[0])
	if err != nil {
		return Entry{}, fmt.Errorf("corrupt cached count: %w", err)
	}
	return Entry{Count: count, Hit: true}, nil
}

func (c *redisCommentCountCache) Fill(ctx context.Context, postID int64, count int64, version int64) (bool, error) {
	stored, err := fillScript.Run(ctx, c.client,
		[]string{Key(postID), VersionKey(postID)},
		strconv.FormatInt(version, 10),
		count,
		c.ttl.Milliseconds(),
		c.versionTTL().Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

// Invalidate bumps the version so an in-flight Fill is rejected, then drops
// the count.
func (c *redisCommentCountCache) Invalidate(ctx context.Context, postID int64) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, VersionKey(postID))
		pipe.Expire(ctx, VersionKey(postID), c.versionTTL())
		pipe.Del(ctx, Key(postID))
		return nil
	})
	return err
}

// parseCount decodes an MGET slot; a missing key reads as zero.
func parseCount(v interface{}) (int64, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, errors.New("unexpected value type")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, err)
	}
	return n, nil
}
