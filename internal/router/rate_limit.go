package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/i18n"
	"github.com/tresmontes-cajas/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc derives the bucket key of a request.
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule allows MaxRequests per WindowSeconds. With BlockSeconds set, exceeding the
// limit locks the key for that long even after the window resets.
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int
	MessageKey    string
}

// RateLimitStore keeps the per-key counters. Hit counts a request in the current window
// and returns the count plus the time left in the window.
type RateLimitStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	BlockedFor(ctx context.Context, key string) (time.Duration, error)
	Block(ctx context.Context, key string, d time.Duration) error
}

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

type redisRateLimitStore struct {
	client *redis.Client
}

// NewRedisRateLimitStore shares counters across API instances. A nil client gives a nil store.
func NewRedisRateLimitStore(client *redis.Client) RateLimitStore {
	if client == nil {
		return nil
	}
	return &redisRateLimitStore{client: client}
}

func (s *redisRateLimitStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	result, err := rateLimitScript.Run(ctx, s.client, []string{key}, int(window.Seconds())).Result()
	if err != nil {
		return 0, 0, err
	}
	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return 0, 0, fmt.Errorf("rate limit script returned %T", result)
	}
	count, ok := toInt64(values[0])
	if !ok {
		return 0, 0, fmt.Errorf("rate limit count is %T", values[0])
	}
	ttl, _ := toInt64(values[1])
	return count, time.Duration(ttl) * time.Second, nil
}

func (s *redisRateLimitStore) BlockedFor(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.client.TTL(ctx, key+":block").Result()
	if err != nil || ttl < 0 {
		return 0, err
	}
	return ttl, nil
}

func (s *redisRateLimitStore) Block(ctx context.Context, key string, d time.Duration) error {
	return s.client.Set(ctx, key+":block", 1, d).Err()
}

// maxMemoryKeys expired entries are swept once the map grows past this.
const maxMemoryKeys = 10000

type memoryWindow struct {
	count   int64
	expires time.Time
}

// MemoryRateLimitStore keeps counters in process. Used when redis is disabled, which
// limits throttling to a single API instance.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	now     func() time.Time
	windows map[string]memoryWindow
	blocks  map[string]time.Time
}

// NewMemoryRateLimitStore creates an empty in-process store.
func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		now:     time.Now,
		windows: map[string]memoryWindow{},
		blocks:  map[string]time.Time{},
	}
}

func (s *MemoryRateLimitStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if len(s.windows) > maxMemoryKeys {
		s.sweep(now)
	}
	w, ok := s.windows[key]
	if !ok || !now.Before(w.expires) {
		w = memoryWindow{expires: now.Add(window)}
	}
	w.count++
	s.windows[key] = w
	return w.count, w.expires.Sub(now), nil
}

func (s *MemoryRateLimitStore) BlockedFor(ctx context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.blocks[key]
	if !ok {
		return 0, nil
	}
	left := until.Sub(s.now())
	if left <= 0 {
		delete(s.blocks, key)
		return 0, nil
	}
	return left, nil
}

func (s *MemoryRateLimitStore) Block(ctx context.Context, key string, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[key] = s.now().Add(d)
	return nil
}

func (s *MemoryRateLimitStore) sweep(now time.Time) {
	for key, w := range s.windows {
		if !now.Before(w.expires) {
			delete(s.windows, key)
		}
	}
	for key, until := range s.blocks {
		if !now.Before(until) {
			delete(s.blocks, key)
		}
	}
}

// RateLimitMiddleware counts requests per key and rejects them past the rule.
func RateLimitMiddleware(store RateLimitStore, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
			c.Next()
			return
		}

		key := ""
		if keyFunc != nil {
			key = strings.TrimSpace(keyFunc(c))
		}
		if key == "" {
			key = c.ClientIP()
		}
		if rule.Prefix != "" {
			key = fmt.Sprintf("%s:%s", rule.Prefix, key)
		}
		ctx := c.Request.Context()

		if rule.BlockSeconds > 0 {
			if left, err := store.BlockedFor(ctx, key); err == nil && left > 0 {
				rejectRateLimited(c, rule, ceilSeconds(left))
				return
			}
		}

		count, left, err := store.Hit(ctx, key, time.Duration(rule.WindowSeconds)*time.Second)
		if err != nil {
			logger.Warnw("rate_limit_store_failed", "prefix", rule.Prefix, "error", err)
			msg := i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable")
			response.Error(c, response.CodeInternal, msg)
			c.Abort()
			return
		}
		if count > int64(rule.MaxRequests) {
			waitSeconds := ceilSeconds(left)
			if rule.BlockSeconds > 0 {
				_ = store.Block(ctx, key, time.Duration(rule.BlockSeconds)*time.Second)
				waitSeconds = rule.BlockSeconds
			}
			rejectRateLimited(c, rule, waitSeconds)
			return
		}

		c.Next()
	}
}

func ceilSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}

func rejectRateLimited(c *gin.Context, rule RateLimitRule, waitSeconds int) {
	if waitSeconds < 1 {
		waitSeconds = rule.WindowSeconds
	}
	if waitSeconds < 1 {
		waitSeconds = 1
	}
	msgKey := strings.TrimSpace(rule.MessageKey)
	if msgKey == "" {
		msgKey = "error.rate_limited"
	}
	msg := i18n.Sprintf(i18n.ResolveLocale(c), msgKey, waitSeconds)
	response.Error(c, response.CodeTooManyRequests, msg)
	c.Abort()
}

// KeyByIP keys by client IP.
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField keys by a lowercased JSON body field plus client IP. The body is restored.
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(strings.TrimSpace(readJSONField(c, field)))
		if value == "" {
			return c.ClientIP()
		}
		return fmt.Sprintf("%s|%s", value, c.ClientIP())
	}
}

func readJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	if len(body) == 0 {
		return ""
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	value, ok := payload[field]
	if !ok {
		return ""
	}
	if text, ok := value.(string); ok {
		return strings.TrimSpace(text)
	}
	return ""
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int16:
		return int64(v), true
	case int8:
		return int64(v), true
	case uint64:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint8:
		return int64(v), true
	case float64:
		return int64(v), true
	case float32:
		return int64(v), true
	default:
		return 0, false
	}
}
