package middleware

import (
    "context"
    "fmt"
    "log/slog"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/match-ticket-reservation/internal/config"
)

const msgTooManyRequests = "Trop de requêtes, réessayez plus tard"

// bucketScript refills the bucket by whole intervals, then takes one token.
// KEYS[1] bucket; ARGV now_ms, capacity, refill, interval_ms, ttl_s.
// Returns {allowed, remaining, wait_ms}.
var bucketScript = redis.NewScript(`
local now, cap, refill, every, ttl = tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3]), tonumber(ARGV[4]), tonumber(ARGV[5])
local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens'))
local stamp = tonumber(redis.call('HGET', KEYS[1], 'stamp'))
if not tokens or not stamp then
  tokens, stamp = cap, now
end
local steps = math.floor(math.max(0, now - stamp) / every)
if steps > 0 then
  tokens = math.min(cap, tokens + steps * refill)
  stamp = stamp + steps * every
end
local ok, wait = 0, 0
if tokens >= 1 then
  ok, tokens = 1, tokens - 1
else
  wait = math.max(0, every - (now - stamp))
end
redis.call('HSET', KEYS[1], 'tokens', tokens, 'stamp', stamp)
redis.call('EXPIRE', KEYS[1], ttl)
return {ok, tokens, wait}
`)

type bucketState struct {
    allowed   bool
    remaining int64
    wait      time.Duration
}

func take(ctx context.Context, rdb *redis.Client, cfg config.RateLimitConfig, key string, now time.Time) (bucketState, error) {
    every := cfg.RefillInterval
    if every <= 0 {
        every = time.Second
    }
    vals, err := bucketScript.Run(ctx, rdb, []string{key},
        now.UnixMilli(), cfg.Capacity, max(cfg.RefillTokens, 1), every.Milliseconds(), int64(cfg.TTL/time.Second)+1,
    ).Int64Slice()
    if err != nil {
        return bucketState{}, err
    }
    if len(vals) != 3 {
        return bucketState{}, fmt.Errorf("unexpected script result %v", vals)
    }
    return bucketState{
        allowed:   vals[0] == 1,
        remaining: vals[1],
        wait:      time.Duration(vals[2]) * time.Millisecond,
    }, nil
}

// NewTokenBucket limits requests per key with a token bucket kept in Redis.
// Redis errors fail open.  Without a client the middleware is a no-op.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log *slog.Logger) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    limit := strconv.Itoa(cfg.Capacity)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := buildRateKey(cfg, c)
            st, err := take(c.Request().Context(), rdb, cfg, key, time.Now())
            if err != nil {
                log.Warn("ratelimit: allowing request", slog.String("key", key), slog.Any("error", err))
                return next(c)
            }

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", limit)
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(st.remaining, 10))
            if cfg.Debug {
                h.Set("X-RateLimit-Key", key)
            }
            if st.allowed {
                return next(c)
            }

            secs := int((st.wait + time.Second - 1) / time.Second)
            h.Set("Retry-After", strconv.Itoa(secs))
            if cfg.Debug {
                log.Debug("ratelimit: blocked", slog.String("key", key), slog.Duration("wait", st.wait))
            }
            return c.JSON(http.StatusTooManyRequests, echo.Map{
                "message":     msgTooManyRequests,
                "retry_after": secs,
            })
        }
    }
}

// buildRateKey joins the components named by cfg.KeyStrategy, an
// underscore separated list of ip, user and route.  Unknown or empty
// strategies use all three.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
    parts := []string{cfg.Prefix}
    for _, comp := range strings.Split(strings.ToLower(cfg.KeyStrategy), "_") {
        switch comp {
        case "ip":
            ip := c.RealIP()
            if ip == "" {
                ip = "unknown"
            }
            parts = append(parts, "ip", ip)
        case "user":
            parts = append(parts, "user", userID(c))
        case "route":
            parts = append(parts, "route", c.Request().Method+" "+c.Path())
        default:
            cfg.KeyStrategy = "ip_user_route"
            return buildRateKey(cfg, c)
        }
    }
    return strings.Join(parts, ":")
}
