package middleware

import (
    "bytes"
    "context"
    "crypto/sha256"
    "encoding/hex"
    "encoding/json"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/match-ticket-reservation/internal/config"
)

const defaultCacheTTL = 5 * time.Minute

// storedResponse is what a cache entry holds in Redis.
type storedResponse struct {
    Status int         `json:"s"`
    Header http.Header `json:"h,omitempty"`
    Body   []byte      `json:"b,omitempty"`
}

// bodyRecorder tees the response to the client and keeps up to limit bytes.
// overflow is set once the body outgrows the limit; such responses are not
// cached.
type bodyRecorder struct {
    http.ResponseWriter
    status   int
    limit    int
    buf      bytes.Buffer
    overflow bool
}

func (r *bodyRecorder) WriteHeader(code int) {
    r.status = code
    r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
    if !r.overflow {
        if r.limit > 0 && r.buf.Len()+len(b) > r.limit {
            r.overflow = true
            r.buf.Reset()
        } else {
            r.buf.Write(b)
        }
    }
    return r.ResponseWriter.Write(b)
}

// cacheKeyFrom hashes the request components selected by cfg.KeyStrategy
// under cfg.Prefix, so PurgeCache can drop them all with one pattern.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
    r := c.Request()
    var parts []string
    strategy := strings.ToLower(cfg.KeyStrategy)
    if strings.HasPrefix(strategy, "method_") {
        parts = append(parts, "m="+r.Method)
    }
    parts = append(parts, "r="+c.Path())
    if strategy == "" || strings.HasSuffix(strategy, "_query") {
        parts = append(parts, "q="+r.URL.RawQuery)
    }
    sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
    return cfg.Prefix + ":" + hex.EncodeToString(sum[:16])
}

func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
    return json.Marshal(storedResponse{Status: status, Header: header, Body: body})
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
    var s storedResponse
    if err := json.Unmarshal(bs, &s); err != nil || s.Status == 0 {
        return 0, nil, nil, false
    }
    if s.Header == nil {
        s.Header = make(http.Header)
    }
    return s.Status, s.Header, s.Body, true
}

func replay(c echo.Context, bs []byte) bool {
    status, hdr, body, ok := decodePayload(bs)
    if !ok {
        return false
    }
    out := c.Response().Header()
    for k, vals := range hdr {
        if k == echo.HeaderContentLength {
            continue
        }
        out[k] = append([]string(nil), vals...)
    }
    out.Set("X-Cache", "HIT")
    c.Response().WriteHeader(status)
    _, _ = c.Response().Write(body)
    return true
}

// capTTL bounds ttl by the handler's Cache-Control.  It reports false when
// the response must not be stored (no-store, no-cache, or max-age below one
// second).
func capTTL(h http.Header, ttl time.Duration) (time.Duration, bool) {
    for _, directive := range strings.Split(h.Get(echo.HeaderCacheControl), ",") {
        directive = strings.ToLower(strings.TrimSpace(directive))
        switch {
        case directive == "no-store", directive == "no-cache":
            return 0, false
        case strings.HasPrefix(directive, "max-age="):
            secs, err := strconv.Atoi(strings.TrimPrefix(directive, "max-age="))
            if err != nil {
                continue
            }
            if secs <= 0 {
                return 0, false
            }
            ttl = min(ttl, time.Duration(secs)*time.Second)
        }
    }
    return ttl, true
}

// NewRedisCache serves repeated requests from Redis.  Only 200 responses are
// stored, headers included, so a hit reads the same as the miss that filled it.
// A handler bounds how long its response stays cached with Cache-Control
// max-age.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = defaultCacheTTL
    }
    methods := cfg.MethodSet()

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !methods[c.Request().Method] {
                return next(c)
            }
            ctx := c.Request().Context()
            key := cacheKeyFrom(cfg, c)

            if bs, err := rdb.Get(ctx, key).Bytes(); err == nil && replay(c, bs) {
                return nil
            }

            rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            c.Response().Writer = rec
            c.Response().Header().Set("X-Cache", "MISS")
            if err := next(c); err != nil {
                return err
            }
            if rec.status != http.StatusOK || rec.overflow {
                return nil
            }
            entryTTL, ok := capTTL(c.Response().Header(), ttl)
            if !ok {
                return nil
            }

            hdr := c.Response().Header().Clone()
            hdr.Del("X-Cache")
            hdr.Del(echo.HeaderCacheControl)
            payload, err := encodePayload(rec.status, hdr, rec.buf.Bytes())
            if err != nil {
                return nil
            }
            _ = rdb.Set(context.WithoutCancel(ctx), key, payload, entryTTL).Err()
            return nil
        }
    }
}

// PurgeCache drops every cached response under cfg.Prefix once a mutating
// request succeeds.  Attach it to routes that change what cached GETs return.
func PurgeCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if err := next(c); err != nil {
                return err
            }
            if status := c.Response().Status; status < 200 || status >= 300 {
                return nil
            }
            // detached: the client may already have gone
            _ = purgePrefix(context.WithoutCancel(c.Request().Context()), rdb, cfg.Prefix)
            return nil
        }
    }
}

func purgePrefix(ctx context.Context, rdb *redis.Client, prefix string) error {
    iter := rdb.Scan(ctx, 0, prefix+":*", 100).Iterator()
    var keys []string
    for iter.Next(ctx) {
        keys = append(keys, iter.Val())
    }
    if err := iter.Err(); err != nil {
        return err
    }
    if len(keys) == 0 {
        return nil
    }
    return rdb.Del(ctx, keys...).Err()
}
