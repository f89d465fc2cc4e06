package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/rentcar-reservation/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 {
		cw.buf.Write(b)
	} else if cw.size < cw.limit {
		remain := cw.limit - cw.size
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// tenantOf renders the caller's company id for cache keys.
func tenantOf(c echo.Context) string {
	if v, ok := c.Get("company_id").(uint64); ok {
		return strconv.FormatUint(v, 10)
	}
	return "anon"
}

// cacheKeyFrom builds a stable cache key honoring prefix/strategy.
// The company id sits in plain text between prefix and hash, so one
// tenant's cached responses are never served to another and a write
// can purge exactly its own tenant's entries with one pattern.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	method := r.Method
	route := c.Path()
	query := r.URL.RawQuery

	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = append(parts, "route", route)
	case "method_route":
		parts = append(parts, "method", method, "route", route)
	case "method_route_query":
		parts = append(parts, "method", method, "route", route, "q", query)
	default: // "route_query"
		parts = append(parts, "route", route, "q", query)
	}

	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:co:%s:%x", cfg.Prefix, tenantOf(c), sum[:])
}

// tenantPattern matches every cache key belonging to one company.
func tenantPattern(cfg config.CacheConfig, c echo.Context) string {
	return cfg.Prefix + ":co:" + tenantOf(c) + ":*"
}

// invalidateTenant deletes every cached response of one company.  It
// runs after a successful write so the next read observes the new
// state instead of a pre-write payload aging out.
func invalidateTenant(ctx context.Context, rdb *redis.Client, pattern string) {
	var cursor uint64
	for {
		keys, next, err := rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return
		}
		if len(keys) > 0 {
			_ = rdb.Del(ctx, keys...).Err()
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}

// mutating lists the methods whose success purges the tenant's cache.
var mutating = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 4+4+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	var hdr http.Header
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
			return 0, nil, nil, false
		}
	} else {
		hdr = make(http.Header)
	}
	return status, hdr, bs[8+hlen:], true
}

// NewRedisCache caches successful GET responses (headers + body) in
// Redis.  The calendar and reservation list queries join three tables
// per request, so repeated reads within the TTL skip the database
// entirely.  A successful POST/PUT/PATCH/DELETE purges every cached
// entry of the caller's company, so a read issued right after a write
// always reflects that write.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := strings.ToUpper(c.Request().Method)
			if !cfg.Methods[method] {
				err := next(c)
				if err == nil && mutating[method] && c.Response().Status < http.StatusBadRequest {
					invalidateTenant(c.Request().Context(), rdb, tenantPattern(cfg, c))
				}
				return err
			}

			ctx := c.Request().Context()
			key := cacheKeyFrom(cfg, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, "Content-Length") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK {
				hdr := make(http.Header, len(c.Response().Header()))
				for k, vals := range c.Response().Header() {
					vv := make([]string, len(vals))
					copy(vv, vals)
					hdr[k] = vv
				}
				body := cw.buf.Bytes()
				if maxBody > 0 && int64(len(body)) > maxBody {
					body = body[:maxBody]
				}
				if payload, err := encodePayload(cw.status, hdr, body); err == nil {
					_ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
				}
			}
			return nil
		}
	}
}
