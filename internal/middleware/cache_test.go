package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rentcar-reservation/internal/config"
)

func cacheCtx(path, query string, companyID uint64) echo.Context {
	e := echo.New()
	target := path
	if query != "" {
		target += "?" + query
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(path)
	if companyID != 0 {
		c.Set("company_id", companyID)
	}
	return c
}

func testCacheCfg() config.CacheConfig {
	return config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
}

func TestCacheKeyEmbedsTenant(t *testing.T) {
	cfg := testCacheCfg()
	key := cacheKeyFrom(cfg, cacheCtx("/v1/reservations", "", 42))
	if !strings.HasPrefix(key, "cache:co:42:") {
		t.Errorf("key %q does not carry the tenant segment", key)
	}

	other := cacheKeyFrom(cfg, cacheCtx("/v1/reservations", "", 7))
	if key == other {
		t.Error("same route must cache under different keys for different companies")
	}
}

func TestCacheKeyVariesByQuery(t *testing.T) {
	cfg := testCacheCfg()
	a := cacheKeyFrom(cfg, cacheCtx("/v1/calendar", "start=2024-01-01&days=7", 42))
	b := cacheKeyFrom(cfg, cacheCtx("/v1/calendar", "start=2024-02-01&days=7", 42))
	if a == b {
		t.Error("different queries must not share a cache key")
	}
}

// A write purges by tenant pattern; the pattern must cover every key
// the same company produced and none of another company's.
func TestTenantPatternCoversOwnKeysOnly(t *testing.T) {
	cfg := testCacheCfg()
	prefix := strings.TrimSuffix(tenantPattern(cfg, cacheCtx("/v1/reservations", "", 42)), "*")

	own := []string{
		cacheKeyFrom(cfg, cacheCtx("/v1/reservations", "", 42)),
		cacheKeyFrom(cfg, cacheCtx("/v1/calendar", "start=2024-01-01&days=30", 42)),
		cacheKeyFrom(cfg, cacheCtx("/v1/vehicles", "", 42)),
	}
	for _, key := range own {
		if !strings.HasPrefix(key, prefix) {
			t.Errorf("key %q escapes tenant pattern %q*", key, prefix)
		}
	}

	foreign := cacheKeyFrom(cfg, cacheCtx("/v1/reservations", "", 7))
	if strings.HasPrefix(foreign, prefix) {
		t.Errorf("company 7 key %q would be purged by company 42's writes", foreign)
	}
}

func TestTenantPatternAnonymous(t *testing.T) {
	cfg := testCacheCfg()
	if got := tenantPattern(cfg, cacheCtx("/healthz", "", 0)); got != "cache:co:anon:*" {
		t.Errorf("pattern = %q, want cache:co:anon:*", got)
	}
}
