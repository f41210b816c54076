package client

import (
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/rs/zerolog/log"
)

// TenantResolver returns the tenant the current session is scoped to.
type TenantResolver func() string

// tenantCachingTransport keeps one HTTP cache per tenant so responses cached
// for one tenant are never served under another tenant's session.
type tenantCachingTransport struct {
	base     http.RoundTripper
	cacheDir string
	tenant   TenantResolver

	mu         sync.Mutex
	transports map[string]*httpcache.Transport
}

// newTenantCachingTransport creates a caching transport. With an empty
// cacheDir the caches are held in memory; otherwise each tenant gets a disk
// cache under cacheDir so entries survive restarts.
func newTenantCachingTransport(base http.RoundTripper, cacheDir string, tenant TenantResolver) *tenantCachingTransport {
	return &tenantCachingTransport{
		base:       base,
		cacheDir:   cacheDir,
		tenant:     tenant,
		transports: make(map[string]*httpcache.Transport),
	}
}

func (t *tenantCachingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tenantID := t.tenant()
	if tenantID == "" {
		return t.base.RoundTrip(req)
	}

	resp, err := t.forTenant(tenantID).RoundTrip(req)
	if err == nil && isWrite(req.Method) && resp.StatusCode < http.StatusBadRequest {
		t.purge(tenantID)
	}
	return resp, err
}

// purge drops every cached response of the tenant. A write can change any
// list the tenant has cached, not only the URL it was sent to.
func (t *tenantCachingTransport) purge(tenantID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.transports, tenantID)

	if t.cacheDir == "" {
		return
	}
	if err := os.RemoveAll(t.tenantDir(tenantID)); err != nil {
		log.Warn().Err(err).Str("tenant", tenantID).Msg("failed to purge response cache")
	}
}

func (t *tenantCachingTransport) tenantDir(tenantID string) string {
	return filepath.Join(t.cacheDir, filepath.Base(tenantID))
}

func isWrite(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

func (t *tenantCachingTransport) forTenant(tenantID string) *httpcache.Transport {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tr, ok := t.transports[tenantID]; ok {
		return tr
	}

	var cache httpcache.Cache
	if t.cacheDir == "" {
		cache = httpcache.NewMemoryCache()
	} else {
		cache = diskcache.New(t.tenantDir(tenantID))
	}

	tr := httpcache.NewTransport(cache)
	tr.Transport = t.base
	t.transports[tenantID] = tr
	return tr
}
