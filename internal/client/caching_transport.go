package client

import (
	"net/http"
	"net/url"
	"path"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// newCachingTransport returns a transport that honours Cache-Control on
// public catalog responses. With an empty cacheDir the cache lives in memory
// for the life of the process; otherwise it persists across runs.
func newCachingTransport(cacheDir string) *httpcache.Transport {
	var cache httpcache.Cache
	if cacheDir == "" {
		cache = httpcache.NewMemoryCache()
	} else {
		cache = diskcache.New(cacheDir)
	}

	transport := httpcache.NewTransport(cache)
	transport.Transport = http.DefaultTransport

	return transport
}

// evictResource drops the cached GET responses for u and its parent
// collection. httpcache keys non-GET requests by method, so a mutation
// never invalidates the GET entry on its own.
func evictResource(cache httpcache.Cache, u *url.URL) {
	if cache == nil || u == nil {
		return
	}

	target := *u
	target.RawQuery = ""
	target.Fragment = ""
	target.RawPath = ""
	cache.Delete(target.String())

	target.Path = path.Dir(target.Path)
	cache.Delete(target.String())
}

// FromCache reports whether resp was served by the HTTP cache.
func FromCache(resp *http.Response) bool {
	return resp != nil && resp.Header.Get(httpcache.XFromCache) == "1"
}
