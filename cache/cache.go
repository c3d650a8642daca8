package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/SamuelAdmand/JioSaavn-DL/saavn/types"
)

var (
	DefaultSearchResultsTTL = 5 * time.Minute
	DefaultCoverTTL         = 1 * time.Hour
)

type Cache struct {
	SearchResults SearchResultsCache
	Covers        CoversCache
}

func New() *Cache {
	searchResultsCache := ccache.New(
		ccache.Configure[[]types.Track]().
			MaxSize(500).
			GetsPerPromote(3).
			ItemsToPrune(1),
	)

	coversCache := ccache.New(
		ccache.Configure[[]byte]().
			MaxSize(100).
			GetsPerPromote(3).
			ItemsToPrune(1),
	)

	return &Cache{
		SearchResults: SearchResultsCache{
			c:   searchResultsCache,
			mux: sync.Mutex{},
		},
		Covers: CoversCache{
			c:   coversCache,
			mux: sync.Mutex{},
		},
	}
}

type SearchResultsCache struct {
	c   *ccache.Cache[[]types.Track]
	mux sync.Mutex
}

func (c *SearchResultsCache) Fetch(
	k string,
	ttl time.Duration,
	fetch func() ([]types.Track, error),
) (*ccache.Item[[]types.Track], error) {
	c.mux.Lock()
	defer c.mux.Unlock()

	v, err := c.c.Fetch(k, ttl, fetch)
	if nil != err {
		return nil, fmt.Errorf("fetch search results: %w", err)
	}

	return v, nil
}

type CoversCache struct {
	c   *ccache.Cache[[]byte]
	mux sync.Mutex
}

func (c *CoversCache) Fetch(
	k string,
	ttl time.Duration,
	fetch func() ([]byte, error),
) (*ccache.Item[[]byte], error) {
	c.mux.Lock()
	defer c.mux.Unlock()

	v, err := c.c.Fetch(k, ttl, fetch)
	if nil != err {
		return nil, fmt.Errorf("fetch cover: %w", err)
	}

	return v, nil
}
