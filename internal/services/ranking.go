package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/nkoncar/collecto-api/internal/models"
)

const DefaultRankingLimit = 5

// RankingStore is the read-only view the ranking queries need.
type RankingStore interface {
	List(ctx context.Context) ([]models.Collection, error)
}

type RecentItem struct {
	Item           models.Item `json:"item"`
	CollectionName string      `json:"collectionName"`
}

type TopCollection struct {
	models.Collection
	ItemCount int `json:"itemCount"`
}

// RankingService computes the two public summary queries with full scans
// over the collection set. Both scans are fronted by a short-lived cache;
// a TTL of zero disables caching entirely.
type RankingService struct {
	store RankingStore
	cache *gocache.Cache
	ttl   time.Duration
}

func NewRankingService(store RankingStore, ttl time.Duration) *RankingService {
	var cache *gocache.Cache
	if ttl > 0 {
		cache = gocache.New(ttl, 2*ttl)
	}
	return &RankingService{store: store, cache: cache, ttl: ttl}
}

// RecentItems returns up to limit items across all collections, newest
// first. Ties in creation time keep store iteration order, which is fixed
// for a given snapshot. An empty store yields an empty slice, not an error.
func (s *RankingService) RecentItems(ctx context.Context, limit int) ([]RecentItem, error) {
	if limit <= 0 {
		limit = DefaultRankingLimit
	}

	key := fmt.Sprintf("recent_items:%d", limit)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached.([]RecentItem), nil
		}
	}

	collections, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	recent := make([]RecentItem, 0)
	for _, collection := range collections {
		for _, item := range collection.Items {
			recent = append(recent, RecentItem{Item: item, CollectionName: collection.Name})
		}
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Item.CreatedAt.After(recent[j].Item.CreatedAt)
	})
	if len(recent) > limit {
		recent = recent[:limit]
	}

	if s.cache != nil {
		s.cache.Set(key, recent, s.ttl)
	}
	return recent, nil
}

// TopCollections returns up to limit collections ordered by item count,
// largest first. Ties keep store iteration order.
func (s *RankingService) TopCollections(ctx context.Context, limit int) ([]TopCollection, error) {
	if limit <= 0 {
		limit = DefaultRankingLimit
	}

	key := fmt.Sprintf("top_collections:%d", limit)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached.([]TopCollection), nil
		}
	}

	collections, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	top := make([]TopCollection, 0, len(collections))
	for _, collection := range collections {
		top = append(top, TopCollection{Collection: collection, ItemCount: len(collection.Items)})
	}

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].ItemCount > top[j].ItemCount
	})
	if len(top) > limit {
		top = top[:limit]
	}

	if s.cache != nil {
		s.cache.Set(key, top, s.ttl)
	}
	return top, nil
}
