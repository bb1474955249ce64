package inventory

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"durianflight/internal/booking"
	"durianflight/pkg/cache"
	"durianflight/pkg/logger"
)

// CachedClient wraps an inventory client and caches search responses.
// Bookings are never cached. Cache failures are logged, not surfaced: a
// broken cache degrades to pass-through.
type CachedClient struct {
	next   booking.Inventory
	cache  cache.Cache
	ttl    time.Duration
	logger logger.Client
}

func NewCachedClient(next booking.Inventory, cache cache.Cache, ttlMinutes int, logger logger.Client) *CachedClient {
	return &CachedClient{
		next:   next,
		cache:  cache,
		ttl:    time.Duration(ttlMinutes) * time.Minute,
		logger: logger,
	}
}

// generateCacheKey creates a deterministic key from search parameters
func (c *CachedClient) generateCacheKey(criteria booking.SearchCriteria) string {
	returnDate := ""
	if criteria.ReturnDate != nil {
		returnDate = criteria.ReturnDate.Format("2006-01-02")
	}
	key := fmt.Sprintf("offers:%s:%s:%s:%s:%d:%s",
		criteria.Origin,
		criteria.Destination,
		criteria.DepartureDate.Format("2006-01-02"),
		returnDate,
		criteria.Passengers,
		criteria.TripType,
	)

	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("offers:search:%x", hash[:16])
}

func (c *CachedClient) Search(ctx context.Context, criteria booking.SearchCriteria) ([]booking.Offer, error) {
	cacheKey := c.generateCacheKey(criteria)

	cached, err := c.cache.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		var offers []booking.Offer
		if unmarshalErr := json.Unmarshal([]byte(cached), &offers); unmarshalErr == nil {
			c.logger.Info("cache hit for search", logger.Field{Key: "cache_key", Value: cacheKey})
			return offers, nil
		} else {
			c.logger.Error("failed to unmarshal cached offers", logger.Field{Key: "err", Value: unmarshalErr.Error()})
		}
	}

	offers, err := c.next.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(offers)
	if err != nil {
		c.logger.Error("failed to marshal offers for caching", logger.Field{Key: "err", Value: err})
		return offers, nil // Return offers even if caching fails
	}

	if err := c.cache.Set(ctx, cacheKey, string(raw), c.ttl); err != nil {
		c.logger.Error("failed to cache search results", logger.Field{Key: "err", Value: err})
	}

	return offers, nil
}

func (c *CachedClient) Book(ctx context.Context, req booking.BookingRequest) (string, error) {
	return c.next.Book(ctx, req)
}

// InvalidateSearch drops the cached results for one set of criteria.
func (c *CachedClient) InvalidateSearch(ctx context.Context, criteria booking.SearchCriteria) error {
	cacheKey := c.generateCacheKey(criteria)
	c.logger.Info("invalidating cache", logger.Field{Key: "cache_key", Value: cacheKey})
	return c.cache.Del(ctx, cacheKey)
}
