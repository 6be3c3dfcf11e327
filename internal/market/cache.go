package market

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

// CachedCompSource caches comp sets in redis so repeated runs for the
// same market segment skip the search round trip. Cache failures fall
// through to the underlying source.
type CachedCompSource struct {
	source CompSource
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedCompSource(source CompSource, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedCompSource {
	return &CachedCompSource{
		source: source,
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "comp-cache"}),
	}
}

func compCacheKey(property models.CompProperty) string {
	location := strings.ToLower(strings.TrimSpace(property.Location))
	return fmt.Sprintf("market:comps:%s:%s", location, property.PropertyType)
}

func (c *CachedCompSource) FindComps(ctx context.Context, property models.CompProperty) ([]models.CompProperty, error) {
	key := compCacheKey(property)

	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var comps []models.CompProperty
		if jsonErr := json.Unmarshal(cached, &comps); jsonErr == nil {
			return comps, nil
		}
		// unreadable entry, refresh it below
	} else if err != redis.Nil {
		c.logger.Warn("comp cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	comps, err := c.source.FindComps(ctx, property)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(comps)
	if err == nil {
		if setErr := c.client.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.logger.Warn("comp cache write failed", map[string]interface{}{
				"key":   key,
				"error": setErr.Error(),
			})
		}
	}
	return comps, nil
}
