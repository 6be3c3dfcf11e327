package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

type countingCompSource struct {
	comps []models.CompProperty
	err   error
	calls int
}

func (c *countingCompSource) FindComps(ctx context.Context, property models.CompProperty) ([]models.CompProperty, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.comps, nil
}

func newCachedSource(t *testing.T, source CompSource, ttl time.Duration) (*CachedCompSource, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCachedCompSource(source, client, ttl, logger.NewNoOpLogger()), mr
}

func TestCachedCompSourceServesSecondLookupFromCache(t *testing.T) {
	source := &countingCompSource{comps: []models.CompProperty{
		{ID: "c1", PropertyType: "apartment", Location: "Lisboa"},
	}}
	cached, _ := newCachedSource(t, source, time.Minute)
	property := models.CompProperty{ID: "p1", PropertyType: "apartment", Location: "Lisboa"}

	first, err := cached.FindComps(context.Background(), property)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := cached.FindComps(context.Background(), property)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls)
}

func TestCachedCompSourceKeyIsCaseInsensitiveOnLocation(t *testing.T) {
	source := &countingCompSource{comps: []models.CompProperty{{ID: "c1"}}}
	cached, _ := newCachedSource(t, source, time.Minute)

	_, err := cached.FindComps(context.Background(), models.CompProperty{Location: "Porto", PropertyType: "house"})
	require.NoError(t, err)
	_, err = cached.FindComps(context.Background(), models.CompProperty{Location: "  porto ", PropertyType: "house"})
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
}

func TestCachedCompSourceExpiry(t *testing.T) {
	source := &countingCompSource{comps: []models.CompProperty{{ID: "c1"}}}
	cached, mr := newCachedSource(t, source, 50*time.Millisecond)
	property := models.CompProperty{Location: "Lisboa", PropertyType: "apartment"}

	_, err := cached.FindComps(context.Background(), property)
	require.NoError(t, err)

	mr.FastForward(100 * time.Millisecond)

	_, err = cached.FindComps(context.Background(), property)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestCachedCompSourcePropagatesSourceError(t *testing.T) {
	source := &countingCompSource{err: errors.New("search unavailable")}
	cached, _ := newCachedSource(t, source, time.Minute)

	_, err := cached.FindComps(context.Background(), models.CompProperty{Location: "Lisboa"})

	require.Error(t, err)
}

func TestCachedCompSourceSurvivesRedisDown(t *testing.T) {
	source := &countingCompSource{comps: []models.CompProperty{{ID: "c1"}}}
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	cached := NewCachedCompSource(source, client, time.Minute, logger.NewNoOpLogger())
	mr.Close()

	comps, err := cached.FindComps(context.Background(), models.CompProperty{Location: "Lisboa"})

	require.NoError(t, err)
	assert.Len(t, comps, 1)
}
