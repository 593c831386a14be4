package service

import (
	"testing"

	"github.com/fuelnet/loyalty/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardInfoCache(t *testing.T) {
	cache, err := NewCardInfoCache(2)
	require.NoError(t, err)

	cache.Add(1, &models.CardInfo{LevelName: "Basic"}, cache.Generation())
	cache.Add(2, &models.CardInfo{LevelName: "Silver"}, cache.Generation())

	info, ok := cache.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Basic", info.LevelName)

	cache.Add(3, &models.CardInfo{LevelName: "Gold"}, cache.Generation())
	_, ok = cache.Get(2)
	assert.False(t, ok, "least recently used entry should be evicted")

	cache.Invalidate(1)
	_, ok = cache.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())
}

func TestCardInfoCache_StaleGenerationDropped(t *testing.T) {
	cache, err := NewCardInfoCache(4)
	require.NoError(t, err)

	generation := cache.Generation()
	cache.Invalidate(1)

	assert.False(t, cache.Add(1, &models.CardInfo{LevelName: "Basic"}, generation))
	_, ok := cache.Get(1)
	assert.False(t, ok)

	assert.True(t, cache.Add(1, &models.CardInfo{LevelName: "Silver"}, cache.Generation()))
	info, ok := cache.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Silver", info.LevelName)
}

func TestCardInfoCache_Disabled(t *testing.T) {
	cache, err := NewCardInfoCache(0)
	require.NoError(t, err)
	assert.Nil(t, cache)

	assert.False(t, cache.Add(1, &models.CardInfo{}, cache.Generation()))
	_, ok := cache.Get(1)
	assert.False(t, ok)
	cache.Invalidate(1)
	assert.Equal(t, 0, cache.Len())
}
