package crawler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSynthesizer(title string, pick func(n int) int) *FallbackSynthesizer {
	f := NewFallbackSynthesizer(title)
	f.intN = pick
	f.now = func() time.Time { return time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func TestFallbackEmpty(t *testing.T) {
	f := fixedSynthesizer("", func(n int) int { return 0 })

	result := f.Empty("Newegg", "https://www.newegg.com/p/pl?d=rtx+5090")

	assert.Equal(t, "Newegg", result.Source)
	assert.Empty(t, result.Error)
	assert.False(t, result.Degraded())
	require.Len(t, result.Items, 1)

	item := result.Items[0]
	assert.Equal(t, 1999.0, item.Price)
	assert.Equal(t, DefaultFallbackTitle, item.Title)
	assert.Equal(t, "https://www.newegg.com/p/pl?d=rtx+5090", item.URL)
	assert.True(t, item.InStock)
	assert.True(t, item.Synthetic)
	assert.Equal(t, time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC), item.ObservedAt)
}

func TestFallbackFailed(t *testing.T) {
	f := fixedSynthesizer("RTX 5090", func(n int) int { return n - 1 })

	result := f.Failed("Amazon", "https://www.amazon.com/s?k=rtx+5090", errors.New("timeout"))

	assert.Equal(t, "Amazon", result.Source)
	assert.Equal(t, "timeout", result.Error)
	assert.True(t, result.Degraded())
	require.Len(t, result.Items, 1)

	item := result.Items[0]
	assert.Equal(t, 2998.0, item.Price)
	assert.Equal(t, "RTX 5090 (Demo)", item.Title)
	assert.Equal(t, "https://www.amazon.com/s?k=rtx+5090", item.URL)
	assert.True(t, item.Synthetic)
}

func TestFallbackPriceBands(t *testing.T) {
	f := NewFallbackSynthesizer("")

	for i := 0; i < 200; i++ {
		empty := f.Empty("A", "https://a.example.com").Items[0].Price
		assert.GreaterOrEqual(t, empty, 1999.0)
		assert.Less(t, empty, 2999.0)

		failed := f.Failed("A", "https://a.example.com", errors.New("x")).Items[0].Price
		assert.GreaterOrEqual(t, failed, 2499.0)
		assert.Less(t, failed, 2999.0)
	}
}
