// CLAUDE:SUMMARY Embedder decorator that serves hits from the cache and embeds only misses.
package embcache

import (
	"context"

	"github.com/feldrik/tabd/tabembed"
)

// CachedEmbedder wraps an Embedder with read-through caching. Batch calls
// hit the backend only for texts the cache has not seen.
type CachedEmbedder struct {
	inner tabembed.Embedder
	cache *Cache
}

// Wrap decorates emb with cache. A nil cache returns emb unchanged.
func Wrap(emb tabembed.Embedder, cache *Cache) tabembed.Embedder {
	if cache == nil {
		return emb
	}
	return &CachedEmbedder{inner: emb, cache: cache}
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok, err := c.cache.Get(ctx, c.inner.Model(), text); err == nil && ok {
		return vec, nil
	}
	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	// A failed write is a lost cache entry, not a failed embedding.
	_ = c.cache.Put(ctx, c.inner.Model(), text, vec)
	return vec, nil
}

func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	model := c.inner.Model()
	result := make([][]float32, len(texts))

	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		if vec, ok, err := c.cache.Get(ctx, model, text); err == nil && ok {
			result[i] = vec
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}
	if len(missTexts) == 0 {
		return result, nil
	}

	vecs, err := c.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for i, idx := range missIdx {
		result[idx] = vecs[i]
	}
	_ = c.cache.PutBatch(ctx, model, missTexts, vecs)
	return result, nil
}

func (c *CachedEmbedder) Dimension() int { return c.inner.Dimension() }
func (c *CachedEmbedder) Model() string  { return c.inner.Model() }
