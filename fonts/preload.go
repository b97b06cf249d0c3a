package fonts

import (
	"context"
	"sync"
)

// Inter is the font set the preview cards are drawn with.
var Inter = []Key{
	{Family: "Inter", Weight: 400},
	{Family: "Inter", Weight: 600},
	{Family: "Inter", Weight: 800},
}

// Failure records one font that could not be preloaded.
type Failure struct {
	Key Key
	Err error
}

// PreloadResult lists what Preload managed to load.
type PreloadResult struct {
	Loaded []Key
	Failed []Failure
}

// OK reports whether every font loaded.
func (r PreloadResult) OK() bool {
	return len(r.Failed) == 0
}

// Preload loads keys concurrently. It never fails as a whole: fonts that
// could not be fetched are reported in the result and will be retried on
// demand by the next Load.
func (c *Cache) Preload(ctx context.Context, keys []Key) PreloadResult {
	type outcome struct {
		key Key
		err error
	}
	results := make([]outcome, len(keys))

	var wg sync.WaitGroup
	for i, k := range keys {
		wg.Add(1)
		go func(i int, k Key) {
			defer wg.Done()
			_, err := c.Load(ctx, k.Family, k.Weight)
			results[i] = outcome{key: k, err: err}
		}(i, k)
	}
	wg.Wait()

	var res PreloadResult
	for _, o := range results {
		if o.err != nil {
			res.Failed = append(res.Failed, Failure{Key: o.key, Err: o.err})
			continue
		}
		res.Loaded = append(res.Loaded, o.key)
	}
	return res
}
