package trial

import (
	"sort"
	"sync"
)

// Cache memoizes trials by index.
type Cache struct {
	mu     sync.Mutex
	trials map[int]Trial
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{trials: map[int]Trial{}}
}

// GetOrCreate returns the cached trial for index, calling build only on the
// first request. Failed builds are not cached.
func (c *Cache) GetOrCreate(index int, build func() (Trial, error)) (Trial, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.trials == nil {
		c.trials = map[int]Trial{}
	}
	if existing, ok := c.trials[index]; ok {
		return existing, false, nil
	}
	created, err := build()
	if err != nil {
		return Trial{}, false, err
	}
	created.Index = index
	c.trials[index] = created
	return created, true, nil
}

// Put stores a trial restored from persistence. An existing entry wins.
func (c *Cache) Put(t Trial) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.trials == nil {
		c.trials = map[int]Trial{}
	}
	if _, ok := c.trials[t.Index]; ok {
		return
	}
	c.trials[t.Index] = t
}

// Get returns the cached trial for index.
func (c *Cache) Get(index int) (Trial, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.trials[index]
	return t, ok
}

// All returns cached trials ordered by index.
func (c *Cache) All() []Trial {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Trial, 0, len(c.trials))
	for _, t := range c.trials {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
