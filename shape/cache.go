package shape

import (
	"container/list"
	"sync"

	"github.com/folio-layout/folio/layout"
)

// DefaultCacheCapacity is the entry count NewCache falls back to.
const DefaultCacheCapacity = 1024

type cacheKey struct {
	text     string
	family   string
	style    layout.FontStyle
	sizePt   float64
	maxWidth float64
	mode     WrapMode
	charPt   float64
	wordPt   float64
}

type cacheValue struct {
	lines   []Line
	metrics Metrics
}

type cacheEntry struct {
	key cacheKey
	val cacheValue
}

// Cache is a bounded LRU of wrap results. Text elements re-measure the same
// content on every Measure and Draw call; the cache turns those repeats into
// map lookups. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[cacheKey]*list.Element
}

// NewCache creates a cache holding at most capacity entries. A non-positive
// capacity selects DefaultCacheCapacity.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[cacheKey]*list.Element),
	}
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *Cache) get(k cacheKey) (cacheValue, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[k]
	if !ok {
		return cacheValue{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).val, true
}

func (c *Cache) put(k cacheKey, v cacheValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[k]; ok {
		el.Value.(*cacheEntry).val = v
		c.order.MoveToFront(el)
		return
	}
	c.items[k] = c.order.PushFront(&cacheEntry{key: k, val: v})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}
}

// Shaper resolves faces and wraps text through the cache. The zero value is
// not usable; construct with NewShaper.
type Shaper struct {
	source FaceSource
	cache  *Cache
}

// NewShaper wraps source. A nil cache gets a fresh default-capacity cache.
func NewShaper(source FaceSource, cache *Cache) *Shaper {
	if cache == nil {
		cache = NewCache(0)
	}
	return &Shaper{source: source, cache: cache}
}

// Face resolves a sized face directly, bypassing the cache.
func (s *Shaper) Face(family string, style layout.FontStyle, sizePt float64) (Face, error) {
	return s.source.Face(family, style, sizePt)
}

// Lines wraps content at maxWidth under mode, returning the lines and the
// vertical metrics of the face. Line widths include spacing. The returned
// slice is shared with the cache and must not be mutated.
func (s *Shaper) Lines(family string, style layout.FontStyle, sizePt float64, content string, maxWidth float64, mode WrapMode, spacing Spacing) ([]Line, Metrics, error) {
	key := cacheKey{
		text:     content,
		family:   family,
		style:    style,
		sizePt:   sizePt,
		maxWidth: maxWidth,
		mode:     mode,
		charPt:   spacing.CharPt,
		wordPt:   spacing.WordPt,
	}
	if v, ok := s.cache.get(key); ok {
		return v.lines, v.metrics, nil
	}
	face, err := s.source.Face(family, style, sizePt)
	if err != nil {
		return nil, Metrics{}, err
	}
	face = WithSpacing(face, spacing)
	v := cacheValue{lines: Wrap(face, content, maxWidth, mode), metrics: face.Metrics()}
	s.cache.put(key, v)
	return v.lines, v.metrics, nil
}
