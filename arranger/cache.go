package arranger

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/wippyai/nativecall/abi"
	"github.com/wippyai/nativecall/binding"
)

// Cache memoizes calling sequences per descriptor, direction and signature
// shape. Concurrent lookups of one key share a single computation. Failed
// arrangements are not cached.
//
// Member and struct names are not part of the shape, so signatures that
// differ only in names share one sequence, and the layouts reported by
// its Argument and ReturnLayout are those of the first request.
type Cache struct {
	group   singleflight.Group
	entries sync.Map // cacheKey -> *binding.CallingSequence
	hits    atomic.Uint64
	misses  atomic.Uint64
}

type cacheKey struct {
	desc *abi.Descriptor
	sig  string
	dir  binding.Direction
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%p/%s/%s", k.desc, k.dir, k.sig)
}

func NewCache() *Cache {
	return &Cache{}
}

// Arrange returns the cached downcall sequence for sig, computing it once.
func (c *Cache) Arrange(desc *abi.Descriptor, sig Signature) (*binding.CallingSequence, error) {
	return c.get(desc, sig, binding.Downcall, Arrange)
}

// ArrangeUpcall returns the cached upcall sequence for sig.
func (c *Cache) ArrangeUpcall(desc *abi.Descriptor, sig Signature) (*binding.CallingSequence, error) {
	return c.get(desc, sig, binding.Upcall, ArrangeUpcall)
}

func (c *Cache) get(desc *abi.Descriptor, sig Signature, dir binding.Direction,
	compute func(*abi.Descriptor, Signature) (*binding.CallingSequence, error)) (*binding.CallingSequence, error) {
	key := cacheKey{desc: desc, dir: dir, sig: sig.Key()}
	if cached, ok := c.entries.Load(key); ok {
		c.hits.Add(1)
		Logger().Debug("arrangement cache hit", zap.String("signature", key.sig), zap.Stringer("direction", dir))
		return cached.(*binding.CallingSequence), nil
	}

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		// A caller that lost the race with a finished computation finds
		// its result here.
		if cached, ok := c.entries.Load(key); ok {
			c.hits.Add(1)
			return cached, nil
		}
		c.misses.Add(1)
		Logger().Debug("arrangement cache miss", zap.String("signature", key.sig), zap.Stringer("direction", dir))
		seq, err := compute(desc, sig)
		if err != nil {
			return nil, err
		}
		actual, _ := c.entries.LoadOrStore(key, seq)
		return actual, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*binding.CallingSequence), nil
}

// Len returns the number of cached sequences.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Reset drops all cached sequences and zeroes the counters.
func (c *Cache) Reset() {
	c.entries.Range(func(k, _ any) bool {
		c.entries.Delete(k)
		return true
	})
	c.hits.Store(0)
	c.misses.Store(0)
}
