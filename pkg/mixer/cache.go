// ABOUTME: Sample cache for decoded sound lumps
// ABOUTME: Decodes tagged containers once per id and serves raw lumps in place
package mixer

import (
	"fmt"
	"log"
	"sync"

	"github.com/Resonate-Protocol/sfxmix/pkg/audio"
	"github.com/Resonate-Protocol/sfxmix/pkg/audio/decode"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/singleflight"
)

// Cache holds decoded container samples for the life of the process.
// Entries are only dropped by Purge.
type Cache struct {
	mu      sync.RWMutex
	samples map[string]*audio.Sample
	bytes   int64

	group singleflight.Group
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		samples: make(map[string]*audio.Sample),
	}
}

// Resolve returns the sample for id, decoding raw on first use. Headerless
// lumps are not cached; the returned sample aliases raw.
func (c *Cache) Resolve(id string, raw []byte) (*audio.Sample, error) {
	if len(raw) <= decode.MinLength {
		return nil, fmt.Errorf("%s: %w (%d bytes)", id, decode.ErrTooShort, len(raw))
	}

	if s, ok := c.Lookup(id); ok {
		return s, nil
	}

	if !decode.IsContainer(raw) {
		return decode.NewRaw().Decode(id, raw)
	}

	v, err, _ := c.group.Do(id, func() (interface{}, error) {
		if s, ok := c.Lookup(id); ok {
			return s, nil
		}

		s, err := decode.Decode(id, raw)
		if err != nil {
			log.Printf("Warning: cannot decode sound %s: %v", id, err)
			return nil, err
		}

		c.mu.Lock()
		c.samples[id] = s
		c.bytes += int64(len(s.Data))
		total := c.bytes
		c.mu.Unlock()

		log.Printf("Cached sound %s: %s %dHz %d-bit, cache now %s",
			id, humanize.Bytes(uint64(len(s.Data))), s.SampleRate, s.BitDepth, humanize.Bytes(uint64(total)))
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*audio.Sample), nil
}

// Lookup returns a cached sample without decoding
func (c *Cache) Lookup(id string) (*audio.Sample, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.samples[id]
	return s, ok
}

// Len returns the number of cached samples
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.samples)
}

// Bytes returns the decoded size of every cached sample
func (c *Cache) Bytes() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bytes
}

// Purge drops every entry. Channels keep playing the samples they hold.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = make(map[string]*audio.Sample)
	c.bytes = 0
}
