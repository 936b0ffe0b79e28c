// ABOUTME: Parallel sound precaching
// ABOUTME: Decodes registered sounds ahead of play with bounded concurrency
package sfx

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/sfxmix/pkg/mixer"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/remeh/sizedwaitgroup"
)

// Precache decodes the given sounds, or every registered sound when none
// are named, and returns how many resolved
func (s *System) Precache(ids ...int) int {
	if s.provider == nil {
		return 0
	}

	var defs []*mixer.SoundDef
	s.mu.Lock()
	if len(ids) == 0 {
		for _, def := range s.sounds {
			defs = append(defs, def)
		}
	} else {
		for _, id := range ids {
			if def, ok := s.sounds[id]; ok {
				defs = append(defs, def)
			}
		}
	}
	s.mu.Unlock()

	start := time.Now()
	var loaded atomic.Int32

	wg := sizedwaitgroup.New(s.config.PrecacheWorkers)
	for _, def := range defs {
		wg.Add()
		go func(def *mixer.SoundDef) {
			defer wg.Done()
			if _, err := s.load(def); err != nil {
				log.Printf("Precache: %v", err)
				return
			}
			loaded.Add(1)
		}(def)
	}
	wg.Wait()

	cache := s.mixer.Cache()
	log.Printf("Precached %d/%d sounds in %s, cache holds %d (%s)",
		loaded.Load(), len(defs), durafmt.Parse(time.Since(start)).LimitFirstN(2),
		cache.Len(), humanize.Bytes(uint64(cache.Bytes())))

	return int(loaded.Load())
}
