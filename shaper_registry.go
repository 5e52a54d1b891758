package otshaper

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrShaperAlreadyRegistered = errors.New("shaping engine already registered")

type shaperRegistration struct {
	prototype ShapingEngine
	order     int
}

type shaperRegistry struct {
	mu        sync.RWMutex
	entries   []shaperRegistration
	nextOrder int
}

func newShaperRegistry() *shaperRegistry {
	return &shaperRegistry{}
}

func (r *shaperRegistry) registerShaper(shaper ShapingEngine) error {
	if shaper == nil {
		return fmt.Errorf("cannot register nil shaping engine")
	}

	name := strings.TrimSpace(shaper.Name())
	if name == "" {
		return fmt.Errorf("cannot register shaping engine with empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.entries {
		if entry.prototype.Name() == name {
			return fmt.Errorf("%w: %q", ErrShaperAlreadyRegistered, name)
		}
	}

	r.entries = append(r.entries, shaperRegistration{
		prototype: shaper,
		order:     r.nextOrder,
	})
	r.nextOrder++
	return nil
}

// resolve picks the highest-scoring registered engine for the context.
// Ties break on name, then registration order, making selection
// deterministic regardless of registration concurrency.
func (r *shaperRegistry) resolve(ctx SelectionContext) ShapingEngine {
	r.mu.RLock()
	var (
		best      ShapingEngine
		bestScore = -1
		bestName  string
		bestOrder = -1
	)
	for _, entry := range r.entries {
		score := entry.prototype.Match(ctx)
		if score < 0 {
			continue
		}

		name := entry.prototype.Name()
		if best == nil ||
			score > bestScore ||
			(score == bestScore && (name < bestName || (name == bestName && entry.order < bestOrder))) {
			best = entry.prototype
			bestScore = score
			bestName = name
			bestOrder = entry.order
		}
	}
	r.mu.RUnlock()

	if best == nil {
		return defaultEngine{}.New()
	}

	instance := best.New()
	if instance == nil {
		return defaultEngine{}.New()
	}
	return instance
}

var defaultShaperRegistry = newShaperRegistry()

func init() {
	if err := defaultShaperRegistry.registerShaper(defaultEngine{}); err != nil {
		panic(err)
	}
}

func resolveShaperForContext(ctx SelectionContext) ShapingEngine {
	return defaultShaperRegistry.resolve(ctx)
}

// RegisterShaper adds a script-specific shaping engine to the global
// registry. Script engine packages call this from their Register
// function.
func RegisterShaper(shaper ShapingEngine) error {
	return defaultShaperRegistry.registerShaper(shaper)
}
