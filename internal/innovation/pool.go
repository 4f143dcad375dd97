package innovation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ArtoLabs/GovGen/internal/entropy"
)

var (
	ErrUnknownInnovation = errors.New("unknown innovation")
	ErrAlreadyDiscovered = errors.New("innovation already discovered")
	ErrLockedInnovation  = errors.New("prerequisites not discovered")
	ErrNotEnoughPoints   = errors.New("not enough innovation points")
)

// Pool tracks the tribe's discovered innovations, accumulated points,
// and the targeted research queue.
type Pool struct {
	catalog    map[string]Innovation
	discovered map[string]bool
	points     int
	queue      []string
}

// NewPool creates a pool over a catalog with a starting point balance.
func NewPool(catalog map[string]Innovation, startingPoints int) *Pool {
	return &Pool{
		catalog:    catalog,
		discovered: make(map[string]bool),
		points:     startingPoints,
	}
}

// Points returns the current point balance.
func (p *Pool) Points() int { return p.points }

// AddPoints credits the pool.
func (p *Pool) AddPoints(n int) { p.points += n }

// Has reports whether a single innovation is discovered.
func (p *Pool) Has(name string) bool { return p.discovered[name] }

// HasAll reports whether every named innovation is discovered.
// This is the technology gate check used by the election orchestrator.
func (p *Pool) HasAll(names []string) bool {
	for _, n := range names {
		if !p.discovered[n] {
			return false
		}
	}
	return true
}

// Discovered returns the discovered innovation names, sorted.
func (p *Pool) Discovered() []string {
	out := make([]string, 0, len(p.discovered))
	for n := range p.discovered {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Grant marks an innovation discovered without spending points.
// Used for free starting innovations and when restoring saved state.
func (p *Pool) Grant(name string) error {
	if _, ok := p.catalog[name]; !ok {
		return fmt.Errorf("grant %q: %w", name, ErrUnknownInnovation)
	}
	p.discovered[name] = true
	return nil
}

// Discover spends points on a specific innovation.
func (p *Pool) Discover(name string) error {
	inv, ok := p.catalog[name]
	if !ok {
		return fmt.Errorf("discover %q: %w", name, ErrUnknownInnovation)
	}
	if p.discovered[name] {
		return fmt.Errorf("discover %q: %w", name, ErrAlreadyDiscovered)
	}
	if !inv.Discoverable(p.discovered) {
		return fmt.Errorf("discover %q: %w", name, ErrLockedInnovation)
	}
	if p.points < inv.Cost {
		return fmt.Errorf("discover %q (cost %d, have %d): %w", name, inv.Cost, p.points, ErrNotEnoughPoints)
	}
	p.points -= inv.Cost
	p.discovered[name] = true
	return nil
}

// Discoverable returns undiscovered innovations whose prerequisites are
// met, sorted by name.
func (p *Pool) Discoverable() []Innovation {
	var out []Innovation
	for name, inv := range p.catalog {
		if !p.discovered[name] && inv.Discoverable(p.discovered) {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DiscoverRandom discovers a uniformly chosen affordable innovation.
// Returns false when nothing discoverable is affordable.
func (p *Pool) DiscoverRandom(rng *entropy.Source) (string, bool) {
	var affordable []string
	for _, inv := range p.Discoverable() {
		if inv.Cost <= p.points {
			affordable = append(affordable, inv.Name)
		}
	}
	if len(affordable) == 0 {
		return "", false
	}
	name := rng.Pick(affordable)
	p.points -= p.catalog[name].Cost
	p.discovered[name] = true
	return name, true
}

// Enqueue adds an innovation to the research queue. Queuing spends no
// points; the queue is settled as points accumulate each year.
func (p *Pool) Enqueue(name string) error {
	if _, ok := p.catalog[name]; !ok {
		return fmt.Errorf("queue %q: %w", name, ErrUnknownInnovation)
	}
	if p.discovered[name] {
		return fmt.Errorf("queue %q: %w", name, ErrAlreadyDiscovered)
	}
	for _, q := range p.queue {
		if q == name {
			return nil
		}
	}
	p.queue = append(p.queue, name)
	return nil
}

// Queue returns the pending research queue in order.
func (p *Pool) Queue() []string {
	out := make([]string, len(p.queue))
	copy(out, p.queue)
	return out
}

// ProcessQueue discovers queued innovations from the front while the
// head is discoverable and affordable, returning what was discovered.
func (p *Pool) ProcessQueue() []string {
	var done []string
	for len(p.queue) > 0 {
		head := p.queue[0]
		if err := p.Discover(head); err != nil {
			if errors.Is(err, ErrAlreadyDiscovered) {
				p.queue = p.queue[1:]
				continue
			}
			break
		}
		done = append(done, head)
		p.queue = p.queue[1:]
	}
	return done
}
