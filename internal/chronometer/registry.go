package chronometer

import (
	"sort"
	"sync"

	"github.com/balkashynov/studyclock/internal/sessionclient"
)

// Registry hands out one chronometer per subject.
type Registry struct {
	mu     sync.Mutex
	client sessionclient.Client
	opts   []Option
	timers map[string]*Chronometer
}

// NewRegistry creates a registry whose chronometers share client and opts.
func NewRegistry(client sessionclient.Client, opts ...Option) *Registry {
	return &Registry{
		client: client,
		opts:   opts,
		timers: make(map[string]*Chronometer),
	}
}

// For returns the chronometer for subjectID, creating it on first use.
func (r *Registry) For(subjectID string) *Chronometer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.timers[subjectID]; ok {
		return c
	}
	c := New(subjectID, r.client, r.opts...)
	r.timers[subjectID] = c
	return c
}

// Subjects lists the subjects with a chronometer.
func (r *Registry) Subjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	subjects := make([]string, 0, len(r.timers))
	for id := range r.timers {
		subjects = append(subjects, id)
	}
	sort.Strings(subjects)
	return subjects
}
