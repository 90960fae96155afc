// Package resolve turns user-supplied channel references (raw UC ids
// or @handles) into canonical channel IDs. Resolvers are pluggable so
// new reference forms can be added without touching the callers.
package resolve

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// ChannelInfo is the outcome of resolving a reference.
type ChannelInfo struct {
	// Ref is the reference as the user typed it
	Ref string
	// ChannelID is the canonical UC… id
	ChannelID string
	// Title is the channel title when the resolver learned it
	Title string
	// Metadata carries any extra resolver-specific details
	Metadata map[string]string
}

// Resolver maps one form of channel reference to a channel ID.
type Resolver interface {
	// Name returns the resolver name for identification
	Name() string

	// CanHandle returns true if this resolver understands the reference
	CanHandle(ref string) bool

	// Resolve turns the reference into channel info. This may involve
	// HTTP requests.
	Resolve(ctx context.Context, ref string, client *http.Client) (*ChannelInfo, error)

	// Priority breaks ties when multiple resolvers can handle the same
	// reference (higher wins)
	Priority() int
}

// Registry manages all registered resolvers
type Registry struct {
	resolvers []Resolver
	client    *http.Client
}

// NewRegistry creates a new resolver registry
func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{
		resolvers: make([]Resolver, 0),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Register adds a resolver to the registry
func (r *Registry) Register(resolver Resolver) {
	r.resolvers = append(r.resolvers, resolver)
}

// Find returns the highest-priority resolver that can handle ref, or
// nil when none can.
func (r *Registry) Find(ref string) Resolver {
	var best Resolver
	highestPriority := -1

	for _, resolver := range r.resolvers {
		if resolver.CanHandle(ref) && resolver.Priority() > highestPriority {
			best = resolver
			highestPriority = resolver.Priority()
		}
	}

	return best
}

// Resolve runs the best resolver for the reference.
func (r *Registry) Resolve(ctx context.Context, ref string) (*ChannelInfo, error) {
	resolver := r.Find(ref)
	if resolver == nil {
		return nil, fmt.Errorf("no resolver understands %q", ref)
	}
	return resolver.Resolve(ctx, ref, r.client)
}

// List returns all registered resolvers
func (r *Registry) List() []Resolver {
	return append([]Resolver(nil), r.resolvers...)
}
