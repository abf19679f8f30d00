package export

import "context"

// Job names the completed generation an export strategy must materialize.
type Job struct {
	GenerationID string
	RemoteURL    string
	Format       string // "pdf" | "pptx"
	OutputPath   string
}

// Strategy is one way of turning a completed remote generation into a local
// file. Strategies form an ordered list; the resolver runs them until one
// succeeds.
type Strategy interface {
	Name() string
	// Available reports whether the strategy's environmental prerequisites
	// hold. Unavailable strategies are silently removed from the list.
	Available() bool
	Attempt(ctx context.Context, job Job) error
}
