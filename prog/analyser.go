// Package prog provides the Analyser interface for programs.
package prog

import "context"

// Analyser is an interface for Program analysis.
type Analyser interface {
	// Analyse is the entry point to the static analyser.
	// It returns early if ctx is cancelled.
	Analyse(ctx context.Context) error
}
