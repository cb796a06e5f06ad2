// Package source defines the domain models and interfaces for track resolution.
package source

import (
	"context"
	"errors"
)

// ErrNoStreamAvailable is returned by a Resolver when a track yields nothing playable.
var ErrNoStreamAvailable = errors.New("no stream available")

// Resolver turns a playlist entry into the set of candidate streams it can be played from.
type Resolver interface {
	// Resolve returns every candidate stream for the track.
	// It fails with ErrNoStreamAvailable when the set would be empty.
	Resolve(ctx context.Context, track *Track) ([]*Stream, error)

	// Headers returns the request headers the media origin requires.
	Headers() map[string]string
}
