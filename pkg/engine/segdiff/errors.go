package segdiff

import "errors"

var (
	ErrInvalidConfig   = errors.New("invalid comparison configuration")
	ErrNoMatchedRoutes = errors.New("no route identifier is present in both collections")
	ErrEmptyRecord     = errors.New("segment has no bootstrap samples")
	ErrUnmatchedRoute  = errors.New("route has no counterpart in the other collection")
	ErrUnknownSegment  = errors.New("segment is not part of the segment universe")
)
