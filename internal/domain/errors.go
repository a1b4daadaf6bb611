package domain

import "errors"

var (
	// ErrMatchNotLive rejects scoring commands while the match is not live.
	ErrMatchNotLive = errors.New("match is not live")

	// ErrNoActiveInnings rejects operations that need an innings in progress.
	ErrNoActiveInnings = errors.New("no active innings")

	// ErrInvariant marks an engine defect (e.g. an over counter past six).
	// It is surfaced, never clamped.
	ErrInvariant = errors.New("scoring invariant violated")
)
