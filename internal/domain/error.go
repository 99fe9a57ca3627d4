package domain

import "errors"

var (
	// ErrUnknownNetwork means the requested endpoint profile does not exist.
	ErrUnknownNetwork = errors.New("unknown network profile")

	// ErrNoOutcomes means a speed test run collected no probe outcome at all.
	ErrNoOutcomes = errors.New("no probe outcomes collected")

	// ErrNoMatchingAsset means the latest release has no build for this platform.
	ErrNoMatchingAsset = errors.New("no release asset for this platform")
)
