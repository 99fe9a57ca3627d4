package entity

import (
	"slices"
	"strings"
	"time"
)

// Outcome is the result of probing one endpoint: either a measured latency
// or an error message, never both. Build it with NewSuccessOutcome or
// NewFailureOutcome.
type Outcome struct {
	name    string
	url     EndpointURL
	latency time.Duration
	errMsg  string
	ok      bool
}

// NewSuccessOutcome records a probe that completed with the given latency.
func NewSuccessOutcome(ep Endpoint, latency time.Duration) Outcome {
	return Outcome{name: ep.Name, url: ep.URL, latency: latency, ok: true}
}

// NewFailureOutcome records a probe that failed with the given message.
func NewFailureOutcome(ep Endpoint, message string) Outcome {
	return Outcome{name: ep.Name, url: ep.URL, errMsg: message}
}

// Name returns the endpoint display name.
func (o Outcome) Name() string { return o.name }

// URL returns the probed endpoint origin.
func (o Outcome) URL() EndpointURL { return o.url }

// Succeeded reports whether the probe measured a latency.
func (o Outcome) Succeeded() bool { return o.ok }

// Latency returns the measured round-trip time, if any.
func (o Outcome) Latency() (time.Duration, bool) {
	return o.latency, o.ok
}

// ErrorMessage returns the captured error message, if any.
func (o Outcome) ErrorMessage() (string, bool) {
	return o.errMsg, !o.ok
}

// RunResult is everything one speed test run produced.
type RunResult struct {
	Network  NetworkType
	Outcomes []Outcome
	// Omitted counts endpoints whose probe task failed and produced no outcome.
	Omitted int
}

// RankOutcomes returns a stably sorted copy of outcomes: successes first by
// latency ascending, then failures by name ascending.
func RankOutcomes(outcomes []Outcome) []Outcome {
	ranked := slices.Clone(outcomes)
	slices.SortStableFunc(ranked, compareOutcomes)
	return ranked
}

func compareOutcomes(a, b Outcome) int {
	switch {
	case a.ok && b.ok:
		switch {
		case a.latency < b.latency:
			return -1
		case a.latency > b.latency:
			return 1
		}
		return 0
	case a.ok:
		return -1
	case b.ok:
		return 1
	default:
		return strings.Compare(a.name, b.name)
	}
}
