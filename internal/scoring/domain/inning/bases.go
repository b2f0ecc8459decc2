// Package inning models the InningState aggregate: bases, outs, the current
// half-inning, and the batting order cursor for each team.
package inning

// Base is one of the three occupied-by-a-runner bases.
type Base string

const (
	// BaseFirst is first base.
	BaseFirst Base = "FIRST"
	// BaseSecond is second base.
	BaseSecond Base = "SECOND"
	// BaseThird is third base.
	BaseThird Base = "THIRD"
)

// Destination is where a runner ends up after a play: a base, home, or out.
type Destination string

const (
	// DestFirst is first base as a destination.
	DestFirst Destination = "FIRST"
	// DestSecond is second base as a destination.
	DestSecond Destination = "SECOND"
	// DestThird is third base as a destination.
	DestThird Destination = "THIRD"
	// DestHome scores the runner.
	DestHome Destination = "HOME"
	// DestOut retires the runner.
	DestOut Destination = "OUT"
)

// AllBases returns the bases in canonical FIRST, SECOND, THIRD order.
func AllBases() []Base {
	return []Base{BaseFirst, BaseSecond, BaseThird}
}

// IsBase reports whether the destination is one of the three bases.
func (d Destination) IsBase() bool {
	return d == DestFirst || d == DestSecond || d == DestThird
}

// Base converts a base-valued destination. It reports false for HOME and OUT.
func (d Destination) Base() (Base, bool) {
	if !d.IsBase() {
		return "", false
	}
	return Base(d), true
}

// BasesState is an immutable mapping from base to occupying runner. The zero
// value is empty bases. All mutators return a new value.
type BasesState struct {
	first  string
	second string
	third  string
}

// Runner returns the runner occupying a base, or empty.
func (b BasesState) Runner(base Base) string {
	switch base {
	case BaseFirst:
		return b.first
	case BaseSecond:
		return b.second
	case BaseThird:
		return b.third
	}
	return ""
}

// WithRunnerOn returns a new state with the runner placed on a base.
func (b BasesState) WithRunnerOn(base Base, runnerID string) BasesState {
	switch base {
	case BaseFirst:
		b.first = runnerID
	case BaseSecond:
		b.second = runnerID
	case BaseThird:
		b.third = runnerID
	}
	return b
}

// WithRunnerAdvanced returns a new state with the runner moved off a base.
// Destinations HOME and OUT vacate the base; base destinations re-place the
// runner.
func (b BasesState) WithRunnerAdvanced(from Base, to Destination) BasesState {
	runner := b.Runner(from)
	next := b.WithRunnerOn(from, "")
	if base, ok := to.Base(); ok {
		next = next.WithRunnerOn(base, runner)
	}
	return next
}

// WithBasesCleared returns an empty bases state.
func (b BasesState) WithBasesCleared() BasesState {
	return BasesState{}
}

// OccupiedBases returns occupied bases, always in FIRST, SECOND, THIRD order.
func (b BasesState) OccupiedBases() []Base {
	var occupied []Base
	for _, base := range AllBases() {
		if b.Runner(base) != "" {
			occupied = append(occupied, base)
		}
	}
	return occupied
}

// Loaded reports whether all three bases are occupied.
func (b BasesState) Loaded() bool {
	return b.first != "" && b.second != "" && b.third != ""
}

// ToMap renders the bases as a base -> runner map for event payloads.
// Empty bases are omitted.
func (b BasesState) ToMap() map[string]string {
	out := make(map[string]string)
	for _, base := range AllBases() {
		if runner := b.Runner(base); runner != "" {
			out[string(base)] = runner
		}
	}
	return out
}

// BasesFromMap rebuilds a bases state from an event payload map.
func BasesFromMap(m map[string]string) BasesState {
	var b BasesState
	for base, runner := range m {
		b = b.WithRunnerOn(Base(base), runner)
	}
	return b
}
