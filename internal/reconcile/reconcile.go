package reconcile

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
)

// Reason describes why a decision was reached.
type Reason string

const (
	// ReasonSkipName indicates the base name is in the skip set
	ReasonSkipName Reason = "skip-name"

	// ReasonExcluded indicates the path matches an exclude pattern
	ReasonExcluded Reason = "excluded"

	// ReasonUpToDate indicates the destination is at least as new and the same size
	ReasonUpToDate Reason = "up-to-date"

	// ReasonMissing indicates the destination has no file at the path
	ReasonMissing Reason = "missing"

	// ReasonSizeChanged indicates source and destination sizes differ
	ReasonSizeChanged Reason = "size-changed"

	// ReasonNewer indicates the source was modified after the destination
	ReasonNewer Reason = "newer"
)

// Decision is the outcome of reconciling one source record.
type Decision struct {
	// Copy is true when the file must be transferred
	Copy bool

	// Reason explains the decision
	Reason Reason
}

// Index maps relative paths to destination records.
type Index map[string]container.FileRecord

// NewIndex builds an index over records. When a path appears more than once
// the last record wins.
func NewIndex(records []container.FileRecord) Index {
	idx := make(Index, len(records))
	for _, r := range records {
		idx[r.Path] = r
	}
	return idx
}

// Reconciler applies the copy/skip rules.
type Reconciler struct {
	skip    mapset.Set[string]
	exclude []string
}

// New creates a reconciler that always skips files whose base name is one of skipNames.
func New(skipNames ...string) *Reconciler {
	return &Reconciler{
		skip: mapset.NewThreadUnsafeSet(skipNames...),
	}
}

// Exclude adds doublestar patterns (e.g. "**/*.tmp", "cache/**") matched
// against the full relative path. Matching files are always skipped.
func (r *Reconciler) Exclude(patterns ...string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	r.exclude = append(r.exclude, patterns...)
	return nil
}

func (r *Reconciler) excluded(p string) bool {
	for _, pattern := range r.exclude {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

// Decide reports whether src must be copied given the destination index.
func (r *Reconciler) Decide(src container.FileRecord, idx Index) Decision {
	if r.skip.Contains(src.Name()) {
		return Decision{Copy: false, Reason: ReasonSkipName}
	}
	if r.excluded(src.Path) {
		return Decision{Copy: false, Reason: ReasonExcluded}
	}

	dst, ok := idx[src.Path]
	if !ok {
		return Decision{Copy: true, Reason: ReasonMissing}
	}

	if src.Size != dst.Size {
		return Decision{Copy: true, Reason: ReasonSizeChanged}
	}

	// Millisecond resolution; finer precision is not preserved by every backend.
	if src.ModTime.UnixMilli() > dst.ModTime.UnixMilli() {
		return Decision{Copy: true, Reason: ReasonNewer}
	}

	return Decision{Copy: false, Reason: ReasonUpToDate}
}

// Planned pairs a source record with its decision.
type Planned struct {
	Record   container.FileRecord
	Decision Decision
}

// Plan decides every source record against the destination listing, in
// source order. It performs no I/O.
func (r *Reconciler) Plan(src, dst []container.FileRecord) []Planned {
	idx := NewIndex(dst)
	plan := make([]Planned, 0, len(src))
	for _, rec := range src {
		plan = append(plan, Planned{Record: rec, Decision: r.Decide(rec, idx)})
	}
	return plan
}
