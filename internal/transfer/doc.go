// Package transfer streams a single file from a source container to a
// destination container.
//
// Bytes flow through a counting reader so the whole file is never held in
// memory. The reader reports coarse progress milestones each time the
// cumulative byte count crosses a fixed boundary (10 MiB by default).
package transfer
