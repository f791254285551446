// Package reconcile decides, for each source file, whether it must be copied
// to the destination.
//
// The decision is a pure function of the source record, the destination
// record with the same relative path (if any), a set of base names that are
// always skipped, and optional doublestar exclude patterns. Rules are applied
// in order:
//
//  1. the base name is in the skip set: skip
//  2. the path matches an exclude pattern: skip
//  3. the destination has no file at that path: copy
//  4. the sizes differ: copy
//  5. the source is strictly newer, compared at millisecond resolution: copy
//  6. otherwise: skip
//
// No content hashing is performed, so a changed file with the same size and
// an older or equal modification time is treated as up to date.
package reconcile
