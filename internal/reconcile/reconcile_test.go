package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func rec(path string, size int64, mod time.Time) container.FileRecord {
	return container.FileRecord{Path: path, Size: size, ModTime: mod}
}

func TestNewIndex(t *testing.T) {
	t.Run("keys on full relative path", func(t *testing.T) {
		idx := NewIndex([]container.FileRecord{
			rec("a/x.txt", 1, base),
			rec("b/x.txt", 2, base),
		})
		require.Len(t, idx, 2)
		assert.Equal(t, int64(1), idx["a/x.txt"].Size)
		assert.Equal(t, int64(2), idx["b/x.txt"].Size)
	})

	t.Run("last entry wins", func(t *testing.T) {
		idx := NewIndex([]container.FileRecord{
			rec("a.txt", 1, base),
			rec("a.txt", 7, base),
		})
		require.Len(t, idx, 1)
		assert.Equal(t, int64(7), idx["a.txt"].Size)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, NewIndex(nil))
	})
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		skip []string
		src  container.FileRecord
		dst  []container.FileRecord
		want Decision
	}{
		{
			name: "missing at destination",
			src:  rec("a.txt", 10, base),
			want: Decision{Copy: true, Reason: ReasonMissing},
		},
		{
			name: "size differs",
			src:  rec("a.txt", 10, base),
			dst:  []container.FileRecord{rec("a.txt", 11, base)},
			want: Decision{Copy: true, Reason: ReasonSizeChanged},
		},
		{
			name: "destination larger and newer still copies",
			src:  rec("a.txt", 10, base),
			dst:  []container.FileRecord{rec("a.txt", 99, base.Add(time.Hour))},
			want: Decision{Copy: true, Reason: ReasonSizeChanged},
		},
		{
			name: "source newer",
			src:  rec("a.txt", 10, base.Add(time.Second)),
			dst:  []container.FileRecord{rec("a.txt", 10, base)},
			want: Decision{Copy: true, Reason: ReasonNewer},
		},
		{
			name: "equal mtime",
			src:  rec("a.txt", 10, base),
			dst:  []container.FileRecord{rec("a.txt", 10, base)},
			want: Decision{Copy: false, Reason: ReasonUpToDate},
		},
		{
			name: "source older",
			src:  rec("a.txt", 10, base),
			dst:  []container.FileRecord{rec("a.txt", 10, base.Add(time.Minute))},
			want: Decision{Copy: false, Reason: ReasonUpToDate},
		},
		{
			name: "sub-millisecond difference is not newer",
			src:  rec("a.txt", 10, base.Add(500*time.Microsecond)),
			dst:  []container.FileRecord{rec("a.txt", 10, base)},
			want: Decision{Copy: false, Reason: ReasonUpToDate},
		},
		{
			name: "one millisecond newer",
			src:  rec("a.txt", 10, base.Add(time.Millisecond)),
			dst:  []container.FileRecord{rec("a.txt", 10, base)},
			want: Decision{Copy: true, Reason: ReasonNewer},
		},
		{
			name: "skip name beats missing",
			skip: []string{".DS_Store"},
			src:  rec("photos/.DS_Store", 10, base),
			want: Decision{Copy: false, Reason: ReasonSkipName},
		},
		{
			name: "skip name beats size change",
			skip: []string{"thumbs.db"},
			src:  rec("thumbs.db", 10, base),
			dst:  []container.FileRecord{rec("thumbs.db", 3, base)},
			want: Decision{Copy: false, Reason: ReasonSkipName},
		},
		{
			name: "skip set matches base name only",
			skip: []string{"photos"},
			src:  rec("photos/a.jpg", 10, base),
			want: Decision{Copy: true, Reason: ReasonMissing},
		},
		{
			name: "same name in other directory is a different file",
			src:  rec("a/x.txt", 10, base),
			dst:  []container.FileRecord{rec("b/x.txt", 10, base)},
			want: Decision{Copy: true, Reason: ReasonMissing},
		},
		{
			name: "zero size files",
			src:  rec("empty", 0, base),
			dst:  []container.FileRecord{rec("empty", 0, base)},
			want: Decision{Copy: false, Reason: ReasonUpToDate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.skip...)
			got := r.Decide(tt.src, NewIndex(tt.dst))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecideIsDeterministic(t *testing.T) {
	r := New("skip.me")
	idx := NewIndex([]container.FileRecord{rec("a.txt", 1, base)})
	src := rec("a.txt", 1, base.Add(time.Second))

	first := r.Decide(src, idx)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Decide(src, idx))
	}
}

func TestPlan(t *testing.T) {
	r := New(".DS_Store")
	src := []container.FileRecord{
		rec("a.txt", 10, base),
		rec("b.txt", 20, base),
		rec(".DS_Store", 1, base),
		rec("c.txt", 30, base.Add(time.Hour)),
	}
	dst := []container.FileRecord{
		rec("a.txt", 10, base),
		rec("c.txt", 30, base),
		rec("only-here.txt", 5, base),
	}

	plan := r.Plan(src, dst)

	require.Len(t, plan, len(src))
	for i, p := range plan {
		assert.Equal(t, src[i], p.Record, "plan must follow source order")
	}
	assert.Equal(t, Decision{Copy: false, Reason: ReasonUpToDate}, plan[0].Decision)
	assert.Equal(t, Decision{Copy: true, Reason: ReasonMissing}, plan[1].Decision)
	assert.Equal(t, Decision{Copy: false, Reason: ReasonSkipName}, plan[2].Decision)
	assert.Equal(t, Decision{Copy: true, Reason: ReasonNewer}, plan[3].Decision)
}

func TestPlanIdempotentAfterCopy(t *testing.T) {
	r := New()
	src := []container.FileRecord{
		rec("a.txt", 10, base),
		rec("dir/b.txt", 20, base),
	}

	// A destination holding exact copies yields only skips.
	for _, p := range r.Plan(src, src) {
		assert.False(t, p.Decision.Copy, p.Record.Path)
		assert.Equal(t, ReasonUpToDate, p.Decision.Reason)
	}
}

func TestExclude(t *testing.T) {
	r := New("Thumbs.db")
	require.NoError(t, r.Exclude("**/*.tmp", "cache/**"))

	idx := NewIndex(nil)
	tests := []struct {
		path string
		want Reason
	}{
		{"a.tmp", ReasonExcluded},
		{"dir/deep/b.tmp", ReasonExcluded},
		{"cache/x/y.bin", ReasonExcluded},
		{"cachex/y.bin", ReasonMissing},
		{"dir/c.txt", ReasonMissing},
		{"cache/Thumbs.db", ReasonSkipName},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			d := r.Decide(rec(tt.path, 1, base), idx)
			assert.Equal(t, tt.want, d.Reason)
			assert.Equal(t, tt.want == ReasonMissing, d.Copy)
		})
	}
}

func TestExcludeInvalidPattern(t *testing.T) {
	r := New()
	err := r.Exclude("ok/**", "[unclosed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[unclosed")

	d := r.Decide(rec("ok/a.txt", 1, base), NewIndex(nil))
	assert.Equal(t, ReasonMissing, d.Reason, "no pattern is added when one is invalid")
}
