package storagesync

import (
	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
)

// Event is a lifecycle notification emitted by a Session.
type Event interface {
	isEvent()
}

// EnumerationStarted is emitted before a container is listed.
type EnumerationStarted struct {
	Role container.Role
}

// EnumerationDone is emitted after a container was listed.
type EnumerationDone struct {
	Role  container.Role
	Count int
}

// FileVisited is emitted before a source file is evaluated.
type FileVisited struct {
	Record container.FileRecord
}

// TransferProgress is emitted each time a transfer crosses a milestone boundary.
type TransferProgress struct {
	Path      string
	Milestone int
	// Bytes is the cumulative byte count at the crossed boundary
	Bytes int64
	// Total is the declared size of the file
	Total int64
}

// FileDone is emitted once the action for a source file is known.
type FileDone struct {
	Action Action
}

// SyncDone is always the last event of a run. Actions is the complete log and
// Err is the run's failure, if any.
type SyncDone struct {
	Actions []Action
	Err     error
}

func (EnumerationStarted) isEvent() {}
func (EnumerationDone) isEvent()    {}
func (FileVisited) isEvent()        {}
func (TransferProgress) isEvent()   {}
func (FileDone) isEvent()           {}
func (SyncDone) isEvent()           {}

// Listener receives session events. OnEvent is called synchronously on the
// goroutine running Sync, so it must not block for long.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

// OnEvent calls f(e).
func (f ListenerFunc) OnEvent(e Event) {
	f(e)
}
