package driver

// Stage names a phase of the per-file pipeline, for progress reporting.
type Stage string

const (
	StageParse     Stage = "parse"
	StageLower     Stage = "lower"
	StageElaborate Stage = "elaborate"
)

// Status captures a file's progress within a Stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one file, or for the run as a whole when File
// is empty.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

// ProgressSink consumes progress events emitted by Check/CheckParallel.
// Implementations must not block; internal/ui's progress model reads from
// a buffered channel fed by a ProgressSink.
type ProgressSink interface {
	OnEvent(Event)
}

func emit(sink ProgressSink, file string, stage Stage, status Status) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status})
}

// ChannelSink forwards events into a channel, for callers (cmd/smlcheck's
// "check" command) that drive internal/ui's bubbletea model from a
// goroutine running Check/CheckParallel.
type ChannelSink struct {
	Ch chan<- Event
}

// OnEvent forwards the event to the channel.
func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}
