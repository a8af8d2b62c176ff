package driver

// Stage names one step of the per-file lint protocol.
type Stage string

const (
	StageRead        Stage = "read"
	StagePreprocess  Stage = "preprocess"
	StageRules       Stage = "rules"
	StagePostprocess Stage = "postprocess"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one file.
type Event struct {
	File     string
	Stage    Stage
	Status   Status
	Err      error
	Messages int
}

// ProgressSink consumes progress events. It must be safe for concurrent use
// when the host runs in parallel.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events to a channel.
type ChannelSink struct {
	Ch chan<- Event
}

// OnEvent implements ProgressSink.
func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch != nil {
		s.Ch <- ev
	}
}

func (h *Host) emit(ev Event) {
	if h.progress != nil {
		h.progress.OnEvent(ev)
	}
}
