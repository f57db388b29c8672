package model

// Event is anything that can drive the application state machine: messages sent
// by a worker over an operation channel, and explicit user actions.
type Event interface {
	isEvent()
}

// LogEvent carries one line of console output.
type LogEvent struct {
	Line LogLine
}

// ProgressEvent carries the latest download progress.
type ProgressEvent struct {
	Progress Progress
}

// PathEvent reports a newly discovered output file location.
type PathEvent struct {
	Path string
}

// MetadataEvent is the terminal event of a fetch operation.
type MetadataEvent struct {
	Metadata *Metadata
	Err      error
}

// DownloadDoneEvent is the terminal event of a download operation.
// Path is the best known output location, or the target directory when none was discovered.
type DownloadDoneEvent struct {
	Path string
	Err  error
}

// FetchRequested is sent when the user asks for metadata.
type FetchRequested struct{}

// DownloadRequested is sent when the user starts a download.
type DownloadRequested struct{}

// ResetRequested returns the interface to the input screen.
type ResetRequested struct{}

// FailureRequested moves straight to the error screen, e.g. for rejected input.
type FailureRequested struct {
	Message string
}

func (LogEvent) isEvent()          {}
func (ProgressEvent) isEvent()     {}
func (PathEvent) isEvent()         {}
func (MetadataEvent) isEvent()     {}
func (DownloadDoneEvent) isEvent() {}
func (FetchRequested) isEvent()    {}
func (DownloadRequested) isEvent() {}
func (ResetRequested) isEvent()    {}
func (FailureRequested) isEvent()  {}

// IsTerminal reports whether ev ends an operation.
func IsTerminal(ev Event) bool {
	switch ev.(type) {
	case MetadataEvent, DownloadDoneEvent:
		return true
	default:
		return false
	}
}
