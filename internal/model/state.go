package model

import "fmt"

// StateKind represents which screen the interface shows
type StateKind string

const (
	// StateInput is the initial state waiting for a URL
	StateInput StateKind = "Input"

	// StateLoading means metadata is being fetched
	StateLoading StateKind = "Loading"

	// StateHasMetadata means metadata is shown and a download can start
	StateHasMetadata StateKind = "HasMetadata"

	// StateDownloading means a download is in progress
	StateDownloading StateKind = "Downloading"

	// StateError means the last operation failed
	StateError StateKind = "Error"

	// StateSuccess means the last download finished
	StateSuccess StateKind = "Success"
)

// String returns the string representation of StateKind
func (k StateKind) String() string {
	return string(k)
}

// IsBusy returns true while a worker owns the operation
func (k StateKind) IsBusy() bool {
	return k == StateLoading || k == StateDownloading
}

// IsFinished returns true for states that only a user reset can leave
func (k StateKind) IsFinished() bool {
	return k == StateError || k == StateSuccess
}

// Status text used by the state machine
const (
	StatusStartingDownload = "Starting download..."
	SuccessMessageFormat   = "Download completed successfully!\nSaved to: %s"
	FetchErrorFormat       = "Failed to fetch video info: %v"
	DownloadErrorFormat    = "Download failed: %v"
)

// AppState is the tagged application state. Only the fields belonging to Kind are meaningful:
// Metadata for HasMetadata and Downloading, Progress and Destination for Downloading,
// Message for Error and Success.
type AppState struct {
	Kind        StateKind
	Metadata    *Metadata
	Progress    Progress
	Destination string
	Message     string
}

// InitialState returns the Input state.
func InitialState() AppState {
	return AppState{Kind: StateInput}
}

// Reduce computes the next state for ev. Events that make no sense for the current
// state are ignored and the state is returned unchanged.
func Reduce(s AppState, ev Event) AppState {
	switch e := ev.(type) {
	case FetchRequested:
		if s.Kind != StateInput {
			return s
		}
		return AppState{Kind: StateLoading}

	case MetadataEvent:
		if s.Kind != StateLoading {
			return s
		}
		if e.Err != nil {
			return AppState{Kind: StateError, Message: fmt.Sprintf(FetchErrorFormat, e.Err)}
		}
		if e.Metadata == nil {
			return AppState{Kind: StateError, Message: fmt.Sprintf(FetchErrorFormat, "no metadata returned")}
		}
		return AppState{Kind: StateHasMetadata, Metadata: e.Metadata}

	case DownloadRequested:
		if s.Kind != StateHasMetadata {
			return s
		}
		return AppState{
			Kind:     StateDownloading,
			Metadata: s.Metadata,
			Progress: Progress{Fraction: 0, Status: StatusStartingDownload},
		}

	case ProgressEvent:
		if s.Kind != StateDownloading {
			return s
		}
		s.Progress = e.Progress
		return s

	case PathEvent:
		if s.Kind != StateDownloading {
			return s
		}
		s.Destination = e.Path
		return s

	case DownloadDoneEvent:
		if s.Kind != StateDownloading {
			return s
		}
		if e.Err != nil {
			return AppState{Kind: StateError, Message: fmt.Sprintf(DownloadErrorFormat, e.Err)}
		}
		return AppState{Kind: StateSuccess, Message: fmt.Sprintf(SuccessMessageFormat, e.Path)}

	case ResetRequested:
		if s.Kind.IsBusy() {
			return s
		}
		return InitialState()

	case FailureRequested:
		if s.Kind.IsBusy() {
			return s
		}
		return AppState{Kind: StateError, Message: e.Message}

	default:
		return s
	}
}
