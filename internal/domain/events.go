package domain

// EventType identifies a progress event emitted during a run.
type EventType string

const (
	EventStart          EventType = "start"
	EventPageProcessing EventType = "page_processing"
	EventPageComplete   EventType = "page_complete"
	EventWarning        EventType = "warning"
	EventError          EventType = "error"
	EventComplete       EventType = "complete"
)

// StreamEvent is one progress notification. Payload holds the typed
// payload matching the event type, or a plain string for warnings and
// errors.
type StreamEvent struct {
	Type    EventType
	Payload interface{}
}

// StartPayload accompanies EventStart.
type StartPayload struct {
	SourcePath string
	TotalPages int
	DPI        int
}

// PagePayload accompanies EventPageProcessing and EventPageComplete.
type PagePayload struct {
	PageIndex  int
	TotalPages int
	Records    int
	ZeroYield  bool
}

// CompletePayload accompanies EventComplete.
type CompletePayload struct {
	Summary      *ExtractionSummary
	TotalRecords int
	OutputPath   string
}
