package model

// CallData is the normalized, request-scoped representation of one recorded
// meeting, built from the source service payload and consumed by the
// destination-record builders.
type CallData struct {
	// RecordingID is the correlation identifier as a string.
	RecordingID string
	// MeetingID is the source service's own meeting identifier; may be empty.
	MeetingID string
	Title     string
	// StartTime and EndTime are ISO-8601 strings as received; empty when the
	// source omitted them.
	StartTime string
	EndTime   string
	// Duration is whole seconds between StartTime and EndTime. It is nil
	// whenever either endpoint is missing or unparsable.
	Duration *int

	RecordingURL  string
	EmbedURL      string
	ShareURL      string
	Summary       string
	Transcript    string
	TranscriptURL string

	// Participants holds one display name per calendar invitee, in source
	// order. Duplicates are possible and preserved.
	Participants []string

	ActionItems []ActionItem
}

// ActionItem is one normalized action item. Assignee is the raw display name
// from the source (or extracted from the description); empty means no
// assignee is known.
type ActionItem struct {
	Description string
	Assignee    string
}

// SyncResult summarizes one processed recording.
type SyncResult struct {
	RecordingID        string `json:"recording_id"`
	MeetingRecordID    string `json:"meeting_record_id"`
	ActionItemsCreated int    `json:"action_items_created"`
}
