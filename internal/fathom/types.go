package fathom

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MeetingsPage is one page of the list-meetings endpoint.
type MeetingsPage struct {
	Items      []Meeting `json:"items"`
	NextCursor string    `json:"next_cursor"`
}

// Meeting is the source service's meeting object. The payload is loosely
// typed upstream: identifiers arrive as numbers or strings, the transcript is
// an object or a bare string, and action items are strings or objects. The
// polymorphic parts stay raw here and are decoded by the helpers below.
type Meeting struct {
	ID                 any               `json:"id"`
	RecordingID        any               `json:"recording_id"`
	Title              string            `json:"title"`
	MeetingTitle       string            `json:"meeting_title"`
	URL                string            `json:"url"`
	ShareURL           string            `json:"share_url"`
	RecordingStartTime string            `json:"recording_start_time"`
	RecordingEndTime   string            `json:"recording_end_time"`
	ScheduledStartTime string            `json:"scheduled_start_time"`
	ScheduledEndTime   string            `json:"scheduled_end_time"`
	TranscriptURL      string            `json:"transcript_url"`
	DefaultSummary     *Summary          `json:"default_summary"`
	Transcript         json.RawMessage   `json:"transcript"`
	CalendarInvitees   []Invitee         `json:"calendar_invitees"`
	ActionItems        []json.RawMessage `json:"action_items"`
}

// Summary is the nested default summary object.
type Summary struct {
	MarkdownFormatted string `json:"markdown_formatted"`
}

// Invitee is one calendar invitee; either field may be empty.
type Invitee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IDString renders an identifier value as a string regardless of the JSON
// type it arrived as. Pages are decoded with UseNumber, so numeric ids keep
// their exact textual form.
func IDString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// SummaryText returns the formatted markdown of the default summary, or "".
func (m *Meeting) SummaryText() string {
	if m.DefaultSummary == nil {
		return ""
	}
	return m.DefaultSummary.MarkdownFormatted
}

// transcriptObject mirrors the structured transcript variant.
type transcriptObject struct {
	Text     string `json:"text"`
	Markdown string `json:"markdown"`
	URL      string `json:"url"`
}

// TranscriptText returns the transcript content. A structured transcript
// prefers its "text" field over "markdown"; a bare string transcript is used
// directly; anything else yields "".
func (m *Meeting) TranscriptText() string {
	if len(m.Transcript) == 0 {
		return ""
	}
	trimmed := strings.TrimSpace(string(m.Transcript))
	if strings.HasPrefix(trimmed, "{") {
		var obj transcriptObject
		if err := json.Unmarshal(m.Transcript, &obj); err != nil {
			return ""
		}
		if obj.Text != "" {
			return obj.Text
		}
		return obj.Markdown
	}
	var s string
	if err := json.Unmarshal(m.Transcript, &s); err != nil {
		return ""
	}
	return s
}

// TranscriptLink returns the transcript URL nested in a structured
// transcript, falling back to the meeting-level field.
func (m *Meeting) TranscriptLink() string {
	if len(m.Transcript) > 0 {
		var obj transcriptObject
		if err := json.Unmarshal(m.Transcript, &obj); err == nil && obj.URL != "" {
			return obj.URL
		}
	}
	return m.TranscriptURL
}

// structuredActionItem mirrors the object variant of an action item.
type structuredActionItem struct {
	Text        string `json:"text"`
	Description string `json:"description"`
	Assignee    any    `json:"assignee"`
}

// assigneeObject mirrors the object variant of an assignee.
type assigneeObject struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DecodeActionItem extracts the description and, when present, the
// structured assignee name from one raw action item. Items are either bare
// strings or objects carrying text/description and an assignee that is
// itself a string or an object with a name.
func DecodeActionItem(raw json.RawMessage) (description, assignee string) {
	if len(raw) == 0 {
		return "", ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, ""
	}
	var item structuredActionItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return "", ""
	}
	description = item.Text
	if description == "" {
		description = item.Description
	}
	switch a := item.Assignee.(type) {
	case string:
		assignee = a
	case map[string]any:
		// Re-route through the typed shape to keep one decode path.
		if b, err := json.Marshal(a); err == nil {
			var obj assigneeObject
			if json.Unmarshal(b, &obj) == nil {
				assignee = obj.Name
			}
		}
	}
	return description, assignee
}
