package sync

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/meetsync/meetsync/internal/fathom"
	"github.com/meetsync/meetsync/internal/model"
)

// untitledMeeting is the placeholder title for meetings the source left
// unnamed.
const untitledMeeting = "Untitled Meeting"

// DeriveEmbedURL derives an embeddable player URL from a shareable URL by
// substituting the share path segment. Returns "" for "".
func DeriveEmbedURL(shareURL string) string {
	if shareURL == "" {
		return ""
	}
	return strings.ReplaceAll(shareURL, "/share/", "/embed/")
}

// deriveDuration computes whole seconds between two ISO-8601 timestamps.
// A missing or unparsable endpoint yields nil, never an error; a trailing Z
// is accepted as the UTC offset.
func deriveDuration(start, end string) *int {
	if start == "" || end == "" {
		return nil
	}
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return nil
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return nil
	}
	d := int(e.Sub(s) / time.Second)
	return &d
}

// NormalizeMeeting maps a fetched source meeting into the internal call-data
// model. recordingID is the correlation identifier the webhook delivered;
// it is carried through verbatim.
func NormalizeMeeting(m *fathom.Meeting, recordingID string) *model.CallData {
	title := m.Title
	if title == "" {
		title = m.MeetingTitle
	}
	if title == "" {
		title = untitledMeeting
	}

	start := m.RecordingStartTime
	if start == "" {
		start = m.ScheduledStartTime
	}
	end := m.RecordingEndTime
	if end == "" {
		end = m.ScheduledEndTime
	}

	recordingURL := m.URL
	if recordingURL == "" {
		recordingURL = m.ShareURL
	}

	participants := make([]string, 0, len(m.CalendarInvitees))
	for _, inv := range m.CalendarInvitees {
		if inv.Name != "" {
			participants = append(participants, inv.Name)
		} else {
			participants = append(participants, inv.Email)
		}
	}

	items := make([]model.ActionItem, 0, len(m.ActionItems))
	for _, raw := range m.ActionItems {
		desc, assignee := fathom.DecodeActionItem(raw)
		if desc == "" {
			continue
		}
		items = append(items, model.ActionItem{Description: desc, Assignee: assignee})
	}

	return &model.CallData{
		RecordingID:   recordingID,
		MeetingID:     fathom.IDString(m.ID),
		Title:         title,
		StartTime:     start,
		EndTime:       end,
		Duration:      deriveDuration(start, end),
		RecordingURL:  recordingURL,
		EmbedURL:      DeriveEmbedURL(m.ShareURL),
		ShareURL:      m.ShareURL,
		Summary:       m.SummaryText(),
		Transcript:    m.TranscriptText(),
		TranscriptURL: m.TranscriptLink(),
		Participants:  participants,
		ActionItems:   items,
	}
}

// uploadMeeting creates the meeting record in the destination table and
// returns its identifier. The destination schema decides field handling:
// scalar fields get literal values (skipped when empty), and the
// Participants field gets reconciled person-record ids when it is a
// cross-reference; names whose reconciliation failed are simply omitted.
func (s *Service) uploadMeeting(ctx context.Context, cd *model.CallData) (string, error) {
	linked := s.schema.LinkedRecordFields(ctx, s.cfg.MeetingsTable)

	names := make([]string, 0, len(cd.Participants))
	for _, p := range cd.Participants {
		if n := ReformatName(p); n != "" {
			names = append(names, n)
		}
	}

	fields := map[string]any{}
	setScalar := func(field, value string) {
		if value != "" && !linked.IsLinked(field) {
			fields[field] = value
		}
	}
	setScalar("Title", cd.Title)
	setScalar("Recording URL", cd.RecordingURL)
	setScalar("Embed URL", cd.EmbedURL)
	setScalar("Summary", cd.Summary)
	setScalar("Transcript", cd.Transcript)
	setScalar("Start Time", cd.StartTime)
	setScalar("End Time", cd.EndTime)
	setScalar("Fathom Call ID", cd.RecordingID)
	setScalar("Transcript URL", cd.TranscriptURL)
	if cd.Duration != nil && !linked.IsLinked("Duration") {
		fields["Duration"] = *cd.Duration
	}

	if linked.IsLinked("Participants") {
		var ids []string
		for _, name := range names {
			if res := s.people.FindOrCreate(ctx, name); res.Linked() {
				ids = append(ids, res.RecordID)
			}
		}
		if len(ids) > 0 {
			fields["Participants"] = ids
		}
	} else if len(names) > 0 {
		fields["Participants"] = names
	}

	s.log.Debug().
		Str("table", s.cfg.MeetingsTable).
		Strs("fields", fieldNames(fields)).
		Msg("creating meeting record")

	rec, err := s.at.CreateRecord(ctx, s.cfg.MeetingsTable, fields)
	if err != nil {
		return "", fmt.Errorf("upload meeting: %w", err)
	}
	return rec.ID, nil
}

func fieldNames(fields map[string]any) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
