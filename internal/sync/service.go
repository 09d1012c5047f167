// Package sync holds the data-normalization and reconciliation core: it
// turns a loosely-typed source meeting payload into destination records,
// deduplicating participants and assignees by canonical name and adapting
// field values to the destination schema.
package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/meetsync/meetsync/internal/airtable"
	"github.com/meetsync/meetsync/internal/config"
	"github.com/meetsync/meetsync/internal/fathom"
	"github.com/meetsync/meetsync/internal/model"
	"github.com/rs/zerolog"
)

// Service processes one recording notification end to end: fetch and
// normalize the source meeting, create the meeting record, then create its
// action item records. All state is request-scoped; a Service is safe for
// concurrent use.
type Service struct {
	cfg    *config.Config
	fathom *fathom.Client
	at     *airtable.Client
	schema *SchemaAdapter
	people *Reconciler
	log    zerolog.Logger
}

// NewService wires the sync core from its collaborators.
func NewService(cfg *config.Config, fc *fathom.Client, at *airtable.Client, log zerolog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		fathom: fc,
		at:     at,
		schema: NewSchemaAdapter(at, log),
		people: NewReconciler(at, cfg.ParticipantsTable, log),
		log:    log,
	}
}

// SyncRecording synchronizes the recording identified by the correlation id.
// Steps run sequentially: paginated source lookup, meeting normalization and
// upload, then per-item action item creation. A fetch or meeting-create
// failure aborts and surfaces as an error; per-item and reconciliation
// failures are absorbed, so the returned count may be lower than the number
// of source items.
func (s *Service) SyncRecording(ctx context.Context, recordingID string) (*model.SyncResult, error) {
	if err := s.cfg.ValidateRemote(); err != nil {
		return nil, err
	}

	s.log.Info().Str("recording_id", recordingID).Msg("processing recording")

	meeting, err := s.fathom.FindMeetingByRecordingID(ctx, recordingID, fathom.ListOptions{
		IncludeActionItems: true,
		IncludeSummary:     true,
		IncludeTranscript:  true,
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: fetch call data: %v", model.ErrUpstream, err)
	}

	cd := NormalizeMeeting(meeting, recordingID)

	meetingRecordID, err := s.uploadMeeting(ctx, cd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}

	created := s.createActionItems(ctx, cd.ActionItems, meetingRecordID)

	s.log.Info().
		Str("recording_id", recordingID).
		Str("meeting_record_id", meetingRecordID).
		Int("action_items_created", created).
		Msg("recording synced")

	return &model.SyncResult{
		RecordingID:        recordingID,
		MeetingRecordID:    meetingRecordID,
		ActionItemsCreated: created,
	}, nil
}
