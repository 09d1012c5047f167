package sync

import (
	"context"

	"github.com/meetsync/meetsync/internal/model"
)

// initialStatus is the default status new action item records start in.
const initialStatus = "To Do"

// createActionItems writes one destination record per normalized action
// item, in source order. A failed assignee reconciliation downgrades the
// item to unlinked rather than blocking it, and a failed record create is
// logged and skipped; later items are independent. Returns the number of
// records actually created.
func (s *Service) createActionItems(ctx context.Context, items []model.ActionItem, meetingRecordID string) int {
	if len(items) == 0 {
		return 0
	}

	linked := s.schema.LinkedRecordFields(ctx, s.cfg.ActionItemsTable)

	created := 0
	for _, item := range items {
		if item.Description == "" {
			continue
		}

		assignee := item.Assignee
		if assignee == "" {
			assignee = ExtractAssignee(item.Description)
		}
		assignee = ReformatName(assignee)

		res := s.people.FindOrCreate(ctx, assignee)
		if assignee != "" && res.Status == ReconcileFailed {
			s.log.Warn().Str("assignee", assignee).Msg("could not find or create assignee record")
		}

		fields := map[string]any{
			"Description": item.Description,
			"Status":      initialStatus,
		}
		if meetingRecordID != "" {
			fields["Meeting"] = []string{meetingRecordID}
		}
		if res.Linked() {
			fields["Assigned To"] = []string{res.RecordID}
		} else if assignee != "" && !linked.IsLinked("Assigned To") {
			// Only a scalar field may take the bare name; a cross-reference
			// field without a record id is omitted entirely.
			fields["Assigned To"] = assignee
		}

		if _, err := s.at.CreateRecord(ctx, s.cfg.ActionItemsTable, fields); err != nil {
			s.log.Error().Err(err).Str("description", truncate(item.Description, 80)).Msg("failed to create action item record")
			continue
		}
		created++
		s.log.Info().
			Str("description", truncate(item.Description, 80)).
			Str("assignee", assignee).
			Msg("created action item record")
	}
	return created
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
