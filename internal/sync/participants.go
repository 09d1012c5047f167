package sync

import (
	"context"
	"fmt"

	"github.com/meetsync/meetsync/internal/airtable"
	"github.com/rs/zerolog"
)

// ReconcileStatus tags the outcome of a find-or-create, so callers can tell
// "legitimately no assignee" apart from "remote call failed".
type ReconcileStatus int

const (
	// ReconcileSkipped means the name was empty; no remote call was made.
	ReconcileSkipped ReconcileStatus = iota
	// ReconcileFound means an existing record matched the name exactly.
	ReconcileFound
	// ReconcileCreated means a new record was created for the name.
	ReconcileCreated
	// ReconcileFailed means a remote call failed; the name is not linkable.
	ReconcileFailed
)

// ReconcileResult is the tagged outcome of Reconciler.FindOrCreate.
// RecordID is set for Found and Created; Err for Failed.
type ReconcileResult struct {
	Status   ReconcileStatus
	RecordID string
	Err      error
}

// Linked reports whether the result carries a usable record identifier.
func (r ReconcileResult) Linked() bool {
	return r.Status == ReconcileFound || r.Status == ReconcileCreated
}

// Reconciler maps canonical display names to stable person-record
// identifiers in the participants table, creating records on first sight.
// There is no locking or compare-and-swap around the lookup/create pair, so
// two concurrent requests reconciling the same new name can both create a
// record; that duplicate risk is accepted.
type Reconciler struct {
	at        *airtable.Client
	table     string
	nameField string
	log       zerolog.Logger
}

// NewReconciler creates a reconciler against the given participants table.
func NewReconciler(at *airtable.Client, table string, log zerolog.Logger) *Reconciler {
	return &Reconciler{at: at, table: table, nameField: "Name", log: log}
}

// FindOrCreate resolves a name to a record identifier. An empty name is
// Skipped without any remote call. An exact-match query hit wins outright;
// otherwise one record is created with the name in the table's first
// text-like field. Failures never propagate as errors to the caller's
// control flow: the result is tagged Failed and the sync carries on.
func (r *Reconciler) FindOrCreate(ctx context.Context, name string) ReconcileResult {
	if name == "" {
		return ReconcileResult{Status: ReconcileSkipped}
	}

	formula := airtable.EqualsFormula(r.nameField, name)
	records, err := r.at.QueryRecords(ctx, r.table, formula, 1)
	if err != nil {
		r.log.Warn().Err(err).Str("name", name).Msg("participant lookup failed")
		return ReconcileResult{Status: ReconcileFailed, Err: err}
	}
	if len(records) > 0 {
		r.log.Debug().Str("name", name).Str("record_id", records[0].ID).Msg("found existing participant")
		return ReconcileResult{Status: ReconcileFound, RecordID: records[0].ID}
	}

	rec, err := r.at.CreateRecord(ctx, r.table, map[string]any{r.createField(ctx): name})
	if err != nil {
		r.log.Warn().Err(err).Str("name", name).Msg("participant create failed")
		return ReconcileResult{Status: ReconcileFailed, Err: fmt.Errorf("create participant %q: %w", name, err)}
	}
	r.log.Debug().Str("name", name).Str("record_id", rec.ID).Msg("created new participant")
	return ReconcileResult{Status: ReconcileCreated, RecordID: rec.ID}
}

// createField picks the field that accepts the name as plain text: the first
// text-like or email-like field from the table metadata. When the metadata
// is unavailable or has no such field, it falls back to a literal "Name"
// field.
func (r *Reconciler) createField(ctx context.Context) string {
	tables, err := r.at.ListTables(ctx)
	if err != nil {
		r.log.Debug().Err(err).Msg("schema unavailable for name field selection, using default")
		return r.nameField
	}
	for _, t := range tables {
		if t.Name != r.table {
			continue
		}
		for _, f := range t.Fields {
			if f.Type == "singleLineText" || f.Type == "email" {
				return f.Name
			}
		}
		break
	}
	return r.nameField
}
