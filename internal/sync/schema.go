package sync

import (
	"context"

	"github.com/meetsync/meetsync/internal/airtable"
	"github.com/rs/zerolog"
)

// Field types whose values must be arrays of record identifiers rather than
// literal values.
var linkedFieldTypes = map[string]bool{
	"multipleRecordLinks":   true,
	"singleCollaborator":    true,
	"multipleCollaborators": true,
}

// FieldClassification is the set of cross-reference field names of one
// table. Fields absent from the set are scalar.
type FieldClassification map[string]struct{}

// IsLinked reports whether the named field takes record identifiers.
func (f FieldClassification) IsLinked(name string) bool {
	_, ok := f[name]
	return ok
}

// SchemaAdapter classifies destination table fields from base metadata.
// The classification is fetched fresh on every call so schema edits take
// effect immediately; the cost is one metadata round trip per request.
type SchemaAdapter struct {
	at  *airtable.Client
	log zerolog.Logger
}

// NewSchemaAdapter creates a schema adapter over an Airtable client.
func NewSchemaAdapter(at *airtable.Client, log zerolog.Logger) *SchemaAdapter {
	return &SchemaAdapter{at: at, log: log}
}

// LinkedRecordFields returns the cross-reference fields of the named table.
// On any transport error it returns an empty classification: every field is
// then treated as scalar and the write proceeds best-effort.
func (s *SchemaAdapter) LinkedRecordFields(ctx context.Context, tableName string) FieldClassification {
	out := FieldClassification{}
	tables, err := s.at.ListTables(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("table", tableName).Msg("could not fetch table schema, treating all fields as scalar")
		return out
	}
	for _, t := range tables {
		if t.Name != tableName {
			continue
		}
		for _, f := range t.Fields {
			if linkedFieldTypes[f.Type] {
				out[f.Name] = struct{}{}
			}
		}
		break
	}
	return out
}
