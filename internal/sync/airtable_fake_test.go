package sync

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/meetsync/meetsync/internal/airtable"
)

// fakeAirtable is an in-memory stand-in for the destination store. It serves
// the three consumed operations: table metadata, exact-match queries, and
// record creation.
type fakeAirtable struct {
	t *testing.T

	// metadata response; metaStatus != 0 forces that status instead
	tables     []airtable.Table
	metaStatus int

	// records by table name
	records map[string][]airtable.Record
	nextID  int

	// tables whose next creates fail with 422; value is how many times
	failCreates map[string]int

	// observed creates by table, in order
	created map[string][]map[string]any
}

var formulaRe = regexp.MustCompile(`^\{(.+)\} = '(.*)'$`)

func newFakeAirtable(t *testing.T, tables []airtable.Table) (*fakeAirtable, *airtable.Client) {
	t.Helper()
	f := &fakeAirtable{
		t:           t,
		tables:      tables,
		records:     map[string][]airtable.Record{},
		failCreates: map[string]int{},
		created:     map[string][]map[string]any{},
	}
	srv := httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(srv.Close)
	return f, airtable.NewClient(srv.URL, "test-token", "appBASE", 5*time.Second)
}

func (f *fakeAirtable) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasPrefix(r.URL.Path, "/meta/"):
		f.handleMeta(w)
	case r.Method == http.MethodGet:
		f.handleQuery(w, r)
	case r.Method == http.MethodPost:
		f.handleCreate(w, r)
	default:
		http.Error(w, "unexpected request", http.StatusBadRequest)
	}
}

func (f *fakeAirtable) handleMeta(w http.ResponseWriter) {
	if f.metaStatus != 0 {
		http.Error(w, "meta unavailable", f.metaStatus)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"tables": f.tables})
}

func (f *fakeAirtable) handleQuery(w http.ResponseWriter, r *http.Request) {
	table := tableFromPath(r.URL.Path)
	formula := r.URL.Query().Get("filterByFormula")
	m := formulaRe.FindStringSubmatch(formula)
	if m == nil {
		http.Error(w, "bad formula: "+formula, http.StatusUnprocessableEntity)
		return
	}
	field, value := m[1], strings.ReplaceAll(m[2], "''", "'")

	var hits []airtable.Record
	for _, rec := range f.records[table] {
		if rec.Fields[field] == value {
			hits = append(hits, rec)
			break // maxRecords=1 semantics
		}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"records": hits})
}

func (f *fakeAirtable) handleCreate(w http.ResponseWriter, r *http.Request) {
	table := tableFromPath(r.URL.Path)
	var body struct {
		Fields map[string]any `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if f.failCreates[table] > 0 {
		f.failCreates[table]--
		http.Error(w, `{"error": "INVALID_REQUEST"}`, http.StatusUnprocessableEntity)
		return
	}

	f.nextID++
	rec := airtable.Record{ID: fmt.Sprintf("rec%d", f.nextID), Fields: body.Fields}
	f.records[table] = append(f.records[table], rec)
	f.created[table] = append(f.created[table], body.Fields)
	_ = json.NewEncoder(w).Encode(rec)
}

// seed inserts an existing record and returns its id.
func (f *fakeAirtable) seed(table string, fields map[string]any) string {
	f.nextID++
	id := fmt.Sprintf("rec%d", f.nextID)
	f.records[table] = append(f.records[table], airtable.Record{ID: id, Fields: fields})
	return id
}

func tableFromPath(path string) string {
	// /{base}/{table}
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}

func airtableField(name, fieldType string) airtable.Field {
	return airtable.Field{ID: "fld" + name, Name: name, Type: fieldType}
}

// Common table metadata used across tests.
func linkedSchemaTables() []airtable.Table {
	return []airtable.Table{
		{
			ID:   "tblMeet",
			Name: "Meetings",
			Fields: []airtable.Field{
				{ID: "f1", Name: "Title", Type: "singleLineText"},
				{ID: "f2", Name: "Participants", Type: "multipleRecordLinks"},
				{ID: "f3", Name: "Duration", Type: "number"},
				{ID: "f4", Name: "Summary", Type: "multilineText"},
			},
		},
		{
			ID:   "tblAct",
			Name: "Action Items",
			Fields: []airtable.Field{
				{ID: "f5", Name: "Description", Type: "multilineText"},
				{ID: "f6", Name: "Status", Type: "singleSelect"},
				{ID: "f7", Name: "Meeting", Type: "multipleRecordLinks"},
				{ID: "f8", Name: "Assigned To", Type: "multipleRecordLinks"},
			},
		},
		{
			ID:   "tblPpl",
			Name: "People",
			Fields: []airtable.Field{
				{ID: "f9", Name: "Name", Type: "singleLineText"},
				{ID: "f10", Name: "Email", Type: "email"},
			},
		},
	}
}
