package sync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meetsync/meetsync/internal/config"
	"github.com/meetsync/meetsync/internal/fathom"
	"github.com/meetsync/meetsync/internal/logger"
	"github.com/meetsync/meetsync/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const meetingJSON = `{
	"id": 555,
	"recording_id": 123456789012,
	"title": "Weekly Sync",
	"url": "https://fathom.video/calls/123",
	"share_url": "https://fathom.video/share/abc",
	"recording_start_time": "2024-01-01T10:00:00Z",
	"recording_end_time": "2024-01-01T10:30:00Z",
	"default_summary": {"markdown_formatted": "## Notes"},
	"transcript": {"text": "hello world"},
	"calendar_invitees": [{"name": "Doe, Jane", "email": "jane@x.io"}],
	"action_items": [
		{"description": "Review docs", "assignee": {"name": "Bob"}},
		"Carol to file the report"
	]
}`

// newFakeFathom serves a single-page meetings list.
func newFakeFathom(t *testing.T, body string) *fathom.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/external/v1/meetings" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [` + body + `], "next_cursor": ""}`))
	}))
	t.Cleanup(srv.Close)
	return fathom.NewClient(srv.URL, "test-key", 5*time.Second)
}

func TestSyncRecording_EndToEnd(t *testing.T) {
	fc := newFakeFathom(t, meetingJSON)
	fake, at := newFakeAirtable(t, linkedSchemaTables())
	fake.seed("People", map[string]any{"Name": "Jane Doe"})

	svc := NewService(config.NewForTesting(), fc, at, logger.New("test", false))

	res, err := svc.SyncRecording(context.Background(), "123456789012")
	require.NoError(t, err)
	assert.Equal(t, "123456789012", res.RecordingID)
	assert.Equal(t, 2, res.ActionItemsCreated)

	require.Len(t, fake.created["Meetings"], 1)
	meeting := fake.created["Meetings"][0]
	assert.Equal(t, "Weekly Sync", meeting["Title"])
	assert.Equal(t, "https://fathom.video/embed/abc", meeting["Embed URL"])
	assert.Equal(t, "hello world", meeting["Transcript"])
	assert.Equal(t, float64(1800), meeting["Duration"])
	assert.Equal(t, "123456789012", meeting["Fathom Call ID"])

	items := fake.created["Action Items"]
	require.Len(t, items, 2)
	assert.Equal(t, "Review docs", items[0]["Description"])
	assert.Equal(t, "To Do", items[0]["Status"])
	assert.Equal(t, []any{res.MeetingRecordID}, items[0]["Meeting"])
	assert.Equal(t, "Carol to file the report", items[1]["Description"])

	// Bob was created as a person; Carol was extracted from the free-text
	// item and created too.
	peopleNames := make([]string, 0, len(fake.created["People"]))
	for _, p := range fake.created["People"] {
		peopleNames = append(peopleNames, p["Name"].(string))
	}
	assert.Equal(t, []string{"Bob", "Carol"}, peopleNames)
}

func TestSyncRecording_ItemCreateFailureAbsorbed(t *testing.T) {
	fc := newFakeFathom(t, meetingJSON)
	fake, at := newFakeAirtable(t, linkedSchemaTables())
	fake.failCreates["Action Items"] = 1

	svc := NewService(config.NewForTesting(), fc, at, logger.New("test", false))

	res, err := svc.SyncRecording(context.Background(), "123456789012")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ActionItemsCreated)
	assert.Len(t, fake.created["Action Items"], 1)
}

func TestSyncRecording_UnknownRecording(t *testing.T) {
	fc := newFakeFathom(t, meetingJSON)
	_, at := newFakeAirtable(t, linkedSchemaTables())

	svc := NewService(config.NewForTesting(), fc, at, logger.New("test", false))

	_, err := svc.SyncRecording(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestSyncRecording_MeetingCreateFailure(t *testing.T) {
	fc := newFakeFathom(t, meetingJSON)
	fake, at := newFakeAirtable(t, linkedSchemaTables())
	fake.failCreates["Meetings"] = 1

	svc := NewService(config.NewForTesting(), fc, at, logger.New("test", false))

	_, err := svc.SyncRecording(context.Background(), "123456789012")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUpstream))
}

func TestSyncRecording_MissingCredentials(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.AirtableAPIKey = ""

	svc := NewService(cfg, nil, nil, logger.New("test", false))

	_, err := svc.SyncRecording(context.Background(), "123")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConfig))
}
