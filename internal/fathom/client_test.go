package fathom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meetsync/meetsync/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", 5*time.Second), srv
}

func TestListMeetings_SendsInclusionFlags(t *testing.T) {
	var gotQuery map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"include_action_items": r.URL.Query().Get("include_action_items"),
			"include_summary":      r.URL.Query().Get("include_summary"),
			"include_transcript":   r.URL.Query().Get("include_transcript"),
		}
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		_, _ = w.Write([]byte(`{"items": [], "next_cursor": ""}`))
	})

	_, err := client.ListMeetings(context.Background(), ListOptions{IncludeActionItems: true, IncludeSummary: true})
	require.NoError(t, err)
	assert.Equal(t, "true", gotQuery["include_action_items"])
	assert.Equal(t, "true", gotQuery["include_summary"])
	assert.Equal(t, "false", gotQuery["include_transcript"])
}

func TestFindMeetingByRecordingID_Paginates(t *testing.T) {
	// Target meeting lives on the second page; the client must follow the cursor.
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprint(w, `{"items": [{"recording_id": 111, "title": "Other"}], "next_cursor": "page2"}`)
		case "page2":
			fmt.Fprint(w, `{"items": [{"recording_id": 123456789012, "title": "Target"}], "next_cursor": ""}`)
		default:
			http.Error(w, "unexpected cursor", http.StatusBadRequest)
		}
	})

	m, err := client.FindMeetingByRecordingID(context.Background(), "123456789012", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Target", m.Title)
	// numeric id must stringify without float mangling
	assert.Equal(t, "123456789012", IDString(m.RecordingID))
}

func TestFindMeetingByRecordingID_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [{"recording_id": 1}], "next_cursor": ""}`)
	})

	_, err := client.FindMeetingByRecordingID(context.Background(), "999", ListOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestListMeetings_NonSuccessStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	})

	_, err := client.ListMeetings(context.Background(), ListOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestIDString(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{json.Number("987654321"), "987654321"},
		{float64(42), "42"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IDString(c.in))
	}
}

func TestDecodeActionItem(t *testing.T) {
	cases := []struct {
		name         string
		raw          string
		wantDesc     string
		wantAssignee string
	}{
		{"bare string", `"Send the report"`, "Send the report", ""},
		{"object with text", `{"text": "Follow up"}`, "Follow up", ""},
		{"object with description", `{"description": "Review docs"}`, "Review docs", ""},
		{"string assignee", `{"text": "Do it", "assignee": "Jane"}`, "Do it", "Jane"},
		{"object assignee", `{"description": "Ship it", "assignee": {"name": "Bob", "email": "bob@x.io"}}`, "Ship it", "Bob"},
		{"empty", `{}`, "", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			desc, assignee := DecodeActionItem(json.RawMessage(c.raw))
			assert.Equal(t, c.wantDesc, desc)
			assert.Equal(t, c.wantAssignee, assignee)
		})
	}
}

func TestTranscript(t *testing.T) {
	t.Run("object prefers text over markdown", func(t *testing.T) {
		m := &Meeting{Transcript: json.RawMessage(`{"text": "plain", "markdown": "# md", "url": "https://x/t"}`)}
		assert.Equal(t, "plain", m.TranscriptText())
		assert.Equal(t, "https://x/t", m.TranscriptLink())
	})
	t.Run("object falls back to markdown", func(t *testing.T) {
		m := &Meeting{Transcript: json.RawMessage(`{"markdown": "# md"}`)}
		assert.Equal(t, "# md", m.TranscriptText())
	})
	t.Run("bare string", func(t *testing.T) {
		m := &Meeting{Transcript: json.RawMessage(`"spoken words"`)}
		assert.Equal(t, "spoken words", m.TranscriptText())
	})
	t.Run("absent", func(t *testing.T) {
		m := &Meeting{TranscriptURL: "https://top-level"}
		assert.Equal(t, "", m.TranscriptText())
		assert.Equal(t, "https://top-level", m.TranscriptLink())
	})
}
