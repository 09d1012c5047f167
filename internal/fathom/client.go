// Package fathom is a minimal client for the Fathom external API. The only
// consumed operation is listing meetings, with cursor pagination and
// per-request inclusion flags.
package fathom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/meetsync/meetsync/internal/model"
)

const meetingsPath = "/external/v1/meetings"

// Client calls the Fathom external API.
type Client struct {
	http *resty.Client
}

// NewClient creates a Fathom client. All requests carry the API key header
// and are bounded by the given timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("X-Api-Key", apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Client{http: c}
}

// ListOptions controls which nested structures the list endpoint includes
// and, when set, the continuation cursor for the next page.
type ListOptions struct {
	IncludeActionItems bool
	IncludeSummary     bool
	IncludeTranscript  bool
	Cursor             string
}

// ListMeetings fetches one page of meetings.
func (c *Client) ListMeetings(ctx context.Context, opts ListOptions) (*MeetingsPage, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("include_action_items", strconv.FormatBool(opts.IncludeActionItems)).
		SetQueryParam("include_summary", strconv.FormatBool(opts.IncludeSummary)).
		SetQueryParam("include_transcript", strconv.FormatBool(opts.IncludeTranscript))
	if opts.Cursor != "" {
		req.SetQueryParam("cursor", opts.Cursor)
	}

	resp, err := req.Get(meetingsPath)
	if err != nil {
		return nil, fmt.Errorf("fathom list meetings: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fathom list meetings: status %d: %s", resp.StatusCode(), truncate(resp.String(), 512))
	}

	// Decode with UseNumber so numeric recording ids survive verbatim and
	// compare correctly as strings.
	dec := json.NewDecoder(bytes.NewReader(resp.Body()))
	dec.UseNumber()
	var page MeetingsPage
	if err := dec.Decode(&page); err != nil {
		return nil, fmt.Errorf("fathom decode response: %w", err)
	}
	return &page, nil
}

// FindMeetingByRecordingID walks the meeting list, following the
// continuation cursor, until it finds the meeting whose recording id matches.
// Returns model.ErrNotFound once pagination is exhausted.
func (c *Client) FindMeetingByRecordingID(ctx context.Context, recordingID string, opts ListOptions) (*Meeting, error) {
	opts.Cursor = ""
	for {
		page, err := c.ListMeetings(ctx, opts)
		if err != nil {
			return nil, err
		}
		for i := range page.Items {
			if IDString(page.Items[i].RecordingID) == recordingID {
				return &page.Items[i], nil
			}
		}
		if page.NextCursor == "" {
			return nil, fmt.Errorf("recording %s: %w", recordingID, model.ErrNotFound)
		}
		opts.Cursor = page.NextCursor
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
