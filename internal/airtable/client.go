// Package airtable is a minimal client for the Airtable REST API: base
// table metadata, exact-match record queries, and single-record creation.
package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Field is one column of a table, as reported by the metadata endpoint.
type Field struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Table is one table of a base, with its field metadata.
type Table struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Record is a stored record: an opaque identifier plus field values.
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Client calls the Airtable API for a single base.
type Client struct {
	http   *resty.Client
	baseID string
}

// NewClient creates an Airtable client for one base. All requests carry the
// bearer token and are bounded by the given timeout.
func NewClient(baseURL, apiKey, baseID string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Client{http: c, baseID: baseID}
}

// BaseID returns the base this client is bound to.
func (c *Client) BaseID() string { return c.baseID }

// ListTables fetches the base's table metadata (names and field types).
func (c *Client) ListTables(ctx context.Context) ([]Table, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/meta/bases/%s/tables", c.baseID))
	if err != nil {
		return nil, fmt.Errorf("airtable list tables: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("airtable list tables: status %d: %s", resp.StatusCode(), truncate(resp.String(), 512))
	}
	var body struct {
		Tables []Table `json:"tables"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("airtable decode tables: %w", err)
	}
	return body.Tables, nil
}

// QueryRecords lists records of a table filtered by a formula, capped at
// maxRecords results.
func (c *Client) QueryRecords(ctx context.Context, table, formula string, maxRecords int) ([]Record, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("filterByFormula", formula).
		SetQueryParam("maxRecords", strconv.Itoa(maxRecords)).
		Get(fmt.Sprintf("/%s/%s", c.baseID, url.PathEscape(table)))
	if err != nil {
		return nil, fmt.Errorf("airtable query %q: %w", table, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("airtable query %q: status %d: %s", table, resp.StatusCode(), truncate(resp.String(), 512))
	}
	var body struct {
		Records []Record `json:"records"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("airtable decode records: %w", err)
	}
	return body.Records, nil
}

// CreateRecord creates one record in a table from a field-name → value map
// and returns the stored record with its new identifier.
func (c *Client) CreateRecord(ctx context.Context, table string, fields map[string]any) (*Record, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"fields": fields}).
		Post(fmt.Sprintf("/%s/%s", c.baseID, url.PathEscape(table)))
	if err != nil {
		return nil, fmt.Errorf("airtable create in %q: %w", table, err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return nil, fmt.Errorf("airtable create in %q: status %d: %s", table, resp.StatusCode(), truncate(resp.String(), 512))
	}
	var rec Record
	if err := json.Unmarshal(resp.Body(), &rec); err != nil {
		return nil, fmt.Errorf("airtable decode created record: %w", err)
	}
	return &rec, nil
}

// FormulaEscape doubles embedded single quotes so a value cannot break out
// of a single-quoted formula literal.
func FormulaEscape(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}

// EqualsFormula builds an exact-match filter formula for one field.
func EqualsFormula(field, value string) string {
	return fmt.Sprintf("{%s} = '%s'", field, FormulaEscape(value))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
