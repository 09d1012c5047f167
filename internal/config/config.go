package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/meetsync/meetsync/internal/model"
)

// Config holds the configuration for the sync service. Environment variables
// are parsed from the MEETSYNC_ prefix, e.g. MEETSYNC_AIRTABLE_API_KEY.
// The struct is constructed once at startup and passed into every component
// constructor; nothing reads the environment after that.
type Config struct {
	// Source recording service (Fathom).
	FathomAPIKey  string `envconfig:"FATHOM_API_KEY" default:""`
	FathomBaseURL string `envconfig:"FATHOM_BASE_URL" default:"https://api.fathom.ai"`

	// Destination tabular store (Airtable).
	AirtableAPIKey  string `envconfig:"AIRTABLE_API_KEY" default:""`
	AirtableBaseURL string `envconfig:"AIRTABLE_BASE_URL" default:"https://api.airtable.com/v0"`
	AirtableBaseID  string `envconfig:"AIRTABLE_BASE_ID" default:""`

	// Destination table names.
	MeetingsTable     string `envconfig:"MEETINGS_TABLE" default:"Meetings"`
	ActionItemsTable  string `envconfig:"ACTION_ITEMS_TABLE" default:"Action Items"`
	ParticipantsTable string `envconfig:"PARTICIPANTS_TABLE" default:"People"`

	// HTTP Configuration.
	HTTPPort           int `envconfig:"HTTP_PORT" default:"8080"`
	HTTPTimeoutSeconds int `envconfig:"HTTP_TIMEOUT_SECONDS" default:"10"`

	// WebhookToken, when set, gates the debug GET endpoint that returns the
	// last received payload. Compared for exact equality.
	WebhookToken string `envconfig:"WEBHOOK_TOKEN" default:""`

	// PayloadDBPath is the SQLite file backing the debug payload store.
	// Empty means keep payloads in memory only.
	PayloadDBPath string `envconfig:"PAYLOAD_DB_PATH" default:""`

	Debug bool `envconfig:"DEBUG" default:"false"`
}

// New creates a new Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("MEETSYNC", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	return &cfg, nil
}

// ValidateRemote reports whether the credentials required for remote calls
// are present. The service starts without them and answers webhook requests
// with a configuration error, so a misconfigured deploy is diagnosable over
// HTTP rather than crash-looping.
func (c *Config) ValidateRemote() error {
	var missing []string
	if c.FathomAPIKey == "" {
		missing = append(missing, "MEETSYNC_FATHOM_API_KEY")
	}
	if c.AirtableAPIKey == "" {
		missing = append(missing, "MEETSYNC_AIRTABLE_API_KEY")
	}
	if c.AirtableBaseID == "" {
		missing = append(missing, "MEETSYNC_AIRTABLE_BASE_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", model.ErrConfig, missing)
	}
	return nil
}

// NewForTesting creates a config suitable for unit tests.
func NewForTesting() *Config {
	return &Config{
		FathomAPIKey:       "test-fathom-key",
		FathomBaseURL:      "https://api.fathom.ai",
		AirtableAPIKey:     "test-airtable-key",
		AirtableBaseURL:    "https://api.airtable.com/v0",
		AirtableBaseID:     "appTEST",
		MeetingsTable:      "Meetings",
		ActionItemsTable:   "Action Items",
		ParticipantsTable:  "People",
		HTTPPort:           8080,
		HTTPTimeoutSeconds: 10,
	}
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
