package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

func runSync(apiURL, recordingID string, out io.Writer) error {
	if recordingID == "" {
		return fmt.Errorf("recording id cannot be empty")
	}
	payload := map[string]any{
		"recording_id": recordingID,
	}
	body, _ := json.Marshal(payload)
	resp, err := http.Post(apiURL+"/webhooks/fathom", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	_, err = io.Copy(out, resp.Body)
	return err
}

func runLastPayload(apiURL, token string, out io.Writer) error {
	u := apiURL + "/webhooks/fathom"
	if token != "" {
		u += "?token=" + url.QueryEscape(token)
	}
	resp, err := http.Get(u)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	_, err = io.Copy(out, resp.Body)
	return err
}
