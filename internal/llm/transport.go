package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	requestTimeout = 30 * time.Second
	maxReplyBytes  = 1 << 20
	maxErrorBody   = 512
)

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// StatusError is a non-200 reply from a provider.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.Provider, e.Code, e.Body)
}

// postJSON sends in as a JSON body and decodes the reply into out.
func postJSON(ctx context.Context, client *http.Client, provider, url string, header http.Header, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", provider, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", provider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	reply, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", provider, err)
	}
	if resp.StatusCode != http.StatusOK {
		if len(reply) > maxErrorBody {
			reply = reply[:maxErrorBody]
		}
		return &StatusError{Provider: provider, Code: resp.StatusCode, Body: string(reply)}
	}

	if err := json.Unmarshal(reply, out); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", provider, err)
	}
	return nil
}
