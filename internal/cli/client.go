package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const requestTimeout = 30 * time.Second

// Client sends operator commands to a tourney server
type Client struct {
	baseURL    string
	token      string
	trace      io.Writer // nil unless --verbose
	httpClient *http.Client
}

// NewClient builds a client from the resolved CLI configuration
func NewClient(cfg *Config) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.ServerURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
	if cfg.Verbose {
		c.trace = os.Stderr
	}
	return c
}

// ServerError is a non-2xx reply from the server
type ServerError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) tracef(format string, args ...any) {
	if c.trace != nil {
		_, _ = fmt.Fprintf(c.trace, format, args...)
	}
}

// Do sends body as JSON and decodes a successful reply into result
func (c *Client) Do(method, path string, body, result any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.tracef("> %s %s\n", method, req.URL)
	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read reply to %s %s: %w", method, path, err)
	}
	c.tracef("< %d %s (%s)\n", resp.StatusCode, http.StatusText(resp.StatusCode), time.Since(started).Round(time.Millisecond))

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeServerError(resp.StatusCode, raw)
	}
	if result == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("decode reply to %s %s: %w", method, path, err)
	}
	return nil
}

func decodeServerError(status int, raw []byte) *ServerError {
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error.Code != "" {
		return &ServerError{Status: status, Code: env.Error.Code, Message: env.Error.Message}
	}
	return &ServerError{Status: status, Message: strings.TrimSpace(string(raw))}
}

func (c *Client) Get(path string, result any) error {
	return c.Do(http.MethodGet, path, nil, result)
}

func (c *Client) Post(path string, body, result any) error {
	return c.Do(http.MethodPost, path, body, result)
}

func (c *Client) Patch(path string, body, result any) error {
	return c.Do(http.MethodPatch, path, body, result)
}

func (c *Client) Put(path string, body, result any) error {
	return c.Do(http.MethodPut, path, body, result)
}

func (c *Client) Delete(path string, result any) error {
	return c.Do(http.MethodDelete, path, nil, result)
}
