package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/scrublab/scrub/pkg/catalog"
)

// Client speaks the dispatch protocol against a remote server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the server at baseURL. A trailing slash is
// tolerated.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Connect verifies the server is reachable. It hits the health endpoint
// rather than the RPC endpoint so a failing executor does not mask a
// healthy transport.
func (c *Client) Connect(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("connect %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("connect %s: unexpected status %d", c.baseURL, resp.StatusCode)
	}
	return nil
}

// ListTools fetches the server's registered tools in registration order.
func (c *Client) ListTools(ctx context.Context) ([]catalog.ToolSpec, error) {
	var result ListResult
	if err := c.call(ctx, Request{Method: MethodListTools}, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// CallTool invokes a tool by name and returns the sanitized text. Provider
// is optional; empty defers to the server default.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any, provider string) (string, error) {
	var result CallResult
	err := c.call(ctx, Request{
		Method: MethodCallTool,
		Params: CallParams{Name: name, Arguments: args, Provider: provider},
	}, &result)
	if err != nil {
		return "", err
	}
	return result.SanitizedText, nil
}

func (c *Client) call(ctx context.Context, req Request, out any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rpc", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: %w", req.Method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", req.Method, err)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *RPCError       `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%s: decode response: %w", req.Method, err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	if out != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("%s: decode result: %w", req.Method, err)
		}
	}
	return nil
}
