package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

// HTTPClient implements LintClient using the flowlint HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ LintClient = (*HTTPClient)(nil)

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

func (c *HTTPClient) Lint(ctx context.Context, graph json.RawMessage, opts LintOptions) (*LintResponse, error) {
	q := url.Values{}
	if opts.Mode != "" {
		q.Set("mode", string(opts.Mode))
	}
	if opts.StrictOutputs {
		q.Set("strict_outputs", "true")
	}
	if opts.StrictEmpty {
		q.Set("strict_empty", "true")
	}
	path := "/v1/lint"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp LintResponse
	if err := c.doJSON(ctx, http.MethodPost, path, graph, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListNodeTypes(ctx context.Context) ([]model.NodeTypeContract, error) {
	var resp struct {
		NodeTypes []model.NodeTypeContract `json:"node_types"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/node-types", nil, &resp); err != nil {
		return nil, err
	}
	return resp.NodeTypes, nil
}

func (c *HTTPClient) GetNodeType(ctx context.Context, typ string) (*model.NodeTypeContract, error) {
	var contract model.NodeTypeContract
	if err := c.doJSON(ctx, http.MethodGet, "/v1/node-types/"+url.PathEscape(typ), nil, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (c *HTTPClient) ListReports(ctx context.Context, filter model.ReportFilter) (*ListReportsResponse, error) {
	q := url.Values{}
	if filter.Mode != "" {
		q.Set("mode", filter.Mode)
	}
	if filter.OnlyInvalid {
		q.Set("invalid", "true")
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		q.Set("offset", strconv.Itoa(filter.Offset))
	}

	path := "/v1/reports"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListReportsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetReport(ctx context.Context, id string) (*model.Report, error) {
	var report model.Report
	if err := c.doJSON(ctx, http.MethodGet, "/v1/reports/"+url.PathEscape(id), nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *HTTPClient) CodeStats(ctx context.Context) (map[model.Code]int, error) {
	var resp struct {
		Codes map[model.Code]int `json:"codes"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/stats", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Codes, nil
}

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// doJSON performs an HTTP request and decodes the JSON response into result.
// A json.RawMessage body is sent as is; anything else is marshaled.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	switch b := body.(type) {
	case nil:
	case json.RawMessage:
		bodyReader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
