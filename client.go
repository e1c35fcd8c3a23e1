package thanosql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// HTTPClient is the interface for HTTP client.
type HTTPClient interface {
	// Get sends a GET request to the ThanoSQL engine.
	Get(context.Context, *url.URL) (*http.Response, error)
	// Post sends a POST request to the ThanoSQL engine.
	Post(context.Context, *url.URL, []byte) (*http.Response, error)
	// Put sends a PUT request to the ThanoSQL engine.
	Put(context.Context, *url.URL, []byte) (*http.Response, error)
	// Delete sends a DELETE request to the ThanoSQL engine.
	Delete(context.Context, *url.URL) (*http.Response, error)
	// Upload sends a multipart POST request carrying the named file and
	// any extra form fields.
	Upload(ctx context.Context, u *url.URL, file string, fields map[string]string) (*http.Response, error)
	// Close releases any idle connections held by the client.
	Close()
}

type httpClient struct {
	client *http.Client
	token  string
}

// NewHTTPClient creates a new internal HTTP client authenticating with
// the given API token.
func NewHTTPClient(token string) HTTPClient {
	return &httpClient{
		client: http.DefaultClient,
		token:  token,
	}
}

// Ensure httpClient implements HTTPClient.
var _ HTTPClient = (*httpClient)(nil)

func (c *httpClient) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	return c.client.Do(req)
}

func (c *httpClient) Get(ctx context.Context, u *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *httpClient) Post(ctx context.Context, u *url.URL, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *httpClient) Put(ctx context.Context, u *url.URL, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *httpClient) Delete(ctx context.Context, u *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u.String(), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *httpClient) Upload(ctx context.Context, u *url.URL, file string, fields map[string]string) (*http.Response, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(file))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, err
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req)
}

func (c *httpClient) Close() {
	c.client.CloseIdleConnections()
}

// Client is the major entrance for interacting with the ThanoSQL engine.
type Client struct {
	config *Config
	http   HTTPClient

	Query         *QueryService
	Table         *TableService
	TableTemplate *TableTemplateService
	View          *ViewService
	Schema        *SchemaService
	File          *FileService
}

// NewClient creates a new client with the given config.
func NewClient(config *Config) *Client {
	c := &Client{
		config: config,
		http:   NewHTTPClient(config.APIToken),
	}
	c.Query = newQueryService(c)
	c.Table = &TableService{c: c}
	c.TableTemplate = &TableTemplateService{c: c}
	c.View = &ViewService{c: c}
	c.Schema = &SchemaService{c: c}
	c.File = &FileService{c: c}
	return c
}

// Close closes the client.
//
// You don't typically need to call this as the garbage collector will release
// the resources when the client is no longer referenced. However, it can be
// useful to call this if you want to release the resources immediately.
func (c *Client) Close() {
	c.http.Close()
}

// endpoint builds the full URL for a path under {endpoint}/api/{version}.
func (c *Client) endpoint(path string, query url.Values) (*url.URL, error) {
	version := c.config.APIVersion
	if version == "" {
		version = "v1"
	}
	u, err := url.Parse(strings.TrimRight(c.config.Endpoint, "/") + "/api/" + version + path)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u, err := c.endpoint(path, query)
	if err != nil {
		return err
	}
	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func (c *Client) post(ctx context.Context, path string, query url.Values, payload, out any) error {
	u, err := c.endpoint(path, query)
	if err != nil {
		return err
	}
	body, err := marshalPayload(payload)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(ctx, u, body)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func (c *Client) put(ctx context.Context, path string, query url.Values, payload, out any) error {
	u, err := c.endpoint(path, query)
	if err != nil {
		return err
	}
	body, err := marshalPayload(payload)
	if err != nil {
		return err
	}
	resp, err := c.http.Put(ctx, u, body)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func (c *Client) delete(ctx context.Context, path string, query url.Values, out any) error {
	u, err := c.endpoint(path, query)
	if err != nil {
		return err
	}
	resp, err := c.http.Delete(ctx, u)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func (c *Client) upload(ctx context.Context, path string, query url.Values, file string, fields map[string]string, out any) error {
	u, err := c.endpoint(path, query)
	if err != nil {
		return err
	}
	resp, err := c.http.Upload(ctx, u, file, fields)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func marshalPayload(payload any) ([]byte, error) {
	if payload == nil {
		return []byte{}, nil
	}
	return json.Marshal(payload)
}

func decodeResponse(resp *http.Response, out any) error {
	defer sneakyBodyClose(resp.Body)
	if err := checkStatusCodeOK(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
