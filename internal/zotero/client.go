// Package zotero is a minimal client for the Zotero Web API v3, scoped to
// what reading-list sync needs: tag-filtered item listing, single-item reads,
// version-conditional writes and deletes, child-note access, batch creation,
// and the library tag listing.
package zotero

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	apiVersion = "3"

	// DefaultBaseURL is the hosted API endpoint.
	DefaultBaseURL = "https://api.zotero.org"

	// pageSize is the fixed page size on listing endpoints. A page shorter
	// than this signals the last page.
	pageSize = 100
)

// Config carries what the client needs to reach one user library.
type Config struct {
	// BaseURL overrides the hosted endpoint. Empty means DefaultBaseURL.
	BaseURL string

	// UserID is the numeric library identifier.
	UserID string

	// APIKey authenticates every request.
	APIKey string

	// HTTPClient optionally replaces the transport. Defaults to a client
	// with a 30 second timeout.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client talks to one user library over the versioned HTTP API.
type Client struct {
	baseURL string
	userID  string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// New validates cfg and returns a ready client.
func New(cfg Config) (*Client, error) {
	if cfg.UserID == "" {
		return nil, fmt.Errorf("library user ID is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("library API key is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL: strings.TrimSuffix(base, "/"),
		userID:  cfg.UserID,
		apiKey:  cfg.APIKey,
		http:    httpClient,
		logger:  logger,
	}, nil
}

// ItemsByTag lists every top-level item carrying tag, walking pages until a
// short page. With excludeNotes set, standalone notes are filtered out
// server-side.
func (c *Client) ItemsByTag(ctx context.Context, tag string, excludeNotes bool) ([]Item, error) {
	var all []Item
	for start := 0; ; start += pageSize {
		q := url.Values{
			"tag":   {tag},
			"start": {strconv.Itoa(start)},
			"limit": {strconv.Itoa(pageSize)},
		}
		if excludeNotes {
			q.Set("itemType", "-note")
		}
		var page []Item
		if err := c.do(ctx, http.MethodGet, c.userPath("/items"), q, nil, nil, &page); err != nil {
			return nil, fmt.Errorf("failed to list items tagged %q: %w", tag, err)
		}
		all = append(all, page...)
		c.logger.Debug("fetched item page", "tag", tag, "start", start, "count", len(page))
		if len(page) < pageSize {
			return all, nil
		}
	}
}

// Item fetches a single item with its current version.
func (c *Client) Item(ctx context.Context, key string) (Item, error) {
	var item Item
	if err := c.do(ctx, http.MethodGet, c.userPath("/items/"+key), nil, nil, nil, &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// UpdateItem replaces the item's whole data object, conditional on version.
// A stale version surfaces as *RemoteConflictError; the caller never retries
// automatically.
func (c *Client) UpdateItem(ctx context.Context, key string, version int64, data ItemData) error {
	err := c.do(ctx, http.MethodPut, c.userPath("/items/"+key), nil, ifUnmodified(version), data, nil)
	return conflictOr(err, key, version)
}

// DeleteItem removes the item, conditional on version.
func (c *Client) DeleteItem(ctx context.Context, key string, version int64) error {
	err := c.do(ctx, http.MethodDelete, c.userPath("/items/"+key), nil, ifUnmodified(version), nil, nil)
	return conflictOr(err, key, version)
}

// Children lists the item's child items of one type, or all of them when
// itemType is empty.
func (c *Client) Children(ctx context.Context, parentKey, itemType string) ([]Item, error) {
	var all []Item
	for start := 0; ; start += pageSize {
		q := url.Values{
			"start": {strconv.Itoa(start)},
			"limit": {strconv.Itoa(pageSize)},
		}
		if itemType != "" {
			q.Set("itemType", itemType)
		}
		var page []Item
		if err := c.do(ctx, http.MethodGet, c.userPath("/items/"+parentKey+"/children"), q, nil, nil, &page); err != nil {
			return nil, fmt.Errorf("failed to list children of %s: %w", parentKey, err)
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

// writeFailure is one rejected entry of a multi-object write.
type writeFailure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeResponse is the multi-object write envelope: per-index maps of what
// was written, what was already current, and what was rejected.
type writeResponse struct {
	Successful map[string]Item            `json:"successful"`
	Unchanged  map[string]json.RawMessage `json:"unchanged"`
	Failed     map[string]writeFailure    `json:"failed"`
}

// CreateItems posts new items as one batch. The API accepts the batch with
// 200 even when individual entries are rejected, so per-entry failures are
// collected into the returned error.
func (c *Client) CreateItems(ctx context.Context, items []ItemData) error {
	var resp writeResponse
	if err := c.do(ctx, http.MethodPost, c.userPath("/items"), nil, nil, items, &resp); err != nil {
		return fmt.Errorf("failed to create items: %w", err)
	}
	var errs []error
	for idx, f := range resp.Failed {
		errs = append(errs, fmt.Errorf("item %s rejected: %s (code %d)", idx, f.Message, f.Code))
	}
	return errors.Join(errs...)
}

// Tags lists every tag in the library, walking pages until a short page.
func (c *Client) Tags(ctx context.Context) ([]Tag, error) {
	var all []Tag
	for start := 0; ; start += pageSize {
		q := url.Values{
			"start": {strconv.Itoa(start)},
			"limit": {strconv.Itoa(pageSize)},
		}
		var page []Tag
		if err := c.do(ctx, http.MethodGet, c.userPath("/tags"), q, nil, nil, &page); err != nil {
			return nil, fmt.Errorf("failed to list tags: %w", err)
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

// ChildNotes lists the item's child notes.
func (c *Client) ChildNotes(ctx context.Context, parentKey string) ([]Item, error) {
	return c.Children(ctx, parentKey, "note")
}

// UpdateNote rewrites one note, conditional on version.
func (c *Client) UpdateNote(ctx context.Context, key string, version int64, data ItemData) error {
	return c.UpdateItem(ctx, key, version, data)
}

// DeleteNote removes one note, conditional on version.
func (c *Client) DeleteNote(ctx context.Context, key string, version int64) error {
	return c.DeleteItem(ctx, key, version)
}

// CreateNote creates a single child note.
func (c *Client) CreateNote(ctx context.Context, data ItemData) error {
	return c.CreateItems(ctx, []ItemData{data})
}

func (c *Client) userPath(suffix string) string {
	return "/users/" + c.userID + suffix
}

// do executes one request with the API headers set and decodes a JSON
// response into out when out is non-nil. Non-2xx responses come back as
// *RemoteRequestError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, headers map[string]string, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Zotero-API-Version", apiVersion)
	req.Header.Set("Zotero-API-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach library API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteRequestError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       truncateBody(data),
		}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

func ifUnmodified(version int64) map[string]string {
	return map[string]string{"If-Unmodified-Since-Version": strconv.FormatInt(version, 10)}
}

// conflictOr rewrites a 412 response into *RemoteConflictError, leaving
// every other outcome alone.
func conflictOr(err error, key string, version int64) error {
	var rerr *RemoteRequestError
	if errors.As(err, &rerr) && rerr.StatusCode == http.StatusPreconditionFailed {
		return &RemoteConflictError{Key: key, Version: version}
	}
	return err
}

func truncateBody(data []byte) string {
	const max = 256
	s := strings.TrimSpace(string(data))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
