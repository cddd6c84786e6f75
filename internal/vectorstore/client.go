package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client communicates with the external embedding/vector-store HTTP API.
// The store owns embeddings and similarity search; this service only ships
// chunk records in and reads search hits and document text back out.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// RetryableError marks store failures worth retrying (throttling, 5xx).
type RetryableError struct {
	StatusCode int
	Msg        string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("vectorstore: status %d: %s", e.StatusCode, e.Msg)
}

// DocumentRecord is the stored document metadata plus its immutable full
// text, kept so citation resolution can fetch the exact text that was
// chunked.
type DocumentRecord struct {
	DocID       string `json:"doc_id"`
	Title       string `json:"title,omitempty"`
	FullText    string `json:"full_text"`
	ContentHash string `json:"content_hash"`
	ChunkCount  int    `json:"chunk_count"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// ChunkRecord is one chunk plus the metadata the store attaches to its
// embedding.
type ChunkRecord struct {
	ID            string `json:"id"`
	DocID         string `json:"doc_id"`
	ChunkIndex    int    `json:"chunk_index"`
	Text          string `json:"text"`
	StartChar     int    `json:"original_start_char"`
	EndChar       int    `json:"original_end_char"`
	ContextBefore string `json:"context_before,omitempty"`
	ContextAfter  string `json:"context_after,omitempty"`
	PageNumber    int    `json:"page_number,omitempty"`
	SectionTitle  string `json:"section_title,omitempty"`
	ChunkType     string `json:"chunk_type,omitempty"`
}

// SearchHit is one retrieved chunk from a similarity search.
type SearchHit struct {
	ChunkIndex    int     `json:"chunk_index"`
	Text          string  `json:"text"`
	ContextBefore string  `json:"context_before,omitempty"`
	ContextAfter  string  `json:"context_after,omitempty"`
	PageNumber    int     `json:"page_number,omitempty"`
	SectionTitle  string  `json:"section_title,omitempty"`
	Score         float64 `json:"score"`
}

// DocumentInfo is a listing entry.
type DocumentInfo struct {
	DocID       string `json:"doc_id"`
	Title       string `json:"title,omitempty"`
	ContentHash string `json:"content_hash,omitempty"`
	ChunkCount  int    `json:"chunk_count"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// PutDocument stores or replaces a document record.
func (c *Client) PutDocument(ctx context.Context, rec DocumentRecord) error {
	return c.send(ctx, http.MethodPut, "/api/v1/documents/"+url.PathEscape(rec.DocID), rec, nil)
}

// UpsertChunks ships a batch of chunk records for embedding and storage.
func (c *Client) UpsertChunks(ctx context.Context, docID string, records []ChunkRecord) error {
	body := map[string]any{"chunks": records}
	return c.send(ctx, http.MethodPost, "/api/v1/documents/"+url.PathEscape(docID)+"/chunks", body, nil)
}

// Search runs a similarity query scoped to one document.
func (c *Client) Search(ctx context.Context, docID, query string, topK int) ([]SearchHit, error) {
	path := "/api/v1/documents/" + url.PathEscape(docID) + "/search?q=" + url.QueryEscape(query)
	if topK > 0 {
		path += "&top_k=" + strconv.Itoa(topK)
	}
	var resp struct {
		Hits []SearchHit `json:"hits"`
	}
	if err := c.send(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Hits, nil
}

// DocumentText fetches the stored full text for a document. Returns "" with
// no error when the document is unknown.
func (c *Client) DocumentText(ctx context.Context, docID string) (string, error) {
	var resp struct {
		FullText string `json:"full_text"`
	}
	err := c.send(ctx, http.MethodGet, "/api/v1/documents/"+url.PathEscape(docID)+"/text", nil, &resp)
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return resp.FullText, nil
}

// ListDocuments returns up to limit stored documents.
func (c *Client) ListDocuments(ctx context.Context, limit int) ([]DocumentInfo, error) {
	path := "/api/v1/documents"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var resp struct {
		Documents []DocumentInfo `json:"documents"`
	}
	if err := c.send(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// DeleteDocument removes a document and all of its chunks.
func (c *Client) DeleteDocument(ctx context.Context, docID string) error {
	err := c.send(ctx, http.MethodDelete, "/api/v1/documents/"+url.PathEscape(docID), nil, nil)
	if isNotFound(err) {
		return nil
	}
	return err
}

// FindByContentHash returns the doc ID already stored for a content hash,
// or "" when none exists.
func (c *Client) FindByContentHash(ctx context.Context, hash string) (string, error) {
	var resp struct {
		DocID string `json:"doc_id"`
	}
	err := c.send(ctx, http.MethodGet, "/api/v1/documents/by_hash/"+url.PathEscape(hash), nil, &resp)
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return resp.DocID, nil
}

// notFoundError distinguishes 404s so callers can treat them as absence.
type notFoundError struct{ path string }

func (e *notFoundError) Error() string {
	return fmt.Sprintf("vectorstore: not found: %s", e.path)
}

func isNotFound(err error) bool {
	_, ok := err.(*notFoundError)
	return ok
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &notFoundError{path: path}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &RetryableError{StatusCode: resp.StatusCode, Msg: string(respBody)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
