package vecstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const (
	// Existence probes are cheap and should fail fast; writes and searches
	// carry whole batches.
	probeTimeout = 10 * time.Second
	opTimeout    = 60 * time.Second
)

const DistanceCosine = "Cosine"

// Point is one vector plus its metadata, keyed by the buffered record id so
// re-processing overwrites in place.
type Point struct {
	ID      int64                  `json:"id"`
	Vector  []float32              `json:"vector"`
	Payload map[string]interface{} `json:"payload"`
}

type SearchHit struct {
	ID      int64                  `json:"id"`
	Score   float64                `json:"score"`
	Payload map[string]interface{} `json:"payload"`
}

// Client talks to a qdrant-compatible vector index over its REST surface.
type Client struct {
	baseURL string
	client  *http.Client
}

func New(host string, port int) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://%s:%d", host, port),
		client:  &http.Client{},
	}
}

func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

func (c *Client) Exists(ctx context.Context, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/collections/"+name, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK, nil
}

// EnsureCollection checks existence first and creates the collection when
// absent. The check-then-create is not atomic against concurrent callers;
// a lost race surfaces as a conflict on create, which is treated as
// success.
func (c *Client) EnsureCollection(ctx context.Context, name string, vectorSize int, distance string) error {
	exists, err := c.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if distance == "" {
		distance = DistanceCosine
	}
	body := map[string]interface{}{
		"vectors": map[string]interface{}{
			"size":     vectorSize,
			"distance": distance,
		},
	}
	status, respBody, err := c.do(ctx, http.MethodPut, "/collections/"+name, body, opTimeout)
	if err != nil {
		return err
	}
	if status == http.StatusOK || status == http.StatusCreated {
		return nil
	}
	if status == http.StatusConflict || strings.Contains(string(respBody), "already exists") {
		logutil.GetLogger(ctx).Debug("collection already exists", zap.String("collection", name))
		return nil
	}
	return fmt.Errorf("create collection %s: status %d: %s", name, status, strings.TrimSpace(string(respBody)))
}

// Upsert overwrites points by id. Partial batch failure is reported as an
// error for the whole batch.
func (c *Client) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	body := map[string]interface{}{"points": points}
	status, respBody, err := c.do(ctx, http.MethodPut, "/collections/"+collection+"/points?wait=true", body, opTimeout)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusAccepted {
		return fmt.Errorf("upsert into %s: status %d: %s", collection, status, strings.TrimSpace(string(respBody)))
	}
	return nil
}

type searchResponse struct {
	Result []SearchHit `json:"result"`
}

// Search returns the ranked nearest neighbours. A missing collection yields
// an empty result set rather than an error so search and chat degrade
// gracefully.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, limit int) ([]SearchHit, error) {
	exists, err := c.Exists(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []SearchHit{}, nil
	}
	if limit <= 0 {
		limit = 5
	}
	body := map[string]interface{}{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	status, respBody, err := c.do(ctx, http.MethodPost, "/collections/"+collection+"/points/search", body, opTimeout)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("search %s: status %d: %s", collection, status, strings.TrimSpace(string(respBody)))
	}
	var out searchResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	if out.Result == nil {
		return []SearchHit{}, nil
	}
	return out.Result, nil
}

func (c *Client) DeletePoints(ctx context.Context, collection string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	body := map[string]interface{}{"points": ids}
	status, respBody, err := c.do(ctx, http.MethodPost, "/collections/"+collection+"/points/delete?wait=true", body, opTimeout)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusAccepted {
		return fmt.Errorf("delete points from %s: status %d: %s", collection, status, strings.TrimSpace(string(respBody)))
	}
	return nil
}

type collectionsResponse struct {
	Result struct {
		Collections []struct {
			Name string `json:"name"`
		} `json:"collections"`
	} `json:"result"`
}

// Health lists collections as a liveness probe and returns their count.
func (c *Client) Health(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/collections", nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("vector index health: status %d", resp.StatusCode)
	}
	var out collectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	return len(out.Result.Collections), nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, timeout time.Duration) (int, []byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, respBody, nil
}
