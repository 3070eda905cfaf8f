package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultOllamaBaseURL = "http://ollama:11434"

const embedTimeout = 60 * time.Second

type ollamaConfig struct {
	BaseURL string `json:"base_url"`
}

type ollamaEmbedProvider struct {
	baseURL string
	client  *http.Client
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (p *ollamaEmbedProvider) Name() string {
	return "ollama"
}

func (p *ollamaEmbedProvider) Embed(ctx context.Context, model string, text string, taskType string) ([]float32, error) {
	endpoint := strings.TrimRight(p.baseURL, "/") + "/api/embeddings"
	data, err := json.Marshal(ollamaEmbedRequest{Model: model, Prompt: text})
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	var out ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("ollama response has no embedding")
	}
	return out.Embedding, nil
}

func createOllamaEmbedFactory(args interface{}) (IEmbedProvider, error) {
	cfg := &ollamaConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	return &ollamaEmbedProvider{
		baseURL: baseURL,
		client:  &http.Client{},
	}, nil
}

func init() {
	RegisterEmbed("ollama", createOllamaEmbedFactory)
}

// GenChunk is one decoded fragment of a streamed generation response.
// HasResponse records whether the upstream chunk carried a response field
// at all; the final done chunk carries an empty one and is still relayed.
type GenChunk struct {
	Response    string
	HasResponse bool
	Done        bool
	Err         error
}

// Generator streams completions from an ollama-compatible generation
// endpoint. Streaming uses no hard deadline since answer length is
// unbounded; the caller's context cancels the upstream request.
type Generator struct {
	baseURL string
	client  *http.Client
}

func NewGenerator(baseURL string) *Generator {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = defaultOllamaBaseURL
	}
	return &Generator{
		baseURL: url,
		client:  &http.Client{},
	}
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateChunk struct {
	Response *string `json:"response"`
	Done     bool    `json:"done"`
}

// Stream starts a generation request and relays decoded chunks on the
// returned channel. Connection and status errors are reported
// synchronously; mid-stream failures arrive as a chunk with Err set. The
// channel is closed on all exit paths.
func (g *Generator) Stream(ctx context.Context, model string, prompt string) (<-chan GenChunk, error) {
	endpoint := strings.TrimRight(g.baseURL, "/") + "/api/generate"
	data, err := json.Marshal(ollamaGenerateRequest{Model: model, Prompt: prompt, Stream: true})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	out := make(chan GenChunk, 16)
	go func() {
		defer close(out)
		defer resp.Body.Close()
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			var chunk ollamaGenerateChunk
			if err := json.Unmarshal(line, &chunk); err != nil {
				// Malformed chunks are skipped, not fatal.
				continue
			}
			relayed := GenChunk{Done: chunk.Done}
			if chunk.Response != nil {
				relayed.Response = *chunk.Response
				relayed.HasResponse = true
			}
			select {
			case out <- relayed:
			case <-ctx.Done():
				return
			}
			if chunk.Done {
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			select {
			case out <- GenChunk{Err: err}:
			case <-ctx.Done():
			}
		}
	}()
	return out, nil
}
