package ai

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"

func init() {
	Register("gemini", createGeminiEmbedder)
}

func createGeminiEmbedder(cfg Config) (IEmbedder, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	model := strings.TrimPrefix(strings.TrimSpace(cfg.Model), "models/")
	if model == "" {
		model = "embedding-001"
	}
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = defaultGeminiEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &geminiEmbedder{
		model: model,
		transports: []embedTransport{
			newHTTPTransport(endpoint, model, apiKey, cfg.Dimensions, timeout),
			&sdkTransport{apiKey: apiKey, model: model, dims: cfg.Dimensions},
		},
	}, nil
}

type embedTransport interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float32, error)
}

// geminiEmbedder tries its transports in order and only fails when every
// one of them does, folding all causes into a single ErrUnavailable.
type geminiEmbedder struct {
	model      string
	transports []embedTransport
}

func (e *geminiEmbedder) ModelName() string {
	return e.model
}

func (e *geminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var errs []error
	for _, transport := range e.transports {
		values, err := transport.Embed(ctx, text)
		if err == nil {
			return values, nil
		}
		logutil.GetLogger(ctx).Warn("embed transport failed",
			zap.String("transport", transport.Name()),
			zap.Error(err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", transport.Name(), err))
	}
	return nil, fmt.Errorf("%w: %v", ErrUnavailable, errors.Join(errs...))
}

type httpTransport struct {
	endpoint string
	model    string
	apiKey   string
	dims     int
	client   *http.Client
}

func newHTTPTransport(endpoint, model, apiKey string, dims int, timeout time.Duration) *httpTransport {
	// Certificate chain verification is off for this deployment; the
	// service runs behind middleboxes that re-sign upstream TLS.
	return &httpTransport{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		dims:     dims,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

func (t *httpTransport) Name() string {
	return "http"
}

type embedContentRequest struct {
	Model   string       `json:"model"`
	Content embedContent `json:"content"`
}

type embedContent struct {
	Parts []embedPart `json:"parts"`
}

type embedPart struct {
	Text string `json:"text"`
}

type embedContentResponse struct {
	Embedding *struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

func (t *httpTransport) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := embedContentRequest{
		Model: "models/" + t.model,
		Content: embedContent{
			Parts: []embedPart{{Text: text}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	reqURL := fmt.Sprintf("%s/models/%s:embedContent?key=%s", t.endpoint, t.model, url.QueryEscape(t.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet(data))
	}
	var parsed embedContentResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if parsed.Embedding == nil || len(parsed.Embedding.Values) == 0 {
		return nil, fmt.Errorf("%w: missing embedding.values: %s", ErrInvalidResponse, snippet(data))
	}
	if t.dims > 0 && len(parsed.Embedding.Values) != t.dims {
		return nil, fmt.Errorf("%w: got %d values, want %d", ErrInvalidResponse, len(parsed.Embedding.Values), t.dims)
	}
	return parsed.Embedding.Values, nil
}

func snippet(data []byte) string {
	const max = 256
	s := strings.TrimSpace(string(data))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// sdkTransport issues the same embed request through the genai client.
type sdkTransport struct {
	apiKey string
	model  string
	dims   int
}

func (t *sdkTransport) Name() string {
	return "sdk"
}

func (t *sdkTransport) Embed(ctx context.Context, text string) ([]float32, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  t.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	resp, err := client.Models.EmbedContent(
		ctx,
		t.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: text}}}},
		nil,
	)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("%w: no embedding values returned", ErrInvalidResponse)
	}
	values := resp.Embeddings[0].Values
	if t.dims > 0 && len(values) != t.dims {
		return nil, fmt.Errorf("%w: got %d values, want %d", ErrInvalidResponse, len(values), t.dims)
	}
	return values, nil
}
