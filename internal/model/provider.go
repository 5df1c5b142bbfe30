package model

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

const defaultBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// Provider supplies model file bytes for an identity.
type Provider interface {
	Fetch(ctx context.Context, id Identity) (io.ReadCloser, error)
}

// HTTPProvider downloads models from an HTTP release tree.
type HTTPProvider struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPProvider returns a provider backed by the upstream whisper.cpp
// model repository.
func NewHTTPProvider() *HTTPProvider {
	return &HTTPProvider{
		BaseURL: defaultBaseURL,
		Client:  http.DefaultClient,
	}
}

// Fetch requests the model file and returns its body stream. The caller
// owns the returned reader.
func (p *HTTPProvider) Fetch(ctx context.Context, id Identity) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/%s", p.BaseURL, id.RemoteName())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building model request: %w", err)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading model %s: %w", id, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("downloading model %s: HTTP %d", id, resp.StatusCode)
	}

	return resp.Body, nil
}
