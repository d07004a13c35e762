package ocr

import (
	"net/http"
	"time"
)

const defaultHTTPTimeout = 60 * time.Second

type httpOptions struct {
	endpoint string
	client   *http.Client
}

// HTTPOption configures a REST-backed provider
type HTTPOption func(*httpOptions)

// WithEndpoint overrides the provider's API URL
func WithEndpoint(url string) HTTPOption {
	return func(o *httpOptions) {
		o.endpoint = url
	}
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(o *httpOptions) {
		o.client = client
	}
}

func buildHTTPOptions(defaultEndpoint string, opts []HTTPOption) httpOptions {
	o := httpOptions{
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
