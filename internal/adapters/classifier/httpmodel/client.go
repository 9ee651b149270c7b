package httpmodel

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"plant-disease-history/internal/platform/httpclient"
	"plant-disease-history/internal/ports/classifier"
)

var ErrUpstream = errors.New("classifier upstream error")

const predictPath = "/v1/predict"

// Config del servicio de inferencia.
type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

// Client implementa classifier.Predictor contra un servicio HTTP que recibe la foto
// como multipart ("file") y responde {label, confidence, advice, health_status}.
type Client struct {
	http *httpclient.Client
}

// NewClient devuelve nil si no hay BaseURL: el router lo trata como modelo no disponible.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, nil
	}

	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		header := strings.TrimSpace(cfg.APIKeyHeader)
		if header == "" {
			header = "X-Api-Key"
		}
		hc.Headers = map[string]string{header: key}
	}

	return &Client{http: hc}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != ""
}

type predictResponse struct {
	Label        string   `json:"label"`
	Confidence   *float64 `json:"confidence"`
	Advice       string   `json:"advice"`
	HealthStatus string   `json:"health_status"`
}

func (c *Client) Predict(ctx context.Context, img classifier.Image) (classifier.Prediction, error) {
	if !c.IsConfigured() {
		return classifier.Prediction{}, classifier.ErrUnavailable
	}

	var out predictResponse
	err := c.http.PostFile(ctx, predictPath, nil, httpclient.File{
		Field:       "file",
		Name:        path.Base(img.Path),
		ContentType: img.ContentType,
		Data:        img.Data,
	}, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == 503 {
			return classifier.Prediction{}, fmt.Errorf("%w: %v", classifier.ErrUnavailable, err)
		}
		return classifier.Prediction{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if strings.TrimSpace(out.Label) == "" || out.Confidence == nil {
		return classifier.Prediction{}, fmt.Errorf("%w: incomplete response", ErrUpstream)
	}

	return classifier.Prediction{
		Label:        out.Label,
		Confidence:   *out.Confidence,
		Advice:       out.Advice,
		HealthStatus: out.HealthStatus,
	}, nil
}
