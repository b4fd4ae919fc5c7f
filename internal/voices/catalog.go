package voices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

// CatalogConfig configures the remote voice catalog client.
type CatalogConfig struct {
	// BaseURL is the catalog API root. Defaults to the hosted service.
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	RetryDelay time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// CatalogClient fetches voice profiles from an ElevenLabs-shaped API,
// falling back to the static roster when the service is unreachable.
type CatalogClient struct {
	cfg    CatalogConfig
	client *http.Client
	logger *slog.Logger
}

// NewCatalogClient builds a client, filling zero-valued config fields with
// defaults.
func NewCatalogClient(cfg CatalogConfig) *CatalogClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.elevenlabs.io/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogClient{cfg: cfg, client: client, logger: logger}
}

// voicesResponse mirrors the catalog listing payload.
type voicesResponse struct {
	Voices []struct {
		VoiceID    string            `json:"voice_id"`
		Name       string            `json:"name"`
		Labels     map[string]string `json:"labels"`
		PreviewURL string            `json:"preview_url"`
	} `json:"voices"`
}

// Fetch lists the remote catalog. On any transport or decode failure the
// static DefaultCatalog is returned along with the error, so callers can
// proceed while logging the degradation.
func (c *CatalogClient) Fetch(ctx context.Context) ([]VoiceProfile, error) {
	var profiles []VoiceProfile
	err := retry.Do(
		func() error {
			var err error
			profiles, err = c.fetchOnce(ctx)
			return err
		},
		retry.Attempts(uint(c.cfg.MaxRetries+1)),
		retry.Delay(c.cfg.RetryDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("voice catalog fetch retry", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		c.logger.Warn("voice catalog unreachable, using static roster", "error", err)
		return DefaultCatalog(), fmt.Errorf("fetching voice catalog: %w", err)
	}
	return profiles, nil
}

func (c *CatalogClient) fetchOnce(ctx context.Context) ([]VoiceProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("xi-api-key", c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("catalog returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding catalog response: %w", err)
	}

	profiles := make([]VoiceProfile, 0, len(payload.Voices))
	for _, v := range payload.Voices {
		p := VoiceProfile{
			ID:        v.VoiceID,
			Name:      v.Name,
			Gender:    v.Labels["gender"],
			AgeRange:  v.Labels["age"],
			SampleRef: v.PreviewURL,
		}
		if accent := v.Labels["accent"]; accent != "" {
			p.AccentTags = []string{accent}
		}
		if uc := v.Labels["use_case"]; uc != "" {
			p.UseCaseTags = []string{uc}
		}
		profiles = append(profiles, p)
	}
	c.logger.Debug("voice catalog fetched", "count", len(profiles))
	return profiles, nil
}
