// Package platform hides the Steam client behind two narrow seams: a name
// resolver used by the supervising session and a handshake used by the
// headless child. Neither models the client's session protocol.
package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/singleboostr/boostr/internal/appid"
)

// DefaultStoreURL is the public store endpoint queried for app details.
const DefaultStoreURL = "https://store.steampowered.com"

// Resolver turns an identifier into a display name. Implementations never
// fail: on any error they return Placeholder(id).
type Resolver interface {
	Resolve(ctx context.Context, id appid.ID) string
}

// Placeholder is the display name used when resolution fails.
func Placeholder(id appid.ID) string {
	return fmt.Sprintf("Unknown(Identifier_%d)", id)
}

// StaticResolver resolves from a fixed table. Used offline and in tests.
type StaticResolver map[appid.ID]string

// Resolve implements Resolver.
func (s StaticResolver) Resolve(_ context.Context, id appid.ID) string {
	if name := strings.TrimSpace(s[id]); name != "" {
		return name
	}
	return Placeholder(id)
}

// StoreResolver looks names up through the store app-details endpoint.
type StoreResolver struct {
	BaseURL string
	Client  *http.Client
	Logger  *log.Logger
}

// NewStoreResolver returns a resolver bounded by timeout per lookup.
func NewStoreResolver(baseURL string, timeout time.Duration, logger *log.Logger) *StoreResolver {
	if baseURL == "" {
		baseURL = DefaultStoreURL
	}
	return &StoreResolver{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

type appDetails struct {
	Success bool `json:"success"`
	Data    struct {
		Name string `json:"name"`
	} `json:"data"`
}

// Resolve implements Resolver.
func (s *StoreResolver) Resolve(ctx context.Context, id appid.ID) string {
	name, err := s.lookup(ctx, id)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Debug("name lookup failed", "appid", id, "err", err)
		}
		return Placeholder(id)
	}
	return name
}

func (s *StoreResolver) lookup(ctx context.Context, id appid.ID) (string, error) {
	q := url.Values{}
	q.Set("appids", id.String())
	q.Set("filters", "basic")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/api/appdetails?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("store returned %s", resp.Status)
	}

	var body map[string]appDetails
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode store response: %w", err)
	}

	details, ok := body[id.String()]
	if !ok || !details.Success {
		return "", fmt.Errorf("store has no details for %d", id)
	}

	name := strings.TrimSpace(details.Data.Name)
	if name == "" {
		return "", fmt.Errorf("store returned an empty name for %d", id)
	}
	return name, nil
}
