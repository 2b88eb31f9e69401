// pkg/heightmap/remote.go
package heightmap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

const DefaultStaticMapURL = "https://maps.googleapis.com/maps/api/staticmap"

// Remote describes a static map tile rendered as a terrain image: dark geometry,
// no labels, so intensity tracks elevation.
type Remote struct {
	BaseURL string
	Key     string
	Width   int
	Height  int
	Center  string // "lat,lon"
	Zoom    int
	MapType string
	Styles  []string

	Client *http.Client
}

// DefaultStyles match the terrain rendering the elevation decode expects.
var DefaultStyles = []string{
	"element:geometry|color:0x000000",
	"element:labels|visibility:off",
	"element:labels.icon|visibility:off",
}

// URL builds the tile request.
func (r Remote) URL() (string, error) {
	base := r.BaseURL
	if base == "" {
		base = DefaultStaticMapURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid static map url: %w", err)
	}
	mapType := r.MapType
	if mapType == "" {
		mapType = "terrain"
	}
	styles := r.Styles
	if styles == nil {
		styles = DefaultStyles
	}

	q := u.Query()
	q.Set("size", fmt.Sprintf("%dx%d", r.Width, r.Height))
	q.Set("center", r.Center)
	if r.Key != "" {
		q.Set("key", r.Key)
	}
	q.Set("zoom", strconv.Itoa(r.Zoom))
	q.Set("maptype", mapType)
	for _, s := range styles {
		q.Add("style", s)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// CacheKey identifies the tile independently of the API key.
func (r Remote) CacheKey(maxHeight float64) string {
	return fmt.Sprintf("tile-%s-%dx%d-z%d-%s-%g", r.Center, r.Width, r.Height, r.Zoom, r.MapType, maxHeight)
}

// Fetch downloads and decodes the tile.
func (r Remote) Fetch(ctx context.Context, maxHeight float64) (*Field, error) {
	u, err := r.URL()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tile request: %w", err)
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
	return Decode(resp.Body, maxHeight)
}
