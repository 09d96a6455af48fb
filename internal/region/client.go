// internal/region/client.go
package region

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Place is one node of the upstream administrative hierarchy. Parent ids are
// only present on the levels that have them.
type Place struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProvinceID string `json:"province_id,omitempty"`
	RegencyID  string `json:"regency_id,omitempty"`
	DistrictID string `json:"district_id,omitempty"`
}

// Client talks to the static region JSON API. Lookups carry a bounded
// timeout so a slow upstream degrades a request instead of hanging it.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Get(ctx context.Context, path string) (*Place, error) {
	var place Place
	if err := c.getJSON(ctx, path, &place); err != nil {
		return nil, err
	}
	return &place, nil
}

func (c *Client) List(ctx context.Context, path string) ([]Place, error) {
	var places []Place
	if err := c.getJSON(ctx, path, &places); err != nil {
		return nil, err
	}
	return places, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("region lookup %s: unexpected status %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
