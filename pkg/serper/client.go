// Package serper wraps the Serper Maps search API used for business discovery.
package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://google.serper.dev"

// Client performs Serper API operations.
type Client interface {
	SearchMaps(ctx context.Context, query string, coords Coordinates, pages int) ([]Place, error)
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Place represents one business returned by the Maps search.
type Place struct {
	Title       string   `json:"title"`
	Address     string   `json:"address"`
	Website     string   `json:"website"`
	PhoneNumber string   `json:"phoneNumber"`
	Description string   `json:"description"`
	Rating      float64  `json:"rating"`
	RatingCount int      `json:"ratingCount"`
	Type        string   `json:"type"`
	Types       []string `json:"types"`
}

type pageResponse struct {
	Places []Place `json:"places"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Serper API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type mapsRequest struct {
	Q    string `json:"q"`
	LL   string `json:"ll"`
	Page int    `json:"page"`
}

// SearchMaps searches businesses around coords, requesting up to pages pages
// of 20 results each. The API accepts an array payload with one entry per
// page and answers with one result object per entry.
func (c *httpClient) SearchMaps(ctx context.Context, query string, coords Coordinates, pages int) ([]Place, error) {
	if pages < 1 {
		pages = 1
	}

	payload := make([]mapsRequest, 0, pages)
	ll := fmt.Sprintf("@%f,%f,13z", coords.Lat, coords.Lon)
	for page := 1; page <= pages; page++ {
		payload = append(payload, mapsRequest{Q: query, LL: ll, Page: page})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "serper: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/maps", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "serper: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "serper: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "serper: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("serper: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var pagesResp []pageResponse
	if err := json.Unmarshal(respBody, &pagesResp); err != nil {
		// Single-page requests may come back as a bare object.
		var single pageResponse
		if err2 := json.Unmarshal(respBody, &single); err2 != nil {
			return nil, eris.Wrap(err, "serper: unmarshal response")
		}
		pagesResp = []pageResponse{single}
	}

	var places []Place
	for _, p := range pagesResp {
		places = append(places, p.Places...)
	}
	return places, nil
}
