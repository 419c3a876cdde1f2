package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bookstore-checkout/internal/features/shipping/domain"
	"bookstore-checkout/internal/features/shipping/ports"
)

// UserAgent identifies this service to the public OSM endpoints, which reject anonymous clients.
const UserAgent = "BookstoreCheckoutSystem"

// NominatimGeocoder implements ports.Geocoder using the Nominatim search API.
type NominatimGeocoder struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// baseURL is the Nominatim root, e.g. https://nominatim.openstreetmap.org.
	baseURL string
}

// NewNominatimGeocoder creates a geocoder over client.
func NewNominatimGeocoder(client *http.Client, baseURL string) *NominatimGeocoder {
	return &NominatimGeocoder{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves query to the coordinates of the best match.
func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (domain.Coordinates, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, fmt.Errorf("nominatim returned status: %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.Coordinates{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(places) == 0 {
		return domain.Coordinates{}, fmt.Errorf("%w: %q", ports.ErrNoResults, query)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid longitude %q: %w", places[0].Lon, err)
	}

	return domain.Coordinates{Lat: lat, Lon: lon}, nil
}
