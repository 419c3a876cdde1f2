package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"bookstore-checkout/internal/features/shipping/domain"
)

// OSRMRouter implements ports.Router using the OSRM route service.
type OSRMRouter struct {
	client  *http.Client
	baseURL string
}

// NewOSRMRouter creates a router over client.
func NewOSRMRouter(client *http.Client, baseURL string) *OSRMRouter {
	return &OSRMRouter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
	} `json:"routes"`
}

// Distance returns the driving distance in meters of the first route found.
func (r *OSRMRouter) Distance(ctx context.Context, from, to domain.Coordinates) (float64, error) {
	endpoint := fmt.Sprintf("%s/route/v1/driving/%s,%s;%s,%s?overview=false",
		r.baseURL,
		formatCoord(from.Lon), formatCoord(from.Lat),
		formatCoord(to.Lon), formatCoord(to.Lat),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || body.Code != "Ok" {
		return 0, fmt.Errorf("osrm returned status %d code %q: %s", resp.StatusCode, body.Code, body.Message)
	}
	if len(body.Routes) == 0 {
		return 0, fmt.Errorf("osrm returned no routes")
	}

	return body.Routes[0].Distance, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
