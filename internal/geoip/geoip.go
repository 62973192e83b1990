package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Resolver turns an IP address into a human-readable location. Lookups are
// best-effort: callers treat an error the same as an empty result.
type Resolver interface {
	Lookup(ctx context.Context, ip string) (string, error)
}

// IPAPIResolver queries ip-api.com.
type IPAPIResolver struct {
	BaseURL string
	Client  *http.Client
}

func NewIPAPIResolver() *IPAPIResolver {
	return &IPAPIResolver{
		BaseURL: "http://ip-api.com",
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (r *IPAPIResolver) Lookup(ctx context.Context, ip string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/json/%s", r.BaseURL, ip), nil)
	if err != nil {
		return "", err
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var data struct {
		Status     string `json:"status"`
		City       string `json:"city"`
		RegionName string `json:"regionName"`
		Country    string `json:"country"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", err
	}
	if data.Status != "success" {
		return "", fmt.Errorf("ip lookup failed for %s", ip)
	}
	return fmt.Sprintf("%s, %s, %s", data.City, data.RegionName, data.Country), nil
}
