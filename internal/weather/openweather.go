// Package weather talks to the OpenWeatherMap current conditions API.
package weather

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/limbo/hydrobuddy/pkg/entity"
)

const defaultTimeout = 10 * time.Second

type OpenWeatherClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewOpenWeatherClient(baseURL, apiKey string) *OpenWeatherClient {
	return &OpenWeatherClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// WithHTTPClient replaces the default client, mainly for tests.
func (c *OpenWeatherClient) WithHTTPClient(client *http.Client) *OpenWeatherClient {
	c.client = client
	return c
}

type currentResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// Current fetches conditions in metric units for a city name or a "lat,lon" pair.
func (c *OpenWeatherClient) Current(ctx context.Context, location string) (*entity.Weather, error) {
	q := url.Values{}
	if lat, lon, ok := parseCoords(location); ok {
		q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
		q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	} else {
		q.Set("q", strings.TrimSpace(location))
	}
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.New("building weather request: " + err.Error())
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.New("weather request: " + err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New("reading weather response: " + err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New("weather api status " + strconv.Itoa(resp.StatusCode))
	}
	var parsed currentResponse
	if err := sonic.Unmarshal(body, &parsed); err != nil {
		return nil, errors.New("decoding weather response: " + err.Error())
	}
	if len(parsed.Weather) == 0 {
		return nil, errors.New("weather response has no conditions")
	}
	return &entity.Weather{
		TempC:       parsed.Main.Temp,
		HumidityPct: parsed.Main.Humidity,
		Description: parsed.Weather[0].Description,
		Icon:        parsed.Weather[0].Icon,
	}, nil
}

// parseCoords accepts "lat,lon" in decimal degrees within valid ranges.
func parseCoords(location string) (lat, lon float64, ok bool) {
	latStr, lonStr, found := strings.Cut(location, ",")
	if !found {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}
