package client

import (
	"context"
	"net/url"
	"strconv"
	"time"

	apperrors "parkade/pkg/errors"
	"parkade/pkg/model"
)

// GeocoderClient talks to an external forward-geocoding API that answers
// `GET /search?q=<address>` with a JSON array of candidates carrying
// string lat/lon fields. The first candidate wins.
type GeocoderClient struct {
	http   *HttpClient
	apiKey string
}

func NewGeocoderClient(baseURL, apiKey string, timeout time.Duration) *GeocoderClient {
	return &GeocoderClient{
		http:   NewHttpClient(baseURL, timeout),
		apiKey: apiKey,
	}
}

type geocodeCandidate struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *GeocoderClient) Geocode(ctx context.Context, address string) (*model.Coordinates, error) {
	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "json")
	if c.apiKey != "" {
		query.Set("api_key", c.apiKey)
	}

	resp, err := c.http.GET(ctx, "/search?"+query.Encode())
	if err != nil {
		return nil, apperrors.UnavailableWrap("geocoder", err)
	}
	if !isSuccess(resp) {
		return nil, apperrors.Unavailable("geocoder")
	}

	var candidates []geocodeCandidate
	if err := resp.DecodeJSON(&candidates); err != nil {
		return nil, apperrors.Internal("Failed to decode geocoder response", err)
	}
	if len(candidates) == 0 {
		return nil, apperrors.NotFound("Address")
	}

	lat, err := strconv.ParseFloat(candidates[0].Lat, 64)
	if err != nil {
		return nil, apperrors.Internal("Geocoder returned a malformed latitude", err)
	}
	lng, err := strconv.ParseFloat(candidates[0].Lon, 64)
	if err != nil {
		return nil, apperrors.Internal("Geocoder returned a malformed longitude", err)
	}

	return &model.Coordinates{Latitude: lat, Longitude: lng}, nil
}
