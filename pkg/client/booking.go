package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"parkade/pkg/model"
)

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string, timeout time.Duration) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL, timeout),
	}
}

func (c *BookingClient) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	path := "/api/v1/bookings/" + url.PathEscape(id)
	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp) {
		return nil, decodeRemoteError(resp)
	}

	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper: %s: %w", resp.ToString(), err)
	}

	var booking model.Booking
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking json: %s: %w", resp.ToString(), err)
	}
	return &booking, nil
}
