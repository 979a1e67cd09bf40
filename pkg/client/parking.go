package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"parkade/pkg/model"
)

type ParkingClient struct {
	httpClient *HttpClient
}

func NewParkingClient(baseURL string, timeout time.Duration) *ParkingClient {
	return &ParkingClient{
		httpClient: NewHttpClient(baseURL, timeout),
	}
}

func (c *ParkingClient) GetByID(ctx context.Context, id string) (*model.ParkingSlot, error) {
	path := "/api/v1/parking-slots/" + url.PathEscape(id)
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
		return nil, fmt.Errorf("could not decode parking slot wrapper: %s: %w", resp.ToString(), err)
	}

	var slot model.ParkingSlot
	if err := json.Unmarshal(wrapper.Data, &slot); err != nil {
		return nil, fmt.Errorf("could not decode parking slot json: %s: %w", resp.ToString(), err)
	}
	return &slot, nil
}

// GetAll lists slots page by page; a non-empty status narrows the listing
// server-side.
func (c *ParkingClient) GetAll(ctx context.Context, status model.SlotStatus, limit int, offset int64) ([]*model.ParkingSlot, *Metadata, error) {
	path := fmt.Sprintf("/api/v1/parking-slots?limit=%d&offset=%d", limit, offset)
	if status != "" {
		path += "&status=" + string(status)
	}
	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if !isSuccess(resp) {
		return nil, nil, decodeRemoteError(resp)
	}

	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp: %s: %w", resp.ToString(), err)
	}

	var slots []*model.ParkingSlot
	if err := json.Unmarshal(wrapper.Data, &slots); err != nil {
		return nil, nil, fmt.Errorf("could not decode parking slot list: %s: %w", resp.ToString(), err)
	}

	metadata := &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}
	return slots, metadata, nil
}

func (c *ParkingClient) UpdateStatus(ctx context.Context, id string, status model.SlotStatus) error {
	path := "/api/v1/parking-slots/" + url.PathEscape(id) + "/status"
	resp, err := c.httpClient.PUT(ctx, path, model.SlotStatusUpdate{Status: status})
	if err != nil {
		return err
	}
	if !isSuccess(resp) {
		return decodeRemoteError(resp)
	}
	return nil
}
