package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"parkade/pkg/model"
)

type UserClient struct {
	httpClient *HttpClient
}

func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	return &UserClient{
		httpClient: NewHttpClient(baseURL, timeout),
	}
}

func (c *UserClient) GetByID(ctx context.Context, id string) (*model.User, error) {
	path := "/api/v1/users/" + url.PathEscape(id)
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
		return nil, fmt.Errorf("could not decode user wrapper: %s: %w", resp.ToString(), err)
	}

	var user model.User
	if err := json.Unmarshal(wrapper.Data, &user); err != nil {
		return nil, fmt.Errorf("could not decode user json: %s: %w", resp.ToString(), err)
	}
	return &user, nil
}

func (c *UserClient) GetBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	path := "/api/v1/users/" + url.PathEscape(id) + "/balance"
	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return decimal.Zero, err
	}
	if !isSuccess(resp) {
		return decimal.Zero, decodeRemoteError(resp)
	}

	var wrapper struct {
		Data struct {
			Balance decimal.Decimal `json:"balance"`
		} `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return decimal.Zero, fmt.Errorf("could not decode balance json: %s: %w", resp.ToString(), err)
	}
	return wrapper.Data.Balance, nil
}

// Transfer moves an amount between two balances in one call; the users
// service applies both sides atomically or not at all.
func (c *UserClient) Transfer(ctx context.Context, transfer model.Transfer) error {
	resp, err := c.httpClient.POST(ctx, "/api/v1/transfers", transfer)
	if err != nil {
		return err
	}
	if !isSuccess(resp) {
		return decodeRemoteError(resp)
	}
	return nil
}
