package client

import (
	"context"
	"fmt"
	"time"

	"parkade/pkg/model"
)

type PaymentClient struct {
	httpClient *HttpClient
}

func NewPaymentClient(baseURL string, timeout time.Duration) *PaymentClient {
	return &PaymentClient{
		httpClient: NewHttpClient(baseURL, timeout),
	}
}

// MakePayment asks the payments service to settle a booking. A declined
// payment is a successful call with a DECLINED outcome; an error means the
// attempt itself could not be carried out.
func (c *PaymentClient) MakePayment(ctx context.Context, bookingID string) (*model.PaymentOutcome, error) {
	resp, err := c.httpClient.POST(ctx, "/api/v1/make-payment", model.PaymentRequest{BookingID: bookingID})
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp) {
		return nil, decodeRemoteError(resp)
	}

	var wrapper struct {
		Data model.PaymentOutcome `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, fmt.Errorf("could not decode payment outcome: %s: %w", resp.ToString(), err)
	}
	return &wrapper.Data, nil
}

func (c *PaymentClient) Refund(ctx context.Context, bookingID string) error {
	resp, err := c.httpClient.POST(ctx, "/api/v1/refunds", model.RefundRequest{BookingID: bookingID})
	if err != nil {
		return err
	}
	if !isSuccess(resp) {
		return decodeRemoteError(resp)
	}
	return nil
}
