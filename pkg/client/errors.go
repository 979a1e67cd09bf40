package client

import (
	"fmt"
	"net/http"

	apperrors "parkade/pkg/errors"
)

// decodeRemoteError turns a non-2xx response from another service into an
// AppError carrying the remote code, so callers can branch on machine codes
// the same way they do for local errors.
func decodeRemoteError(resp *Response) error {
	var errResp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := resp.DecodeJSON(&errResp); err != nil || errResp.Code == "" {
		return apperrors.New(
			apperrors.CodeInternal,
			fmt.Sprintf("unexpected response: %s", resp.ToString()),
			resp.StatusCode,
		)
	}

	return apperrors.New(errResp.Code, errResp.Error, resp.StatusCode)
}

func isSuccess(resp *Response) bool {
	return resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
}
