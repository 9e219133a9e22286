// Package transport issues HTTP requests against the to-do backend and
// classifies every failure before it reaches a caller: connection and
// timeout failures become ErrNetworkUnavailable, non-2xx statuses map
// onto the error taxonomy, and undecodable bodies become normalization
// errors. No raw transport error escapes this package.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	errs "github.com/jiawen-jasmine-chen/todosync/internal/errors"
)

const DefaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, nil, out)
}

// Post sends query params, a JSON body, or both. The backend takes
// register/login/create-list input as query params with an empty body.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, query, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errs.ErrValidation.WithMessage("unencodable request body: " + err.Error())
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return errs.ErrValidation.WithMessage("invalid request: " + err.Error())
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Covers refused connections, DNS failures, context
		// cancellation, and client-timeout expiry alike: no
		// response reached us.
		return errs.ErrNetworkUnavailable.WithMessage("unable to connect with the server: " + err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.ErrNetworkUnavailable.WithMessage("response body read failed: " + err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errs.ErrNormalization.WithMessage("malformed response body: " + err.Error())
	}
	return nil
}

// statusError maps an HTTP status to a classified exception, keeping
// the server's detail/message text when the body carries one.
func statusError(status int, body []byte) *errs.Exception {
	message := serverMessage(body)
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}

	kind := errs.KindValidation
	switch {
	case status == http.StatusNotFound:
		kind = errs.KindNotFound
	case status >= 500:
		kind = errs.KindServer
	}

	return &errs.Exception{Kind: kind, Message: message, StatusCode: status}
}

func serverMessage(body []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Message
}
