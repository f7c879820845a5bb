// Copyright 2022 The Gitea Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package activitypub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"fedireads.org/modules/log"
	"fedireads.org/modules/setting"

	"github.com/dustin/go-humanize"
)

// Client fetches documents of other instances.
type Client struct {
	client  *http.Client
	maxSize int64
}

// NewClient returns a client whose requests give up after timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		maxSize: setting.Federation.MaxSize,
	}
}

// ErrUnexpectedStatus is returned for responses that are not 2xx.
type ErrUnexpectedStatus struct {
	URI        string
	StatusCode int
}

func (err ErrUnexpectedStatus) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", err.StatusCode, err.URI)
}

// GetBody fetches uri asking for an ActivityStreams document and returns the body.
func (c *Client) GetBody(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Accept", ActivityStreamsContentType+", application/activity+json, application/json")
	req.Header.Add("Date", CurrentTime())
	req.Header.Add("User-Agent", "Fedireads")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	log.Trace("GET %s: %s", uri, resp.Status)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ErrUnexpectedStatus{URI: uri, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxSize {
		return nil, fmt.Errorf("response of %s is larger than %s", uri, humanize.IBytes(uint64(c.maxSize)))
	}
	return body, nil
}
