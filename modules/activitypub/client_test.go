// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package activitypub

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGetBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/actor":
			assert.Contains(t, r.Header.Get("Accept"), "activitystreams")
			assert.Equal(t, "Fedireads", r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte(`{"type":"Person"}`))
		case "/large":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(5 * time.Second)
	body, err := client.GetBody(t.Context(), srv.URL+"/actor")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Person"}`, string(body))

	_, err = client.GetBody(t.Context(), srv.URL+"/missing")
	var statusErr ErrUnexpectedStatus
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)

	client.maxSize = 32
	_, err = client.GetBody(t.Context(), srv.URL+"/large")
	require.ErrorContains(t, err, "larger than 32 B")
}
