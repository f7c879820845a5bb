// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package json

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Indent(&buf, []byte(`{"shelf":"to-read"}`), "", "  "))
	assert.Equal(t, "{\n  \"shelf\": \"to-read\"\n}", buf.String())

	assert.Error(t, Indent(&buf, []byte(`{`), "", "  "))
}

func TestEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(map[string]int{"follows": 7}))
	assert.JSONEq(t, `{"follows":7}`, buf.String())

	var out map[string]int
	require.NoError(t, NewDecoder(&buf).Decode(&out))
	assert.Equal(t, 7, out["follows"])
}
