// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSilentWrap(t *testing.T) {
	err := NewAlreadyExistErrorf("user %q already follows %q", "alice", "bob")
	assert.EqualError(t, err, `user "alice" already follows "bob"`)
	assert.ErrorIs(t, err, ErrAlreadyExist)
	assert.NotErrorIs(t, err, ErrNotExist)

	err = NewInvalidArgumentErrorf("no args")
	assert.EqualError(t, err, "no args")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}
