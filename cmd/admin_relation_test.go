// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"testing"

	"fedireads.org/models/unittest"
	user_model "fedireads.org/models/user"
	"fedireads.org/modules/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRelationFollow(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	out, err := runTestApp(t, "admin", "relation", "follow", "bob", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "'bob@example.org' follows 'alice@example.org'.")
	unittest.AssertExistsAndLoadBean(t, &user_model.Relationship{Kind: user_model.KindFollow, SubjectID: 2, ObjectID: 1})

	out, err = runTestApp(t, "admin", "relation", "follow", "alice", "carol")
	require.NoError(t, err)
	assert.Contains(t, out, "requested to follow")
	unittest.AssertExistsAndLoadBean(t, &user_model.Relationship{Kind: user_model.KindFollowRequest, SubjectID: 1, ObjectID: 3})

	_, err = runTestApp(t, "admin", "relation", "follow", "bob", "https://remote.example/users/erin")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = runTestApp(t, "admin", "relation", "follow", "bob")
	require.ErrorContains(t, err, "exactly two users")
}

func TestAdminRelationFollowPrintDelivery(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	// local users need no delivery
	out, err := runTestApp(t, "admin", "relation", "follow", "--print-delivery", "bob", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to deliver")

	// the fixture keys of alice cannot sign
	_, err = runTestApp(t, "admin", "relation", "follow", "--print-delivery", "alice", "dave@remote.example")
	require.Error(t, err)
}

func TestAdminRelationAcceptReject(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	out, err := runTestApp(t, "admin", "relation", "accept", "dave@remote.example", "carol")
	require.NoError(t, err)
	assert.Contains(t, out, "'dave@remote.example' now follows 'carol@example.org'.")
	unittest.AssertNotExistsBean(t, &user_model.Relationship{ID: 2})
	unittest.AssertExistsAndLoadBean(t, &user_model.Relationship{Kind: user_model.KindFollow, SubjectID: 4, ObjectID: 3})

	_, err = runTestApp(t, "admin", "relation", "reject", "dave@remote.example", "carol")
	assert.True(t, user_model.IsErrRelationshipNotExist(err))

	require.NoError(t, unittest.PrepareTestDatabase())
	out, err = runTestApp(t, "admin", "relation", "reject", "dave@remote.example", "carol")
	require.NoError(t, err)
	assert.Contains(t, out, "rejected the follow request")
	unittest.AssertNotExistsBean(t, &user_model.Relationship{ID: 2})
	unittest.AssertNotExistsBean(t, &user_model.Relationship{Kind: user_model.KindFollow, SubjectID: 4, ObjectID: 3})
}

func TestAdminRelationUnfollow(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	out, err := runTestApp(t, "admin", "relation", "unfollow", "alice", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "no longer follows")
	unittest.AssertNotExistsBean(t, &user_model.Relationship{ID: 1})

	_, err = runTestApp(t, "admin", "relation", "unfollow", "alice", "bob")
	assert.True(t, user_model.IsErrRelationshipNotExist(err))
}

func TestAdminRelationBlock(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	out, err := runTestApp(t, "admin", "relation", "block", "bob", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "'bob@example.org' blocks 'alice@example.org'.")
	unittest.AssertNotExistsBean(t, &user_model.Relationship{ID: 1})

	_, err = runTestApp(t, "admin", "relation", "block", "bob", "bob")
	assert.ErrorIs(t, err, util.ErrInvalidArgument)

	out, err = runTestApp(t, "admin", "relation", "unblock", "bob", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "no longer blocks")
	unittest.AssertNotExistsBean(t, &user_model.Relationship{Kind: user_model.KindBlock, SubjectID: 2, ObjectID: 1})

	_, err = runTestApp(t, "admin", "relation", "unblock", "bob", "alice")
	assert.True(t, user_model.IsErrRelationshipNotExist(err))
}
