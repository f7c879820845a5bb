// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package relationship

import (
	"fmt"
	"testing"

	"fedireads.org/models/db"
	"fedireads.org/models/unittest"
	user_model "fedireads.org/models/user"
	"fedireads.org/modules/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadUsers(t *testing.T, ids ...int64) []*user_model.User {
	t.Helper()
	users := make([]*user_model.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, unittest.AssertExistsAndLoadBean(t, &user_model.User{ID: id}))
	}
	return users
}

func TestFollow(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	users := loadUsers(t, 1, 2, 3)
	alice, bob, carol := users[0], users[1], users[2]

	r, err := Follow(db.DefaultContext, bob, alice, "")
	require.NoError(t, err)
	assert.Equal(t, user_model.KindFollow, r.Kind)
	unittest.AssertExistsAndLoadBean(t, &user_model.Relationship{Kind: user_model.KindFollow, SubjectID: 2, ObjectID: 1})

	id, err := ActivityID(db.DefaultContext, r)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("https://example.org/user/bob#follows/%d", r.ID), id)

	// carol approves her followers manually
	r, err = Follow(db.DefaultContext, alice, carol, "")
	require.NoError(t, err)
	assert.Equal(t, user_model.KindFollowRequest, r.Kind)
	unittest.AssertNotExistsBean(t, &user_model.Relationship{Kind: user_model.KindFollow, SubjectID: 1, ObjectID: 3})

	_, err = Follow(db.DefaultContext, alice, bob, "")
	assert.True(t, user_model.IsErrRelationshipAlreadyExist(err))

	_, err = Follow(db.DefaultContext, alice, alice, "")
	assert.True(t, user_model.IsErrSelfRelationship(err))
	assert.ErrorIs(t, err, util.ErrInvalidArgument)
}

func TestFollowWithPendingRequest(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	users := loadUsers(t, 3, 4)
	carol, dave := users[0], users[1]

	// carol stopped approving followers manually while request 2 of dave is pending
	carol.ManuallyApprovesFollowers = false
	require.NoError(t, user_model.UpdateUser(db.DefaultContext, carol))

	_, err := Follow(db.DefaultContext, dave, carol, "https://remote.example/activity/follow/3")
	assert.True(t, user_model.IsErrRelationshipAlreadyExist(err))
	assert.ErrorIs(t, err, util.ErrAlreadyExist)
	unittest.AssertNotExistsBean(t, &user_model.Relationship{Kind: user_model.KindFollow, SubjectID: 4, ObjectID: 3})

	request := unittest.AssertExistsAndLoadBean(t, &user_model.Relationship{ID: 2})
	follow, err := AcceptFollowRequest(db.DefaultContext, request)
	require.NoError(t, err)
	assert.Equal(t, user_model.KindFollow, follow.Kind)

	_, err = Follow(db.DefaultContext, dave, carol, "")
	assert.True(t, user_model.IsErrRelationshipAlreadyExist(err))
}

func TestFollowBlocked(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	users := loadUsers(t, 2, 5)
	bob, erin := users[0], users[1]

	_, err := Follow(db.DefaultContext, bob, erin, "")
	assert.True(t, IsErrBlocked(err))
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// the block holds in both directions
	_, err = Follow(db.DefaultContext, erin, bob, "https://remote.example/activity/follow/2")
	assert.True(t, IsErrBlocked(err))
	unittest.AssertCount(t, &user_model.Relationship{}, 3)
}

func TestAcceptFollowRequest(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	request := unittest.AssertExistsAndLoadBean(t, &user_model.Relationship{ID: 2})
	follow, err := AcceptFollowRequest(db.DefaultContext, request)
	require.NoError(t, err)
	assert.Equal(t, user_model.KindFollow, follow.Kind)
	assert.EqualValues(t, 4, follow.SubjectID)
	assert.EqualValues(t, 3, follow.ObjectID)
	assert.Equal(t, request.RelationshipID, follow.RelationshipID)

	unittest.AssertNotExistsBean(t, &user_model.Relationship{ID: 2})
	unittest.AssertExistsAndLoadBean(t, &user_model.Relationship{Kind: user_model.KindFollow, SubjectID: 4, ObjectID: 3})

	_, err = AcceptFollowRequest(db.DefaultContext, request)
	assert.True(t, user_model.IsErrRelationshipNotExist(err))

	follow = unittest.AssertExistsAndLoadBean(t, &user_model.Relationship{ID: 1})
	_, err = AcceptFollowRequest(db.DefaultContext, follow)
	assert.True(t, user_model.IsErrNotFollowRequest(err))
	unittest.AssertExistsAndLoadBean(t, &user_model.Relationship{ID: 1})
}

func TestRejectFollowRequest(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	request := unittest.AssertExistsAndLoadBean(t, &user_model.Relationship{ID: 2})
	require.NoError(t, RejectFollowRequest(db.DefaultContext, request))
	unittest.AssertNotExistsBean(t, &user_model.Relationship{ID: 2})
	unittest.AssertNotExistsBean(t, &user_model.Relationship{Kind: user_model.KindFollow, SubjectID: 4, ObjectID: 3})

	block := unittest.AssertExistsAndLoadBean(t, &user_model.Relationship{ID: 3})
	err := RejectFollowRequest(db.DefaultContext, block)
	assert.True(t, user_model.IsErrNotFollowRequest(err))
}

func TestUnfollow(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	users := loadUsers(t, 1, 2, 3, 4)
	alice, bob, carol, dave := users[0], users[1], users[2], users[3]

	removed, err := Unfollow(db.DefaultContext, alice, bob)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed.ID)
	unittest.AssertNotExistsBean(t, &user_model.Relationship{ID: 1})

	// a pending request is withdrawn the same way
	removed, err = Unfollow(db.DefaultContext, dave, carol)
	require.NoError(t, err)
	assert.Equal(t, user_model.KindFollowRequest, removed.Kind)
	unittest.AssertNotExistsBean(t, &user_model.Relationship{ID: 2})

	_, err = Unfollow(db.DefaultContext, alice, bob)
	assert.True(t, user_model.IsErrRelationshipNotExist(err))
	assert.ErrorIs(t, err, util.ErrNotExist)
}

func TestBlock(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	users := loadUsers(t, 1, 2)
	alice, bob := users[0], users[1]

	_, err := Follow(db.DefaultContext, bob, alice, "")
	require.NoError(t, err)
	unittest.AssertCount(t, &user_model.Relationship{Kind: user_model.KindFollow}, 2)

	block, err := Block(db.DefaultContext, bob, alice, "")
	require.NoError(t, err)
	assert.Equal(t, user_model.KindBlock, block.Kind)

	// both follows between the two are gone
	unittest.AssertCount(t, &user_model.Relationship{Kind: user_model.KindFollow}, 0)
	unittest.AssertExistsAndLoadBean(t, &user_model.Relationship{Kind: user_model.KindBlock, SubjectID: 2, ObjectID: 1})

	_, err = Block(db.DefaultContext, bob, alice, "")
	assert.True(t, user_model.IsErrRelationshipAlreadyExist(err))

	_, err = Follow(db.DefaultContext, alice, bob, "")
	assert.True(t, IsErrBlocked(err))
}

func TestBlockKeepsUnrelatedEdges(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	users := loadUsers(t, 1, 3, 4)
	alice, carol, dave := users[0], users[1], users[2]

	_, err := Block(db.DefaultContext, carol, alice, "")
	require.NoError(t, err)
	unittest.AssertExistsAndLoadBean(t, &user_model.Relationship{ID: 1})
	unittest.AssertExistsAndLoadBean(t, &user_model.Relationship{ID: 2})

	_, err = Block(db.DefaultContext, carol, dave, "")
	require.NoError(t, err)
	unittest.AssertNotExistsBean(t, &user_model.Relationship{ID: 2})
}

func TestUnblock(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	users := loadUsers(t, 2, 5)
	bob, erin := users[0], users[1]

	removed, err := Unblock(db.DefaultContext, bob, erin)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed.ID)
	unittest.AssertNotExistsBean(t, &user_model.Relationship{ID: 3})

	_, err = Follow(db.DefaultContext, bob, erin, "")
	require.NoError(t, err)

	_, err = Unblock(db.DefaultContext, bob, erin)
	assert.True(t, user_model.IsErrRelationshipNotExist(err))
}
