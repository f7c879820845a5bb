// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package federation

import (
	"io"
	"testing"

	"fedireads.org/models/db"
	"fedireads.org/models/unittest"
	user_model "fedireads.org/models/user"
	"fedireads.org/modules/activitypub"
	"fedireads.org/modules/keypair"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeliveryItem(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	alice := unittest.AssertExistsAndLoadBean(t, &user_model.User{ID: 1})
	bob := unittest.AssertExistsAndLoadBean(t, &user_model.User{ID: 2})
	dave := unittest.AssertExistsAndLoadBean(t, &user_model.User{ID: 4})

	r, err := user_model.CreateRelationship(db.DefaultContext, user_model.KindFollow, alice, dave, "")
	require.NoError(t, err)
	activity, err := activitypub.RelationshipActivity(db.DefaultContext, r)
	require.NoError(t, err)

	item, err := NewDeliveryItem(alice, dave, activity)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "https://remote.example/inbox", item.InboxURL)
	assert.Contains(t, string(item.Payload), `"type":"Follow"`)
	assert.Contains(t, string(item.Payload), `"actor":"https://example.org/user/alice"`)

	// local users are reached without delivery
	item, err = NewDeliveryItem(alice, bob, activity)
	require.NoError(t, err)
	assert.Nil(t, item)

	_, err = NewDeliveryItem(dave, alice, activity)
	require.Error(t, err)
}

func TestNewDeliveryItemWithoutSharedInbox(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	alice := unittest.AssertExistsAndLoadBean(t, &user_model.User{ID: 1})
	dave := unittest.AssertExistsAndLoadBean(t, &user_model.User{ID: 4})
	dave.SharedInbox = ""

	item, err := NewDeliveryItem(alice, dave, map[string]string{"type": "Follow"})
	require.NoError(t, err)
	assert.Equal(t, dave.Inbox, item.InboxURL)
}

func TestSignedRequest(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	priv, pub, err := keypair.GenerateKeyPair(2048)
	require.NoError(t, err)
	alice := unittest.AssertExistsAndLoadBean(t, &user_model.User{ID: 1})
	alice.PrivateKey = priv
	alice.PublicKey = pub
	dave := unittest.AssertExistsAndLoadBean(t, &user_model.User{ID: 4})

	r, err := user_model.CreateRelationship(db.DefaultContext, user_model.KindBlock, alice, dave, "")
	require.NoError(t, err)
	activity, err := activitypub.RelationshipActivity(db.DefaultContext, r)
	require.NoError(t, err)

	item, err := NewDeliveryItem(alice, dave, activity)
	require.NoError(t, err)
	req, err := item.SignedRequest(t.Context())
	require.NoError(t, err)

	assert.Equal(t, "https://remote.example/inbox", req.URL.String())
	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, item.Payload, body)
	require.NoError(t, activitypub.VerifyRequest(req, alice))

	bob := unittest.AssertExistsAndLoadBean(t, &user_model.User{ID: 2})
	item.Doer = bob
	_, err = item.SignedRequest(t.Context())
	assert.Error(t, err)
}
