// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package user_test

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	user_model "fedireads.org/models/user"
	"fedireads.org/modules/keypair/mock"
	"fedireads.org/modules/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestProvisionIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mock.NewMockGenerator(ctrl)
	gen.EXPECT().Generate().Return("PRIV", "PUB", nil)

	u := &user_model.User{Username: "mouse", Local: true}
	require.NoError(t, user_model.ProvisionIdentity(u, "your.domain.here", gen))

	assert.Equal(t, "https://your.domain.here/user/mouse", u.RemoteID.String)
	assert.Equal(t, "mouse", u.Localname.String)
	assert.Equal(t, "mouse@your.domain.here", u.Username)
	assert.Equal(t, "https://your.domain.here/user/mouse/inbox", u.Inbox)
	assert.Equal(t, "https://your.domain.here/inbox", u.SharedInbox)
	assert.Equal(t, "https://your.domain.here/user/mouse/outbox", u.Outbox)
	assert.Equal(t, "PRIV", u.PrivateKey)
	assert.Equal(t, "PUB", u.PublicKey)
	assert.Empty(t, u.Validate())
}

func TestProvisionIdentityKeepsExistingKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mock.NewMockGenerator(ctrl)

	u := &user_model.User{Username: "mouse", Local: true, PrivateKey: "PRIV", PublicKey: "PUB"}
	require.NoError(t, user_model.ProvisionIdentity(u, "example.org", gen))
	assert.Equal(t, "PRIV", u.PrivateKey)
	assert.Equal(t, "PUB", u.PublicKey)
	assert.Equal(t, "mouse@example.org", u.Username)
}

func TestProvisionIdentityNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mock.NewMockGenerator(ctrl)

	t.Run("stored", func(t *testing.T) {
		u := &user_model.User{ID: 7, Username: "mouse", Local: true}
		require.NoError(t, user_model.ProvisionIdentity(u, "example.org", gen))
		assert.Equal(t, &user_model.User{ID: 7, Username: "mouse", Local: true}, u)
	})

	t.Run("remote", func(t *testing.T) {
		u := &user_model.User{
			Username: "rat@elsewhere.example",
			RemoteID: sql.NullString{String: "https://elsewhere.example/u/rat", Valid: true},
			Inbox:    "https://elsewhere.example/u/rat/in",
		}
		before := *u
		require.NoError(t, user_model.ProvisionIdentity(u, "example.org", gen))
		assert.Equal(t, before, *u)
	})
}

func TestProvisionIdentityPresetLocalname(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mock.NewMockGenerator(ctrl)
	gen.EXPECT().Generate().Return("PRIV", "PUB", nil)

	u := &user_model.User{Username: "mouse", Local: true, Localname: sql.NullString{String: "rat", Valid: true}}
	require.NoError(t, user_model.ProvisionIdentity(u, "example.org", gen))
	assert.Equal(t, "mouse", u.Localname.String)
	assert.Equal(t, "https://example.org/user/mouse", u.RemoteID.String)
	assert.Equal(t, "PRIV", u.PrivateKey)

	// the localname comes from the username, never the other way round
	u = &user_model.User{Username: "mouse@example.org", Local: true, Localname: sql.NullString{String: "mouse", Valid: true}}
	err := user_model.ProvisionIdentity(u, "example.org", gen)
	assert.ErrorIs(t, err, util.ErrInvalidArgument)
	assert.False(t, u.RemoteID.Valid)
}

func TestProvisionIdentityKeyFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mock.NewMockGenerator(ctrl)
	errEntropy := errors.New("entropy source exhausted")
	gen.EXPECT().Generate().Return("", "", errEntropy)

	u := &user_model.User{Username: "mouse", Local: true}
	err := user_model.ProvisionIdentity(u, "example.org", gen)
	require.ErrorIs(t, err, errEntropy)
	assert.Equal(t, &user_model.User{Username: "mouse", Local: true}, u)
}

func TestProvisionIdentityInvalidUsername(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mock.NewMockGenerator(ctrl)

	for _, name := range []string{"", "mouse@example.org", "with space", "slash/y", strings.Repeat("a", user_model.MaxLocalnameLength+1)} {
		u := &user_model.User{Username: name, Local: true}
		err := user_model.ProvisionIdentity(u, "example.org", gen)
		assert.True(t, user_model.IsErrInvalidUsername(err), "name %q", name)
		assert.ErrorIs(t, err, util.ErrInvalidArgument)
		assert.False(t, u.RemoteID.Valid)
	}
}

func TestDerivedIdentifiers(t *testing.T) {
	remoteID := user_model.RemoteIDFor("example.org", "alice")
	assert.Equal(t, "https://example.org/user/alice", remoteID)
	assert.Equal(t, "https://example.org/user/alice/inbox", user_model.InboxFor(remoteID))
	assert.Equal(t, "https://example.org/user/alice/outbox", user_model.OutboxFor(remoteID))
	assert.Equal(t, "https://example.org/inbox", user_model.SharedInboxFor("example.org"))
	assert.Equal(t, "alice@example.org", user_model.FederatedUsername("example.org", "alice"))
}

func TestIsValidLocalname(t *testing.T) {
	assert.True(t, user_model.IsValidLocalname("a.b-c_d9"))
	assert.True(t, user_model.IsValidLocalname(strings.Repeat("a", user_model.MaxLocalnameLength)))
	assert.False(t, user_model.IsValidLocalname("ä"))
	assert.False(t, user_model.IsValidLocalname(""))
}
