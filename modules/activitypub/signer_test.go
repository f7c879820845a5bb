// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package activitypub

import (
	"database/sql"
	"testing"

	user_model "fedireads.org/models/user"
	"fedireads.org/modules/keypair"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	priv, pub, err := keypair.GenerateKeyPair(2048)
	require.NoError(t, err)
	alice := &user_model.User{
		ID:         1,
		RemoteID:   sql.NullString{String: "https://example.org/user/alice", Valid: true},
		PrivateKey: priv,
		PublicKey:  pub,
	}

	signer, err := NewSigner(alice)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/user/alice#main-key", signer.KeyID())

	body := []byte(`{"type":"Follow"}`)
	req, err := signer.NewPostRequest(t.Context(), body, "https://remote.example/user/dave/inbox")
	require.NoError(t, err)
	assert.Equal(t, ActivityStreamsContentType, req.Header.Get("Content-Type"))
	assert.NotEmpty(t, req.Header.Get("Signature"))
	assert.NotEmpty(t, req.Header.Get("Digest"))
	assert.Contains(t, req.Header.Get("Signature"), `keyId="https://example.org/user/alice#main-key"`)

	require.NoError(t, VerifyRequest(req, alice))

	otherPriv, otherPub, err := keypair.GenerateKeyPair(2048)
	require.NoError(t, err)
	mallory := &user_model.User{
		ID:         9,
		RemoteID:   alice.RemoteID,
		PrivateKey: otherPriv,
		PublicKey:  otherPub,
	}
	assert.Error(t, VerifyRequest(req, mallory))
}

func TestNewSignerWithoutKey(t *testing.T) {
	_, err := NewSigner(&user_model.User{ID: 4})
	assert.ErrorAs(t, err, &ErrNotSigningUser{})

	_, err = NewSigner(&user_model.User{ID: 4, PrivateKey: "not a pem"})
	assert.Error(t, err)
}
