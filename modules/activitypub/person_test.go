// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package activitypub

import (
	"testing"

	"fedireads.org/models/unittest"
	user_model "fedireads.org/models/user"
	"fedireads.org/modules/validation"

	ap "github.com/go-ap/activitypub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonFromUser(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	carol := unittest.AssertExistsAndLoadBean(t, &user_model.User{ID: 3})

	person, err := PersonFromUser(carol)
	require.NoError(t, err)
	assert.Equal(t, ap.IRI("https://example.org/user/carol"), person.ID)
	assert.Equal(t, ap.PersonType, person.Type)
	assert.Equal(t, "carol", person.PreferredUsername.String())
	assert.Equal(t, "Carol", person.Name.String())
	assert.Equal(t, "Approves her followers by hand.", person.Summary.String())
	assert.Equal(t, ap.IRI("https://example.org/user/carol/inbox"), person.Inbox)
	assert.Equal(t, ap.IRI("https://example.org/user/carol/outbox"), person.Outbox)
	require.NotNil(t, person.Endpoints)
	assert.Equal(t, ap.IRI("https://example.org/inbox"), person.Endpoints.SharedInbox)
	assert.Equal(t, ap.IRI("https://example.org/user/carol#main-key"), person.PublicKey.ID)
	assert.Equal(t, carol.PublicKey, person.PublicKey.PublicKeyPem)
	assert.True(t, person.ManuallyApprovesFollowers)

	binary, err := Marshal(person)
	require.NoError(t, err)
	assert.Contains(t, string(binary), `"@context"`)
	assert.Contains(t, string(binary), ap.ActivityBaseURI)
	assert.Contains(t, string(binary), `"manuallyApprovesFollowers":true`)
}

func TestPersonFromRemoteUser(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	dave := unittest.AssertExistsAndLoadBean(t, &user_model.User{ID: 4})

	person, err := PersonFromUser(dave)
	require.NoError(t, err)
	assert.Equal(t, "dave@remote.example", person.PreferredUsername.String())
	assert.Nil(t, person.Summary)
}

func TestPersonFromUserWithoutKey(t *testing.T) {
	u := &user_model.User{Username: "x@example.org", Inbox: "https://example.org/user/x/inbox"}
	_, err := PersonFromUser(u)
	assert.True(t, validation.IsErrNotValid(err))
}
