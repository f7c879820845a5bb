// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package forgefed

import (
	"testing"

	"fedireads.org/modules/validation"

	ap "github.com/go-ap/activitypub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPerson() Person {
	person := Person{ManuallyApprovesFollowers: true}
	person.ID = ap.IRI(aliceIRI)
	person.Type = ap.PersonType
	person.PreferredUsername = ap.NaturalLanguageValuesNew()
	_ = person.PreferredUsername.Set(ap.NilLangRef, ap.Content("alice"))
	person.Inbox = ap.IRI(aliceIRI + "/inbox")
	person.PublicKey.ID = ap.IRI(aliceIRI + "#main-key")
	person.PublicKey.Owner = ap.IRI(aliceIRI)
	person.PublicKey.PublicKeyPem = "PUB"
	return person
}

func Test_PersonValidation(t *testing.T) {
	sut := newTestPerson()
	if res, err := validation.IsValid(sut); !res {
		t.Errorf("sut should be valid but was %q", err)
	}

	sut.Type = ap.GroupType
	if res, _ := validation.IsValid(sut); res {
		t.Error("sut should be invalid: Group is no person")
	}

	sut = newTestPerson()
	sut.Inbox = nil
	if res, _ := validation.IsValid(sut); res {
		t.Error("sut should be invalid: Inbox nil")
	}
}

func Test_PersonMarshalJSON(t *testing.T) {
	got, err := newTestPerson().MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(got), `"manuallyApprovesFollowers":true`)
	assert.Contains(t, string(got), `"preferredUsername":"alice"`)
	assert.Contains(t, string(got), `"publicKeyPem":"PUB"`)

	var parsed Person
	require.NoError(t, parsed.UnmarshalJSON(got))
	assert.True(t, parsed.ManuallyApprovesFollowers)
	assert.Equal(t, ap.IRI(aliceIRI), parsed.ID)
	assert.Equal(t, "alice", parsed.PreferredUsername.String())
}
