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

const (
	aliceIRI = "https://example.org/user/alice"
	bobIRI   = "https://remote.example/user/bob"
)

func Test_NewRelationshipActivity(t *testing.T) {
	sut, err := NewRelationshipActivity(ap.FollowType, aliceIRI+"#follows/1", aliceIRI, bobIRI)
	require.NoError(t, err)
	assert.False(t, sut.IsResponse())

	got, err := sut.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(got), `"id":"https://example.org/user/alice#follows/1"`)
	assert.Contains(t, string(got), `"type":"Follow"`)
	assert.Contains(t, string(got), `"actor":"https://example.org/user/alice"`)
	assert.Contains(t, string(got), `"object":"https://remote.example/user/bob"`)

	_, err = NewRelationshipActivity(ap.LikeType, aliceIRI+"#likes/1", aliceIRI, bobIRI)
	assert.True(t, validation.IsErrNotValid(err))

	_, err = NewRelationshipActivity(ap.BlockType, "", aliceIRI, bobIRI)
	assert.True(t, validation.IsErrNotValid(err))
}

func Test_NewResponseActivity(t *testing.T) {
	follow, err := NewRelationshipActivity(ap.FollowType, aliceIRI+"#follow_request/2", aliceIRI, bobIRI)
	require.NoError(t, err)

	accept, err := NewResponseActivity(ap.AcceptType, bobIRI+"#accepts/follow_request/2", bobIRI, follow)
	require.NoError(t, err)
	assert.True(t, accept.IsResponse())

	got, err := accept.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(got), `"type":"Accept"`)
	assert.Contains(t, string(got), `"type":"Follow"`)

	var parsed RelationshipActivity
	require.NoError(t, parsed.UnmarshalJSON(got))
	assert.Equal(t, ap.AcceptType, parsed.Type)
	assert.Empty(t, parsed.Validate())
	require.NotNil(t, parsed.Object)
	assert.Equal(t, aliceIRI+"#follow_request/2", parsed.Object.GetID().String())
}

func Test_RelationshipActivityValidation(t *testing.T) {
	sut := RelationshipActivity{}
	sut.ID = ap.IRI(aliceIRI + "#blocks/3")
	sut.Type = ap.BlockType
	sut.Actor = ap.IRI(aliceIRI)
	sut.Object = ap.IRI(bobIRI)
	if res, err := validation.IsValid(sut); !res {
		t.Errorf("sut should be valid but was %q", err)
	}

	sut.Object = nil
	if res, _ := validation.IsValid(sut); res {
		t.Error("sut should be invalid: Object nil")
	}

	sut.Type = ap.UndoType
	sut.Object = ap.IRI(bobIRI)
	if res, _ := validation.IsValid(sut); res {
		t.Error("sut should be invalid: Undo of an IRI")
	}

	sut = RelationshipActivity{}
	sut.ID = ap.IRI(aliceIRI + "#follows/1")
	sut.Type = ap.FollowType
	sut.Object = ap.IRI(bobIRI)
	if res, _ := validation.IsValid(sut); res {
		t.Error("sut should be invalid: Actor nil")
	}
}
