// Copyright 2023, 2024 The Forgejo Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package forgefed

import (
	"fedireads.org/modules/validation"

	ap "github.com/go-ap/activitypub"
)

// RelationshipActivity is a Follow or Block between two actors, or an
// Accept, Reject or Undo of such an activity.
type RelationshipActivity struct {
	ap.Activity
}

var (
	relationshipTypes = []any{string(ap.FollowType), string(ap.BlockType)}
	responseTypes     = []any{string(ap.AcceptType), string(ap.RejectType), string(ap.UndoType)}
)

// NewRelationshipActivity creates a Follow or Block of objectIRI by actorIRI.
func NewRelationshipActivity(activityType ap.ActivityVocabularyType, id, actorIRI, objectIRI string) (RelationshipActivity, error) {
	result := RelationshipActivity{}
	result.ID = ap.IRI(id)
	result.Type = activityType
	result.Actor = ap.IRI(actorIRI)
	result.Object = ap.IRI(objectIRI)
	if valid, err := validation.IsValid(result); !valid {
		return RelationshipActivity{}, err
	}
	return result, nil
}

// NewResponseActivity creates an Accept, Reject or Undo of inner by actorIRI.
func NewResponseActivity(activityType ap.ActivityVocabularyType, id, actorIRI string, inner RelationshipActivity) (RelationshipActivity, error) {
	result := RelationshipActivity{}
	result.ID = ap.IRI(id)
	result.Type = activityType
	result.Actor = ap.IRI(actorIRI)
	innerActivity := inner.Activity
	result.Object = &innerActivity
	if valid, err := validation.IsValid(result); !valid {
		return RelationshipActivity{}, err
	}
	return result, nil
}

// IsResponse is true for Accept, Reject and Undo.
func (a RelationshipActivity) IsResponse() bool {
	for _, t := range responseTypes {
		if string(a.Type) == t {
			return true
		}
	}
	return false
}

func (a RelationshipActivity) MarshalJSON() ([]byte, error) {
	return a.Activity.MarshalJSON()
}

func (a *RelationshipActivity) UnmarshalJSON(data []byte) error {
	return a.Activity.UnmarshalJSON(data)
}

func (a RelationshipActivity) Validate() []string {
	var result []string
	result = append(result, validation.ValidateNotEmpty(string(a.Type), "type")...)
	result = append(result, validation.ValidateOneOf(string(a.Type), append(append([]any{}, relationshipTypes...), responseTypes...), "type")...)
	result = append(result, validation.ValidateNotEmpty(a.ID.String(), "id")...)

	if a.Actor == nil {
		result = append(result, "Actor should not be nil.")
	} else {
		result = append(result, validation.ValidateNotEmpty(a.Actor.GetID().String(), "actor")...)
	}

	if a.Object == nil {
		result = append(result, "Object should not be nil.")
		return result
	}
	if a.IsResponse() {
		if !a.Object.IsObject() {
			result = append(result, "Object of a response should be an activity.")
		}
	} else {
		result = append(result, validation.ValidateNotEmpty(a.Object.GetID().String(), "object")...)
	}
	return result
}
