// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package activitypub

import (
	"context"
	"fmt"

	user_model "fedireads.org/models/user"
	"fedireads.org/modules/forgefed"

	ap "github.com/go-ap/activitypub"
)

func activityTypeOf(kind user_model.RelationshipKind) (ap.ActivityVocabularyType, error) {
	switch kind {
	case user_model.KindFollow, user_model.KindFollowRequest:
		return ap.FollowType, nil
	case user_model.KindBlock:
		return ap.BlockType, nil
	}
	return "", fmt.Errorf("no activity for relationship kind %q", kind)
}

// RelationshipActivity returns the Follow or Block a relationship was created by.
// Pending and accepted follows are both a Follow.
func RelationshipActivity(ctx context.Context, r *user_model.Relationship) (forgefed.RelationshipActivity, error) {
	activityType, err := activityTypeOf(r.Kind)
	if err != nil {
		return forgefed.RelationshipActivity{}, err
	}
	if err := r.LoadSubject(ctx); err != nil {
		return forgefed.RelationshipActivity{}, err
	}
	if err := r.LoadObject(ctx); err != nil {
		return forgefed.RelationshipActivity{}, err
	}
	id, err := user_model.RelationshipActivityID(ctx, r)
	if err != nil {
		return forgefed.RelationshipActivity{}, err
	}
	return forgefed.NewRelationshipActivity(activityType, id, r.Subject.APActorID(), r.Object.APActorID())
}

// AcceptActivity returns the Accept the object of a follow request answers it with.
func AcceptActivity(ctx context.Context, request *user_model.Relationship) (forgefed.RelationshipActivity, error) {
	return responseActivity(ctx, ap.AcceptType, request)
}

// RejectActivity returns the Reject the object of a follow request answers it with.
func RejectActivity(ctx context.Context, request *user_model.Relationship) (forgefed.RelationshipActivity, error) {
	return responseActivity(ctx, ap.RejectType, request)
}

// UndoActivity returns the Undo the subject of a relationship withdraws it with.
func UndoActivity(ctx context.Context, r *user_model.Relationship) (forgefed.RelationshipActivity, error) {
	return responseActivity(ctx, ap.UndoType, r)
}

func responseActivity(ctx context.Context, activityType ap.ActivityVocabularyType, r *user_model.Relationship) (forgefed.RelationshipActivity, error) {
	if activityType != ap.UndoType && r.Kind != user_model.KindFollowRequest {
		return forgefed.RelationshipActivity{}, user_model.ErrNotFollowRequest{ID: r.ID, Kind: r.Kind}
	}
	inner, err := RelationshipActivity(ctx, r)
	if err != nil {
		return forgefed.RelationshipActivity{}, err
	}

	// the subject withdraws, the object answers
	actor := r.Object
	if activityType == ap.UndoType {
		actor = r.Subject
	}
	id := fmt.Sprintf("%s#%s/%s/%d", actor.APActorID(), responseVerb(activityType), r.Kind, r.ID)
	return forgefed.NewResponseActivity(activityType, id, actor.APActorID(), inner)
}

func responseVerb(activityType ap.ActivityVocabularyType) string {
	switch activityType {
	case ap.AcceptType:
		return "accepts"
	case ap.RejectType:
		return "rejects"
	}
	return "undoes"
}
