// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package relationship

import (
	"context"
	"fmt"

	"fedireads.org/models/db"
	user_model "fedireads.org/models/user"
	"fedireads.org/modules/log"
	"fedireads.org/modules/util"
)

// ErrBlocked represents a follow between users where one blocks the other.
type ErrBlocked struct {
	SubjectID int64
	ObjectID  int64
}

// IsErrBlocked checks if an error is an ErrBlocked.
func IsErrBlocked(err error) bool {
	_, ok := err.(ErrBlocked)
	return ok
}

func (err ErrBlocked) Error() string {
	return fmt.Sprintf("users block each other [subject: %d, object: %d]", err.SubjectID, err.ObjectID)
}

// Unwrap unwraps this as a ErrPermissionDenied err
func (err ErrBlocked) Unwrap() error {
	return util.ErrPermissionDenied
}

// Follow makes subject follow object. Objects that approve their followers
// manually get a follow request instead.
func Follow(ctx context.Context, subject, object *user_model.User, relationshipID string) (*user_model.Relationship, error) {
	var r *user_model.Relationship
	err := db.WithTx(ctx, func(ctx context.Context) error {
		if subject.ID == object.ID {
			return user_model.ErrSelfRelationship{Kind: user_model.KindFollow, UID: subject.ID}
		}
		blocked, err := user_model.IsBlockedEitherWay(ctx, subject.ID, object.ID)
		if err != nil {
			return err
		} else if blocked {
			return ErrBlocked{SubjectID: subject.ID, ObjectID: object.ID}
		}

		// a pending request is answered by the object, never replaced by a follow
		for _, kind := range []user_model.RelationshipKind{user_model.KindFollow, user_model.KindFollowRequest} {
			exists, err := user_model.HasRelationship(ctx, kind, subject.ID, object.ID)
			if err != nil {
				return err
			} else if exists {
				return user_model.ErrRelationshipAlreadyExist{Kind: kind, SubjectID: subject.ID, ObjectID: object.ID}
			}
		}

		kind := user_model.KindFollow
		if object.ManuallyApprovesFollowers {
			kind = user_model.KindFollowRequest
		}
		r, err = user_model.CreateRelationship(ctx, kind, subject, object, relationshipID)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Trace("User[%d] %s user[%d]", subject.ID, r.Kind, object.ID)
	return r, nil
}

// AcceptFollowRequest turns a pending follow request into a follow.
func AcceptFollowRequest(ctx context.Context, request *user_model.Relationship) (*user_model.Relationship, error) {
	var follow *user_model.Relationship
	err := db.WithTx(ctx, func(ctx context.Context) error {
		stored, err := user_model.GetRelationshipByID(ctx, request.ID)
		if err != nil {
			return err
		}
		follow, err = user_model.PromoteFollowRequest(stored)
		if err != nil {
			return err
		}
		if err := user_model.InsertRelationship(ctx, follow); err != nil {
			return err
		}
		return user_model.DeleteRelationship(ctx, stored)
	})
	if err != nil {
		return nil, err
	}
	log.Trace("User[%d] accepted the follow request of user[%d]", follow.ObjectID, follow.SubjectID)
	return follow, nil
}

// RejectFollowRequest drops a pending follow request.
func RejectFollowRequest(ctx context.Context, request *user_model.Relationship) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		stored, err := user_model.GetRelationshipByID(ctx, request.ID)
		if err != nil {
			return err
		}
		if stored.Kind != user_model.KindFollowRequest {
			return user_model.ErrNotFollowRequest{ID: stored.ID, Kind: stored.Kind}
		}
		return user_model.DeleteRelationship(ctx, stored)
	})
}

// Unfollow removes the follow or the pending follow request of subject for object
// and returns what was removed.
func Unfollow(ctx context.Context, subject, object *user_model.User) (*user_model.Relationship, error) {
	var removed *user_model.Relationship
	err := db.WithTx(ctx, func(ctx context.Context) error {
		for _, kind := range []user_model.RelationshipKind{user_model.KindFollow, user_model.KindFollowRequest} {
			r, err := user_model.GetRelationship(ctx, kind, subject.ID, object.ID)
			if user_model.IsErrRelationshipNotExist(err) {
				continue
			} else if err != nil {
				return err
			}
			removed = r
			return user_model.DeleteRelationship(ctx, r)
		}
		return user_model.ErrRelationshipNotExist{Kind: user_model.KindFollow, SubjectID: subject.ID, ObjectID: object.ID}
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// Block makes subject block object. Follows and follow requests between the
// two users are removed in both directions.
func Block(ctx context.Context, subject, object *user_model.User, relationshipID string) (*user_model.Relationship, error) {
	var block *user_model.Relationship
	err := db.WithTx(ctx, func(ctx context.Context) error {
		var err error
		block, err = user_model.CreateRelationship(ctx, user_model.KindBlock, subject, object, relationshipID)
		if err != nil {
			return err
		}
		removed, err := user_model.DeleteRelationshipsBetween(ctx, subject.ID, object.ID, user_model.KindFollow, user_model.KindFollowRequest)
		if err != nil {
			return err
		}
		if removed > 0 {
			log.Trace("Block of user[%d] by user[%d] removed %d follows", object.ID, subject.ID, removed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

// Unblock removes the block of object by subject and returns it.
func Unblock(ctx context.Context, subject, object *user_model.User) (*user_model.Relationship, error) {
	var block *user_model.Relationship
	err := db.WithTx(ctx, func(ctx context.Context) error {
		var err error
		block, err = user_model.GetRelationship(ctx, user_model.KindBlock, subject.ID, object.ID)
		if err != nil {
			return err
		}
		return user_model.DeleteRelationship(ctx, block)
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

// ActivityID returns the id outgoing activities use for a relationship.
func ActivityID(ctx context.Context, r *user_model.Relationship) (string, error) {
	return user_model.RelationshipActivityID(ctx, r)
}
