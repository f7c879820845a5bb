// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package user

import (
	"context"
	"fmt"

	"fedireads.org/models/db"
	"fedireads.org/modules/timeutil"
	"fedireads.org/modules/validation"

	"xorm.io/builder"
)

// RelationshipKind tells follows, follow requests and blocks apart.
type RelationshipKind string

const (
	KindFollow        RelationshipKind = "follows"
	KindFollowRequest RelationshipKind = "follow_request"
	KindBlock         RelationshipKind = "blocks"
)

// RelationshipKinds lists every known kind.
var RelationshipKinds = []RelationshipKind{KindFollow, KindFollowRequest, KindBlock}

// MaxRelationshipIDLength is the maximum number of runes of a relationship label.
const MaxRelationshipIDLength = 100

// IsValid reports whether k is a known kind.
func (k RelationshipKind) IsValid() bool {
	for _, known := range RelationshipKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Verb returns the action a kind describes.
func (k RelationshipKind) Verb() string {
	switch k {
	case KindFollow:
		return "follow"
	case KindFollowRequest:
		return "request to follow"
	case KindBlock:
		return "block"
	}
	return string(k)
}

// Relationship is a directed edge from a subject user to an object user.
type Relationship struct {
	ID             int64            `xorm:"pk autoincr"`
	Kind           RelationshipKind `xorm:"VARCHAR(20) UNIQUE(user_relationship_unique) NOT NULL"`
	SubjectID      int64            `xorm:"UNIQUE(user_relationship_unique) NOT NULL"`
	Subject        *User            `xorm:"-"`
	ObjectID       int64            `xorm:"UNIQUE(user_relationship_unique) INDEX NOT NULL"`
	Object         *User            `xorm:"-"`
	RelationshipID string           `xorm:"VARCHAR(100)"`

	CreatedUnix timeutil.TimeStamp `xorm:"INDEX created"`
}

// TableName keeps every kind of edge in one table.
func (Relationship) TableName() string {
	return "user_relationship"
}

func init() {
	db.RegisterModel(new(Relationship), func() error {
		return db.EnsureColumnsDiffer(db.DefaultContext, "user_relationship", "user_relationship_no_self", "subject_id", "object_id")
	})
}

// Validate checks the relationship is storable.
func (r Relationship) Validate() []string {
	var result []string
	result = append(result, validation.ValidateOneOf(r.Kind, []any{KindFollow, KindFollowRequest, KindBlock}, "Kind")...)
	result = append(result, validation.ValidateNotEmpty(r.SubjectID, "SubjectID")...)
	result = append(result, validation.ValidateNotEmpty(r.ObjectID, "ObjectID")...)
	result = append(result, validation.ValidateMaxLen(r.RelationshipID, MaxRelationshipIDLength, "RelationshipID")...)
	return result
}

// ExternalID returns the id of the relationship as seen by other instances.
func (r *Relationship) ExternalID(subjectRemoteID string) string {
	return fmt.Sprintf("%s#%s/%d", subjectRemoteID, r.Kind, r.ID)
}

// LoadSubject loads the subject user if not done yet.
func (r *Relationship) LoadSubject(ctx context.Context) (err error) {
	if r.Subject == nil || r.Subject.ID != r.SubjectID {
		r.Subject, err = GetUserByID(ctx, r.SubjectID)
	}
	return err
}

// LoadObject loads the object user if not done yet.
func (r *Relationship) LoadObject(ctx context.Context) (err error) {
	if r.Object == nil || r.Object.ID != r.ObjectID {
		r.Object, err = GetUserByID(ctx, r.ObjectID)
	}
	return err
}

// RelationshipExternalID loads the subject of r and returns the external id of r.
func RelationshipExternalID(ctx context.Context, r *Relationship) (string, error) {
	if err := r.LoadSubject(ctx); err != nil {
		return "", err
	}
	return r.ExternalID(r.Subject.GetRemoteID()), nil
}

// RelationshipActivityID returns the id of the activity that created r: the id
// the remote subject sent it with, or the external id of r otherwise.
func RelationshipActivityID(ctx context.Context, r *Relationship) (string, error) {
	if r.RelationshipID != "" {
		return r.RelationshipID, nil
	}
	return RelationshipExternalID(ctx, r)
}

// CreateRelationship stores a new edge of the given kind from subject to object.
func CreateRelationship(ctx context.Context, kind RelationshipKind, subject, object *User, relationshipID string) (*Relationship, error) {
	if subject.ID == object.ID {
		return nil, ErrSelfRelationship{Kind: kind, UID: subject.ID}
	}
	r := &Relationship{
		Kind:           kind,
		SubjectID:      subject.ID,
		Subject:        subject,
		ObjectID:       object.ID,
		Object:         object,
		RelationshipID: relationshipID,
	}
	if err := InsertRelationship(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// InsertRelationship stores r, which must not be stored yet.
func InsertRelationship(ctx context.Context, r *Relationship) error {
	if r.SubjectID == r.ObjectID {
		return ErrSelfRelationship{Kind: r.Kind, UID: r.SubjectID}
	}
	if valid, err := validation.IsValid(r); !valid {
		return err
	}
	alreadyExist := ErrRelationshipAlreadyExist{Kind: r.Kind, SubjectID: r.SubjectID, ObjectID: r.ObjectID}

	has, err := HasRelationship(ctx, r.Kind, r.SubjectID, r.ObjectID)
	if err != nil {
		return err
	} else if has {
		return alreadyExist
	}

	if _, err := db.GetEngine(ctx).Insert(r); err != nil {
		if db.IsErrUniqueViolation(err) {
			return alreadyExist
		} else if db.IsErrCheckViolation(err) {
			return ErrSelfRelationship{Kind: r.Kind, UID: r.SubjectID}
		}
		return err
	}
	return nil
}

// GetRelationship returns the edge of the given kind from subjectID to objectID.
func GetRelationship(ctx context.Context, kind RelationshipKind, subjectID, objectID int64) (*Relationship, error) {
	r := new(Relationship)
	has, err := db.GetEngine(ctx).
		Where(builder.Eq{"kind": kind, "subject_id": subjectID, "object_id": objectID}).
		Get(r)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrRelationshipNotExist{Kind: kind, SubjectID: subjectID, ObjectID: objectID}
	}
	return r, nil
}

// GetRelationshipByID returns the edge with the given id.
func GetRelationshipByID(ctx context.Context, id int64) (*Relationship, error) {
	r, has, err := db.GetByID[Relationship](ctx, id)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrRelationshipNotExist{ID: id}
	}
	return r, nil
}

// HasRelationship reports whether an edge of the given kind goes from subjectID to objectID.
func HasRelationship(ctx context.Context, kind RelationshipKind, subjectID, objectID int64) (bool, error) {
	return db.Exist[Relationship](ctx, builder.Eq{"kind": kind, "subject_id": subjectID, "object_id": objectID})
}

// IsBlockedEitherWay reports whether one of the two users blocks the other.
func IsBlockedEitherWay(ctx context.Context, userA, userB int64) (bool, error) {
	return db.Exist[Relationship](ctx, builder.Eq{"kind": KindBlock}.And(builder.Or(
		builder.Eq{"subject_id": userA, "object_id": userB},
		builder.Eq{"subject_id": userB, "object_id": userA},
	)))
}

// DeleteRelationship removes a stored edge.
func DeleteRelationship(ctx context.Context, r *Relationship) error {
	deleted, err := db.DeleteByID[Relationship](ctx, r.ID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrRelationshipNotExist{ID: r.ID, Kind: r.Kind, SubjectID: r.SubjectID, ObjectID: r.ObjectID}
	}
	return nil
}

// DeleteRelationshipsBetween removes every edge of the given kinds between the two users, in both directions.
func DeleteRelationshipsBetween(ctx context.Context, userA, userB int64, kinds ...RelationshipKind) (int64, error) {
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, string(kind))
	}
	return db.GetEngine(ctx).Where(builder.In("kind", names).And(builder.Or(
		builder.Eq{"subject_id": userA, "object_id": userB},
		builder.Eq{"subject_id": userB, "object_id": userA},
	))).Delete(new(Relationship))
}

// PromoteFollowRequest returns the follow an accepted follow request turns into.
// The returned relationship is not stored and the request is left as it is.
func PromoteFollowRequest(request *Relationship) (*Relationship, error) {
	if request == nil {
		return nil, ErrNotFollowRequest{}
	}
	if request.Kind != KindFollowRequest {
		return nil, ErrNotFollowRequest{ID: request.ID, Kind: request.Kind}
	}
	return &Relationship{
		Kind:           KindFollow,
		SubjectID:      request.SubjectID,
		Subject:        request.Subject,
		ObjectID:       request.ObjectID,
		Object:         request.Object,
		RelationshipID: request.RelationshipID,
	}, nil
}

// FindRelationshipOptions filters stored relationships.
type FindRelationshipOptions struct {
	db.ListOptions
	Kind      RelationshipKind
	SubjectID int64
	ObjectID  int64
}

// ToConds implements the conditions of the options.
func (opts FindRelationshipOptions) ToConds() builder.Cond {
	cond := builder.NewCond()
	if opts.Kind != "" {
		cond = cond.And(builder.Eq{"kind": opts.Kind})
	}
	if opts.SubjectID != 0 {
		cond = cond.And(builder.Eq{"subject_id": opts.SubjectID})
	}
	if opts.ObjectID != 0 {
		cond = cond.And(builder.Eq{"object_id": opts.ObjectID})
	}
	return cond
}

// FindRelationships returns the relationships matching opts, newest first.
func FindRelationships(ctx context.Context, opts FindRelationshipOptions) ([]*Relationship, int64, error) {
	sess := db.GetEngine(ctx).Where(opts.ToConds()).Desc("created_unix").Desc("id")
	if !opts.IsListAll() {
		sess = db.SetSessionPagination(sess, &opts.ListOptions)
	}
	relationships := make([]*Relationship, 0, opts.PageSize)
	count, err := sess.FindAndCount(&relationships)
	return relationships, count, err
}

func listUsers(ctx context.Context, opts FindRelationshipOptions, subjects bool) ([]*User, int64, error) {
	relationships, count, err := FindRelationships(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]int64, 0, len(relationships))
	for _, r := range relationships {
		if subjects {
			ids = append(ids, r.SubjectID)
		} else {
			ids = append(ids, r.ObjectID)
		}
	}
	users, err := GetUsersByIDs(ctx, ids)
	return users, count, err
}

// ListFollowers returns the users following userID.
func ListFollowers(ctx context.Context, userID int64, listOptions db.ListOptions) ([]*User, int64, error) {
	return listUsers(ctx, FindRelationshipOptions{ListOptions: listOptions, Kind: KindFollow, ObjectID: userID}, true)
}

// ListFollowing returns the users userID follows.
func ListFollowing(ctx context.Context, userID int64, listOptions db.ListOptions) ([]*User, int64, error) {
	return listUsers(ctx, FindRelationshipOptions{ListOptions: listOptions, Kind: KindFollow, SubjectID: userID}, false)
}

// ListBlocked returns the users userID blocks.
func ListBlocked(ctx context.Context, userID int64, listOptions db.ListOptions) ([]*User, int64, error) {
	return listUsers(ctx, FindRelationshipOptions{ListOptions: listOptions, Kind: KindBlock, SubjectID: userID}, false)
}

// ListFollowRequests returns the pending follow requests addressed to userID with their subjects loaded.
func ListFollowRequests(ctx context.Context, userID int64, listOptions db.ListOptions) ([]*Relationship, int64, error) {
	requests, count, err := FindRelationships(ctx, FindRelationshipOptions{ListOptions: listOptions, Kind: KindFollowRequest, ObjectID: userID})
	if err != nil {
		return nil, 0, err
	}
	for _, r := range requests {
		if err := r.LoadSubject(ctx); err != nil {
			return nil, 0, err
		}
	}
	return requests, count, nil
}
