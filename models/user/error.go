// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package user

import (
	"fmt"

	"fedireads.org/modules/util"
)

// ErrUserNotExist represents a "UserNotExist" kind of error.
type ErrUserNotExist struct {
	UID  int64
	Name string
}

// IsErrUserNotExist checks if an error is a ErrUserNotExist.
func IsErrUserNotExist(err error) bool {
	_, ok := err.(ErrUserNotExist)
	return ok
}

func (err ErrUserNotExist) Error() string {
	return fmt.Sprintf("user does not exist [uid: %d, name: %s]", err.UID, err.Name)
}

// Unwrap unwraps this error as a ErrNotExist error
func (err ErrUserNotExist) Unwrap() error {
	return util.ErrNotExist
}

// ErrUserAlreadyExist represents a "user already exists" error.
type ErrUserAlreadyExist struct {
	Name string
}

// IsErrUserAlreadyExist checks if an error is a ErrUserAlreadyExists.
func IsErrUserAlreadyExist(err error) bool {
	_, ok := err.(ErrUserAlreadyExist)
	return ok
}

func (err ErrUserAlreadyExist) Error() string {
	return fmt.Sprintf("user already exists [name: %s]", err.Name)
}

// Unwrap unwraps this error as a ErrAlreadyExist error
func (err ErrUserAlreadyExist) Unwrap() error {
	return util.ErrAlreadyExist
}

// ErrInvalidUsername represents a username that cannot become a federation identifier.
type ErrInvalidUsername struct {
	Name string
}

// IsErrInvalidUsername checks if an error is an ErrInvalidUsername.
func IsErrInvalidUsername(err error) bool {
	_, ok := err.(ErrInvalidUsername)
	return ok
}

func (err ErrInvalidUsername) Error() string {
	return fmt.Sprintf("name is not usable as a local name [name: %s]", err.Name)
}

// Unwrap unwraps this as a ErrInvalidArgument err
func (err ErrInvalidUsername) Unwrap() error {
	return util.ErrInvalidArgument
}

// ErrUserHasRelationships represents a deletion of a user that relationships still point at.
type ErrUserHasRelationships struct {
	UID   int64
	Count int64
}

// IsErrUserHasRelationships checks if an error is an ErrUserHasRelationships.
func IsErrUserHasRelationships(err error) bool {
	_, ok := err.(ErrUserHasRelationships)
	return ok
}

func (err ErrUserHasRelationships) Error() string {
	return fmt.Sprintf("user is still referenced by relationships [uid: %d, count: %d]", err.UID, err.Count)
}

// ErrSelfRelationship represents a relationship whose subject is its object.
type ErrSelfRelationship struct {
	Kind RelationshipKind
	UID  int64
}

// IsErrSelfRelationship checks if an error is an ErrSelfRelationship.
func IsErrSelfRelationship(err error) bool {
	_, ok := err.(ErrSelfRelationship)
	return ok
}

func (err ErrSelfRelationship) Error() string {
	return fmt.Sprintf("user cannot %s themselves [uid: %d]", err.Kind.Verb(), err.UID)
}

// Unwrap unwraps this as a ErrInvalidArgument err
func (err ErrSelfRelationship) Unwrap() error {
	return util.ErrInvalidArgument
}

// ErrRelationshipAlreadyExist represents an edge that is already stored.
type ErrRelationshipAlreadyExist struct {
	Kind      RelationshipKind
	SubjectID int64
	ObjectID  int64
}

// IsErrRelationshipAlreadyExist checks if an error is an ErrRelationshipAlreadyExist.
func IsErrRelationshipAlreadyExist(err error) bool {
	_, ok := err.(ErrRelationshipAlreadyExist)
	return ok
}

func (err ErrRelationshipAlreadyExist) Error() string {
	return fmt.Sprintf("relationship already exists [kind: %s, subject: %d, object: %d]", err.Kind, err.SubjectID, err.ObjectID)
}

// Unwrap unwraps this as a ErrAlreadyExist err
func (err ErrRelationshipAlreadyExist) Unwrap() error {
	return util.ErrAlreadyExist
}

// ErrRelationshipNotExist represents a missing edge.
type ErrRelationshipNotExist struct {
	ID        int64
	Kind      RelationshipKind
	SubjectID int64
	ObjectID  int64
}

// IsErrRelationshipNotExist checks if an error is an ErrRelationshipNotExist.
func IsErrRelationshipNotExist(err error) bool {
	_, ok := err.(ErrRelationshipNotExist)
	return ok
}

func (err ErrRelationshipNotExist) Error() string {
	return fmt.Sprintf("relationship does not exist [id: %d, kind: %s, subject: %d, object: %d]", err.ID, err.Kind, err.SubjectID, err.ObjectID)
}

// Unwrap unwraps this as a ErrNotExist err
func (err ErrRelationshipNotExist) Unwrap() error {
	return util.ErrNotExist
}

// ErrNotFollowRequest represents an attempt to promote an edge that is not a pending follow request.
type ErrNotFollowRequest struct {
	ID   int64
	Kind RelationshipKind
}

// IsErrNotFollowRequest checks if an error is an ErrNotFollowRequest.
func IsErrNotFollowRequest(err error) bool {
	_, ok := err.(ErrNotFollowRequest)
	return ok
}

func (err ErrNotFollowRequest) Error() string {
	return fmt.Sprintf("relationship is not a follow request [id: %d, kind: %s]", err.ID, err.Kind)
}

// Unwrap unwraps this as a ErrInvalidArgument err
func (err ErrNotFollowRequest) Unwrap() error {
	return util.ErrInvalidArgument
}
