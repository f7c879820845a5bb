// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package shelf

import (
	"context"
	"fmt"

	"fedireads.org/models/db"
	user_model "fedireads.org/models/user"
	"fedireads.org/modules/timeutil"
	"fedireads.org/modules/util"
	"fedireads.org/modules/validation"
)

// Shelf is a named collection of books owned by a user.
type Shelf struct {
	ID         int64  `xorm:"pk autoincr"`
	Name       string `xorm:"NOT NULL"`
	Identifier string `xorm:"UNIQUE(shelf_user_identifier) NOT NULL"`
	UserID     int64  `xorm:"UNIQUE(shelf_user_identifier) INDEX NOT NULL"`
	Editable   bool   `xorm:"NOT NULL DEFAULT true"`

	CreatedUnix timeutil.TimeStamp `xorm:"created"`
	UpdatedUnix timeutil.TimeStamp `xorm:"updated"`
}

func init() {
	db.RegisterModel(new(Shelf))
}

// Validate implements validation.Validateable.
func (s Shelf) Validate() []string {
	var result []string
	result = append(result, validation.ValidateNotEmpty(s.Name, "Name")...)
	result = append(result, validation.ValidateMaxLen(s.Name, 100, "Name")...)
	result = append(result, validation.ValidateNotEmpty(s.Identifier, "Identifier")...)
	result = append(result, validation.ValidateMaxLen(s.Identifier, 100, "Identifier")...)
	result = append(result, validation.ValidateNotEmpty(s.UserID, "UserID")...)
	return result
}

// CreateShelf stores a new shelf for owner.
func CreateShelf(ctx context.Context, name, identifier string, owner *user_model.User, editable bool) (*Shelf, error) {
	s := &Shelf{
		Name:       name,
		Identifier: identifier,
		UserID:     owner.ID,
		Editable:   editable,
	}
	if valid, err := validation.IsValid(s); !valid {
		return nil, err
	}
	if _, err := db.GetEngine(ctx).Insert(s); err != nil {
		if db.IsErrUniqueViolation(err) {
			return nil, ErrShelfAlreadyExist{UserID: owner.ID, Identifier: identifier}
		}
		return nil, err
	}
	return s, nil
}

// GetShelvesByUser returns the shelves of a user in creation order.
func GetShelvesByUser(ctx context.Context, userID int64) ([]*Shelf, error) {
	shelves := make([]*Shelf, 0, len(DefaultShelves))
	return shelves, db.GetEngine(ctx).Where("user_id=?", userID).Asc("id").Find(&shelves)
}

// GetShelfByIdentifier returns the shelf of a user with the given identifier.
func GetShelfByIdentifier(ctx context.Context, userID int64, identifier string) (*Shelf, error) {
	s := new(Shelf)
	has, err := db.GetEngine(ctx).Where("user_id=? AND identifier=?", userID, identifier).Get(s)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrShelfNotExist{UserID: userID, Identifier: identifier}
	}
	return s, nil
}

// DeleteShelf removes an editable shelf.
func DeleteShelf(ctx context.Context, s *Shelf) error {
	if !s.Editable {
		return ErrShelfNotEditable{ID: s.ID, Identifier: s.Identifier}
	}
	deleted, err := db.DeleteByID[Shelf](ctx, s.ID)
	if err != nil {
		return err
	} else if deleted == 0 {
		return ErrShelfNotExist{UserID: s.UserID, Identifier: s.Identifier}
	}
	return nil
}

// DeleteShelvesByUser removes every shelf of a user, the default ones included.
func DeleteShelvesByUser(ctx context.Context, userID int64) error {
	_, err := db.GetEngine(ctx).Where("user_id=?", userID).Delete(new(Shelf))
	return err
}

// ErrShelfNotExist represents a missing shelf.
type ErrShelfNotExist struct {
	UserID     int64
	Identifier string
}

// IsErrShelfNotExist checks if an error is an ErrShelfNotExist.
func IsErrShelfNotExist(err error) bool {
	_, ok := err.(ErrShelfNotExist)
	return ok
}

func (err ErrShelfNotExist) Error() string {
	return fmt.Sprintf("shelf does not exist [user: %d, identifier: %s]", err.UserID, err.Identifier)
}

// Unwrap unwraps this as a ErrNotExist err
func (err ErrShelfNotExist) Unwrap() error {
	return util.ErrNotExist
}

// ErrShelfAlreadyExist represents a shelf identifier that is taken for its user.
type ErrShelfAlreadyExist struct {
	UserID     int64
	Identifier string
}

// IsErrShelfAlreadyExist checks if an error is an ErrShelfAlreadyExist.
func IsErrShelfAlreadyExist(err error) bool {
	_, ok := err.(ErrShelfAlreadyExist)
	return ok
}

func (err ErrShelfAlreadyExist) Error() string {
	return fmt.Sprintf("shelf already exists [user: %d, identifier: %s]", err.UserID, err.Identifier)
}

// Unwrap unwraps this as a ErrAlreadyExist err
func (err ErrShelfAlreadyExist) Unwrap() error {
	return util.ErrAlreadyExist
}

// ErrShelfNotEditable represents a change to a shelf every user must keep.
type ErrShelfNotEditable struct {
	ID         int64
	Identifier string
}

// IsErrShelfNotEditable checks if an error is an ErrShelfNotEditable.
func IsErrShelfNotEditable(err error) bool {
	_, ok := err.(ErrShelfNotEditable)
	return ok
}

func (err ErrShelfNotEditable) Error() string {
	return fmt.Sprintf("shelf is not editable [id: %d, identifier: %s]", err.ID, err.Identifier)
}

// Unwrap unwraps this as a ErrPermissionDenied err
func (err ErrShelfNotEditable) Unwrap() error {
	return util.ErrPermissionDenied
}
