// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package shelf

import (
	"context"

	user_model "fedireads.org/models/user"
)

// DefaultShelf describes a shelf every local user starts with.
type DefaultShelf struct {
	Name       string
	Identifier string
}

// DefaultShelves are created for every new local user, in this order.
var DefaultShelves = []DefaultShelf{
	{Name: "To Read", Identifier: "to-read"},
	{Name: "Currently Reading", Identifier: "reading"},
	{Name: "Read", Identifier: "read"},
}

// IsDefaultIdentifier reports whether identifier belongs to a default shelf.
func IsDefaultIdentifier(identifier string) bool {
	for _, s := range DefaultShelves {
		if s.Identifier == identifier {
			return true
		}
	}
	return false
}

// CreateDefaultShelves gives a local user the non editable default shelves.
// Remote users are skipped.
func CreateDefaultShelves(ctx context.Context, owner *user_model.User) error {
	if !owner.Local {
		return nil
	}
	for _, s := range DefaultShelves {
		if _, err := CreateShelf(ctx, s.Name, s.Identifier, owner, false); err != nil {
			return err
		}
	}
	return nil
}
