// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package activitypub

import (
	user_model "fedireads.org/models/user"
	"fedireads.org/modules/forgefed"
	"fedireads.org/modules/validation"

	ap "github.com/go-ap/activitypub"
)

// PersonFromUser returns the actor other instances see for a user.
func PersonFromUser(u *user_model.User) (*forgefed.Person, error) {
	link := u.APActorID()
	person := &forgefed.Person{ManuallyApprovesFollowers: u.ManuallyApprovesFollowers}
	person.ID = ap.IRI(link)
	person.Type = ap.PersonType

	preferredUsername := u.GetLocalname()
	if preferredUsername == "" {
		preferredUsername = u.Username
	}
	person.PreferredUsername = ap.NaturalLanguageValuesNew()
	if err := person.PreferredUsername.Set(ap.NilLangRef, ap.Content(preferredUsername)); err != nil {
		return nil, err
	}

	person.Name = ap.NaturalLanguageValuesNew()
	if err := person.Name.Set(ap.NilLangRef, ap.Content(u.DisplayName())); err != nil {
		return nil, err
	}

	if u.Summary != "" {
		person.Summary = ap.NaturalLanguageValuesNew()
		if err := person.Summary.Set(ap.NilLangRef, ap.Content(u.Summary)); err != nil {
			return nil, err
		}
	}

	if u.Avatar != "" {
		person.Icon = ap.Image{
			Type: ap.ImageType,
			URL:  ap.IRI(u.Avatar),
		}
	}

	person.Inbox = ap.IRI(u.Inbox)
	person.Outbox = ap.IRI(u.Outbox)
	if u.SharedInbox != "" {
		person.Endpoints = &ap.Endpoints{SharedInbox: ap.IRI(u.SharedInbox)}
	}

	person.PublicKey.ID = ap.IRI(u.APActorKeyID())
	person.PublicKey.Owner = ap.IRI(link)
	person.PublicKey.PublicKeyPem = u.PublicKey

	if valid, err := validation.IsValid(person); !valid {
		return nil, err
	}
	return person, nil
}
