// Copyright 2023, 2024, 2025 The Forgejo Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package forgefed

import (
	"bytes"

	"fedireads.org/modules/json"
	"fedireads.org/modules/validation"

	ap "github.com/go-ap/activitypub"
)

// Person is the actor of a user, with the follower approval flag
// that is not part of the ActivityStreams vocabulary.
type Person struct {
	ap.Actor
	ManuallyApprovesFollowers bool
}

type personExtension struct {
	ManuallyApprovesFollowers bool `json:"manuallyApprovesFollowers"`
}

func (s Person) MarshalJSON() ([]byte, error) {
	data, err := s.Actor.MarshalJSON()
	if err != nil || len(data) < 2 {
		return data, err
	}
	extension, err := json.Marshal(personExtension{ManuallyApprovesFollowers: s.ManuallyApprovesFollowers})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	if len(data) > 2 {
		buf.WriteByte(',')
	}
	buf.Write(extension[1:])
	return buf.Bytes(), nil
}

func (s *Person) UnmarshalJSON(data []byte) error {
	if err := s.Actor.UnmarshalJSON(data); err != nil {
		return err
	}
	var extension personExtension
	if err := json.Unmarshal(data, &extension); err != nil {
		return err
	}
	s.ManuallyApprovesFollowers = extension.ManuallyApprovesFollowers
	return nil
}

func (s Person) Validate() []string {
	var result []string
	result = append(result, validation.ValidateNotEmpty(string(s.Type), "Type")...)
	result = append(result, validation.ValidateOneOf(string(s.Type), []any{string(ap.PersonType), string(ap.ServiceType), string(ap.ApplicationType)}, "Type")...)
	result = append(result, validation.ValidateIDExists(s.ID, "ID")...)
	result = append(result, validation.ValidateNotEmpty(s.PreferredUsername.String(), "PreferredUsername")...)
	result = append(result, validation.ValidateIDExists(s.Inbox, "Inbox")...)
	result = append(result, validation.ValidateNotEmpty(s.PublicKey.PublicKeyPem, "PublicKey.PublicKeyPem")...)
	return result
}
