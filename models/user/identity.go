// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package user

import (
	"database/sql"
	"fmt"
	"regexp"
	"unicode/utf8"

	"fedireads.org/modules/keypair"
)

// MaxLocalnameLength is the maximum number of runes of a local name.
const MaxLocalnameLength = 150

var localnamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.\-]+$`)

// IsValidLocalname reports whether name can be used as the local part of a federated username.
func IsValidLocalname(name string) bool {
	return name != "" && utf8.RuneCountInString(name) <= MaxLocalnameLength && localnamePattern.MatchString(name)
}

// RemoteIDFor returns the ActivityPub id of the local user named localname.
func RemoteIDFor(domain, localname string) string {
	return fmt.Sprintf("https://%s/user/%s", domain, localname)
}

// InboxFor returns the inbox of the actor with the given id.
func InboxFor(remoteID string) string {
	return remoteID + "/inbox"
}

// OutboxFor returns the outbox of the actor with the given id.
func OutboxFor(remoteID string) string {
	return remoteID + "/outbox"
}

// SharedInboxFor returns the instance wide inbox.
func SharedInboxFor(domain string) string {
	return fmt.Sprintf("https://%s/inbox", domain)
}

// FederatedUsername returns the username a local user is known by across instances.
func FederatedUsername(domain, localname string) string {
	return localname + "@" + domain
}

// ProvisionIdentity fills in the federation identifiers and the key pair of a
// local user that has not been stored yet. Stored and remote users are left
// untouched. The localname is always derived from the username. On error u is
// not modified.
func ProvisionIdentity(u *User, domain string, gen keypair.Generator) error {
	if u.ID != 0 || !u.Local {
		return nil
	}
	raw := u.Username
	if !IsValidLocalname(raw) {
		return ErrInvalidUsername{Name: raw}
	}

	privateKey, publicKey := u.PrivateKey, u.PublicKey
	if privateKey == "" {
		var err error
		privateKey, publicKey, err = gen.Generate()
		if err != nil {
			return err
		}
	}

	remoteID := RemoteIDFor(domain, raw)
	u.RemoteID = sql.NullString{String: remoteID, Valid: true}
	u.Localname = sql.NullString{String: raw, Valid: true}
	u.Username = FederatedUsername(domain, raw)
	u.Inbox = InboxFor(remoteID)
	u.SharedInbox = SharedInboxFor(domain)
	u.Outbox = OutboxFor(remoteID)
	u.PrivateKey, u.PublicKey = privateKey, publicKey
	return nil
}
