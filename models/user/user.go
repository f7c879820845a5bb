// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package user

import (
	"context"
	"database/sql"
	"strings"

	"fedireads.org/models/db"
	"fedireads.org/modules/timeutil"
	"fedireads.org/modules/validation"

	"xorm.io/builder"
)

// User represents a local account or a cached remote actor.
type User struct {
	ID                        int64          `xorm:"pk autoincr"`
	Username                  string         `xorm:"UNIQUE NOT NULL"`
	Localname                 sql.NullString `xorm:"UNIQUE"`
	RemoteID                  sql.NullString `xorm:"UNIQUE"`
	Name                      string
	Summary                   string `xorm:"TEXT"`
	Avatar                    string
	Inbox                     string `xorm:"UNIQUE NOT NULL"`
	Outbox                    string `xorm:"UNIQUE NOT NULL"`
	SharedInbox               string
	PublicKey                 string `xorm:"TEXT"`
	PrivateKey                string `xorm:"TEXT"`
	Local                     bool   `xorm:"NOT NULL DEFAULT false"`
	FedireadsUser             bool   `xorm:"NOT NULL DEFAULT true"`
	FederatedServerID         int64  `xorm:"INDEX"`
	ManuallyApprovesFollowers bool   `xorm:"NOT NULL DEFAULT false"`

	CreatedUnix timeutil.TimeStamp `xorm:"INDEX created"`
	UpdatedUnix timeutil.TimeStamp `xorm:"INDEX updated"`
}

func init() {
	db.RegisterModel(new(User))
}

// Validate checks the identity invariants of local and remote users.
func (u User) Validate() []string {
	var result []string
	result = append(result, validation.ValidateNotEmpty(u.Username, "Username")...)
	result = append(result, validation.ValidateNotEmpty(u.Inbox, "Inbox")...)
	result = append(result, validation.ValidateNotEmpty(u.Outbox, "Outbox")...)
	result = append(result, validation.ValidateNotEmpty(u.RemoteID.String, "RemoteID")...)
	if u.RemoteID.String != "" {
		result = append(result, validation.ValidateHTTPURL(u.RemoteID.String, "RemoteID")...)
	}
	if u.Local {
		result = append(result, validation.ValidateNotEmpty(u.Localname.String, "Localname")...)
		result = append(result, validation.ValidatePattern(u.Localname.String, localnamePattern, "Localname")...)
		result = append(result, validation.ValidateNotEmpty(u.SharedInbox, "SharedInbox")...)
		result = append(result, validation.ValidateNotEmpty(u.PublicKey, "PublicKey")...)
		result = append(result, validation.ValidateNotEmpty(u.PrivateKey, "PrivateKey")...)
	} else {
		if u.Localname.Valid {
			result = append(result, "Localname must be empty for remote users")
		}
		if u.PrivateKey != "" {
			result = append(result, "PrivateKey must be empty for remote users")
		}
	}
	return result
}

// GetLocalname returns the local name of a local user and an empty string for remote users.
func (u *User) GetLocalname() string {
	return u.Localname.String
}

// GetRemoteID returns the ActivityPub id of the user.
func (u *User) GetRemoteID() string {
	return u.RemoteID.String
}

// DisplayName returns the display name if set, the username otherwise.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return u.Username
}

// APActorID returns the IRI of the actor representing the user.
func (u *User) APActorID() string {
	return u.RemoteID.String
}

// APActorKeyID returns the IRI of the public key of the actor.
func (u *User) APActorKeyID() string {
	return u.APActorID() + "#main-key"
}

// IsRemote is true for users that are owned by another instance.
func (u *User) IsRemote() bool {
	return !u.Local
}

// CreateUser inserts a fully provisioned user.
func CreateUser(ctx context.Context, u *User) error {
	if valid, err := validation.IsValid(u); !valid {
		return err
	}
	if _, err := db.GetEngine(ctx).Insert(u); err != nil {
		if db.IsErrUniqueViolation(err) {
			return ErrUserAlreadyExist{Name: u.Username}
		}
		return err
	}
	return nil
}

// GetUserByID returns the user with the given id.
func GetUserByID(ctx context.Context, id int64) (*User, error) {
	u := new(User)
	has, err := db.GetEngine(ctx).ID(id).Get(u)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrUserNotExist{UID: id}
	}
	return u, nil
}

// GetUserByLocalname returns the local user with the given local name.
func GetUserByLocalname(ctx context.Context, localname string) (*User, error) {
	if localname == "" {
		return nil, ErrUserNotExist{Name: localname}
	}
	u := new(User)
	has, err := db.GetEngine(ctx).Where("localname=?", localname).Get(u)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrUserNotExist{Name: localname}
	}
	return u, nil
}

// GetUserByRemoteID returns the user with the given ActivityPub id.
func GetUserByRemoteID(ctx context.Context, remoteID string) (*User, error) {
	if remoteID == "" {
		return nil, ErrUserNotExist{Name: remoteID}
	}
	u := new(User)
	has, err := db.GetEngine(ctx).Where("remote_id=?", remoteID).Get(u)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrUserNotExist{Name: remoteID}
	}
	return u, nil
}

// GetUserByUsername returns the user with the given federated username, e.g. alice@example.org.
func GetUserByUsername(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, ErrUserNotExist{Name: username}
	}
	u := new(User)
	has, err := db.GetEngine(ctx).Where("username=?", username).Get(u)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrUserNotExist{Name: username}
	}
	return u, nil
}

// GetUserByRef resolves how a user is usually referred to: an ActivityPub id,
// a federated username or the localname of a local user.
func GetUserByRef(ctx context.Context, ref string) (*User, error) {
	switch {
	case strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://"):
		return GetUserByRemoteID(ctx, ref)
	case strings.Contains(ref, "@"):
		return GetUserByUsername(ctx, strings.TrimPrefix(ref, "@"))
	default:
		return GetUserByLocalname(ctx, ref)
	}
}

// GetUsersByIDs returns the users with the given ids, ordered by id.
func GetUsersByIDs(ctx context.Context, ids []int64) ([]*User, error) {
	users := make([]*User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	return users, db.GetEngine(ctx).In("id", ids).Asc("id").Find(&users)
}

// CountUsers returns the number of users, local ones only when local is true.
func CountUsers(ctx context.Context, local bool) (int64, error) {
	cond := builder.NewCond()
	if local {
		cond = cond.And(builder.Eq{"local": true})
	}
	return db.GetEngine(ctx).Where(cond).Count(new(User))
}

// UpdateUser writes the profile columns of the user. Identity and key columns are never written.
func UpdateUser(ctx context.Context, u *User) error {
	if valid, err := validation.IsValid(u); !valid {
		return err
	}
	_, err := db.GetEngine(ctx).ID(u.ID).Cols("name", "summary", "avatar", "manually_approves_followers", "fedireads_user").Update(u)
	return err
}

// DeleteUser removes a user that no relationship refers to anymore.
func DeleteUser(ctx context.Context, u *User) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		count, err := db.GetEngine(ctx).Where(builder.Or(
			builder.Eq{"subject_id": u.ID},
			builder.Eq{"object_id": u.ID},
		)).Count(new(Relationship))
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrUserHasRelationships{UID: u.ID, Count: count}
		}

		deleted, err := db.DeleteByID[User](ctx, u.ID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return ErrUserNotExist{UID: u.ID}
		}
		return nil
	})
}
