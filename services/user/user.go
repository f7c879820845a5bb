// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"fedireads.org/models/db"
	"fedireads.org/models/forgefed"
	shelf_model "fedireads.org/models/shelf"
	user_model "fedireads.org/models/user"
	fm "fedireads.org/modules/forgefed"
	"fedireads.org/modules/keypair"
	"fedireads.org/modules/log"
	"fedireads.org/modules/util"
)

// IdentityConfig is what identity provisioning needs to know about this instance.
type IdentityConfig struct {
	Domain    string
	Generator keypair.Generator
}

// CreateLocalUserOptions describes a new account of this instance.
type CreateLocalUserOptions struct {
	Username                  string
	Name                      string
	Summary                   string
	Avatar                    string
	ManuallyApprovesFollowers bool
}

// CreateLocalUser provisions the federation identity of a new local user,
// stores it and gives it the default shelves. Either all of it happens or
// nothing is stored.
func CreateLocalUser(ctx context.Context, cfg IdentityConfig, opts CreateLocalUserOptions) (*user_model.User, error) {
	if cfg.Domain == "" || cfg.Generator == nil {
		return nil, util.NewInvalidArgumentErrorf("domain and key generator are required to create local users")
	}

	u := &user_model.User{
		Username:                  opts.Username,
		Name:                      opts.Name,
		Summary:                   opts.Summary,
		Avatar:                    opts.Avatar,
		Local:                     true,
		FedireadsUser:             true,
		ManuallyApprovesFollowers: opts.ManuallyApprovesFollowers,
	}

	err := db.WithTx(ctx, func(ctx context.Context) error {
		// key generation is expensive, fail early on a taken name
		if _, err := user_model.GetUserByLocalname(ctx, opts.Username); err == nil {
			return user_model.ErrUserAlreadyExist{Name: user_model.FederatedUsername(cfg.Domain, opts.Username)}
		} else if !user_model.IsErrUserNotExist(err) {
			return err
		}

		if err := user_model.ProvisionIdentity(u, cfg.Domain, cfg.Generator); err != nil {
			return err
		}
		if err := user_model.CreateUser(ctx, u); err != nil {
			return err
		}
		return shelf_model.CreateDefaultShelves(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Created local user[%d] %s", u.ID, u.Username)
	return u, nil
}

// CreateRemoteUserOptions describes an actor of another instance.
type CreateRemoteUserOptions struct {
	RemoteID                  string
	Username                  string
	Name                      string
	Summary                   string
	Avatar                    string
	Inbox                     string
	Outbox                    string
	SharedInbox               string
	PublicKey                 string
	ManuallyApprovesFollowers bool
	FedireadsUser             bool
	ApplicationType           string
	ApplicationVersion        string
}

// ErrFederatedServerBlocked represents an actor of a blocked instance.
type ErrFederatedServerBlocked struct {
	ServerName string
}

// IsErrFederatedServerBlocked checks if an error is an ErrFederatedServerBlocked.
func IsErrFederatedServerBlocked(err error) bool {
	_, ok := err.(ErrFederatedServerBlocked)
	return ok
}

func (err ErrFederatedServerBlocked) Error() string {
	return fmt.Sprintf("federated server is blocked [name: %s]", err.ServerName)
}

// Unwrap unwraps this as a ErrPermissionDenied err
func (err ErrFederatedServerBlocked) Unwrap() error {
	return util.ErrPermissionDenied
}

// CreateRemoteUser stores an actor of another instance. The instance is
// registered when it is not known yet. Remote users never get an identity
// or shelves provisioned.
func CreateRemoteUser(ctx context.Context, opts CreateRemoteUserOptions) (*user_model.User, error) {
	remoteURL, err := url.Parse(opts.RemoteID)
	if err != nil || remoteURL.Host == "" {
		return nil, util.NewInvalidArgumentErrorf("remote id %q is not an absolute url", opts.RemoteID)
	}
	serverName := strings.ToLower(remoteURL.Hostname())

	username := opts.Username
	if username == "" {
		return nil, util.NewInvalidArgumentErrorf("remote user %s has no username", opts.RemoteID)
	}
	if !strings.Contains(username, "@") {
		username = username + "@" + serverName
	}

	u := &user_model.User{
		Username:                  username,
		RemoteID:                  sql.NullString{String: opts.RemoteID, Valid: true},
		Name:                      opts.Name,
		Summary:                   opts.Summary,
		Avatar:                    opts.Avatar,
		Inbox:                     opts.Inbox,
		Outbox:                    opts.Outbox,
		SharedInbox:               opts.SharedInbox,
		PublicKey:                 opts.PublicKey,
		Local:                     false,
		FedireadsUser:             opts.FedireadsUser,
		ManuallyApprovesFollowers: opts.ManuallyApprovesFollowers,
	}

	err = db.WithTx(ctx, func(ctx context.Context) error {
		server, err := forgefed.FindOrCreateFederatedServer(ctx, serverName, opts.ApplicationType, opts.ApplicationVersion)
		if err != nil {
			return err
		}
		if server.IsBlocked() {
			return ErrFederatedServerBlocked{ServerName: server.ServerName}
		}
		u.FederatedServerID = server.ID
		return user_model.CreateUser(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Registered remote user[%d] %s of %s", u.ID, u.Username, serverName)
	return u, nil
}

// CreateRemoteUserFromPerson stores the actor described by person. node may be nil
// when the software of the instance is not known.
func CreateRemoteUserFromPerson(ctx context.Context, person *fm.Person, node *fm.NodeInfo) (*user_model.User, error) {
	if person == nil {
		return nil, errors.New("no person to create a remote user from")
	}
	opts := CreateRemoteUserOptions{
		RemoteID:                  person.ID.String(),
		Username:                  person.PreferredUsername.String(),
		Name:                      person.Name.String(),
		Summary:                   person.Summary.String(),
		PublicKey:                 person.PublicKey.PublicKeyPem,
		ManuallyApprovesFollowers: person.ManuallyApprovesFollowers,
	}
	if person.Inbox != nil {
		opts.Inbox = person.Inbox.GetLink().String()
	}
	if person.Outbox != nil {
		opts.Outbox = person.Outbox.GetLink().String()
	}
	if person.Endpoints != nil && person.Endpoints.SharedInbox != nil {
		opts.SharedInbox = person.Endpoints.SharedInbox.GetLink().String()
	}
	if node != nil {
		opts.ApplicationType = node.SoftwareName
		opts.ApplicationVersion = node.SoftwareVersion
		opts.FedireadsUser = node.SoftwareName == "fedireads"
	}
	return CreateRemoteUser(ctx, opts)
}

// UpdateProfile changes the editable profile of a user. Identity and keys are never changed.
func UpdateProfile(ctx context.Context, u *user_model.User, name, summary string, manuallyApprovesFollowers bool) error {
	u.Name = name
	u.Summary = summary
	u.ManuallyApprovesFollowers = manuallyApprovesFollowers
	return user_model.UpdateUser(ctx, u)
}

// DeleteUser removes a user and its shelves. Users that still have relationships are kept.
func DeleteUser(ctx context.Context, u *user_model.User) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		if err := shelf_model.DeleteShelvesByUser(ctx, u.ID); err != nil {
			return err
		}
		return user_model.DeleteUser(ctx, u)
	})
}
