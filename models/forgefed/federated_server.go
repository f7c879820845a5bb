// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package forgefed

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"fedireads.org/models/db"
	"fedireads.org/modules/setting"
	"fedireads.org/modules/timeutil"
	"fedireads.org/modules/util"
	"fedireads.org/modules/validation"

	"xorm.io/builder"
)

// FederationStatus tells whether an instance is federated with.
type FederationStatus string

const (
	StatusFederated FederationStatus = "federated"
	StatusBlocked   FederationStatus = "blocked"
)

// MaxServerNameLength is the maximum length of a fully qualified domain name.
const MaxServerNameLength = 255

// FederatedServer is another instance this one knows about.
type FederatedServer struct {
	ID                 int64            `xorm:"pk autoincr"`
	ServerName         string           `xorm:"UNIQUE NOT NULL"`
	Status             FederationStatus `xorm:"VARCHAR(255) NOT NULL DEFAULT 'federated'"`
	ApplicationType    sql.NullString
	ApplicationVersion sql.NullString

	CreatedUnix timeutil.TimeStamp `xorm:"created"`
	UpdatedUnix timeutil.TimeStamp `xorm:"updated"`
}

func init() {
	db.RegisterModel(new(FederatedServer))
}

// NewFederatedServer returns an unsaved federated server.
func NewFederatedServer(serverName, applicationType, applicationVersion string) (FederatedServer, error) {
	result := FederatedServer{
		ServerName:         strings.ToLower(strings.TrimSpace(serverName)),
		Status:             StatusFederated,
		ApplicationType:    sql.NullString{String: applicationType, Valid: applicationType != ""},
		ApplicationVersion: sql.NullString{String: applicationVersion, Valid: applicationVersion != ""},
	}
	if valid, err := validation.IsValid(result); !valid {
		return FederatedServer{}, err
	}
	return result, nil
}

// Validate implements validation.Validateable.
func (server FederatedServer) Validate() []string {
	var result []string
	result = append(result, validation.ValidateNotEmpty(server.ServerName, "ServerName")...)
	result = append(result, validation.ValidateMaxLen(server.ServerName, MaxServerNameLength, "ServerName")...)
	if server.ServerName != strings.ToLower(server.ServerName) {
		result = append(result, fmt.Sprintf("ServerName has to be lower case but was: %v", server.ServerName))
	}
	if strings.ContainsAny(server.ServerName, "/@: ") {
		result = append(result, fmt.Sprintf("ServerName has to be a bare host name but was: %v", server.ServerName))
	}
	result = append(result, validation.ValidateOneOf(server.Status, []any{StatusFederated, StatusBlocked}, "Status")...)
	return result
}

// IsBlocked reports whether the server is blocked, by its status or by [federation] BLOCKED_DOMAINS.
func (server *FederatedServer) IsBlocked() bool {
	return server.Status == StatusBlocked || setting.IsBlockedDomain(server.ServerName)
}

// CreateFederatedServer inserts a new server.
func CreateFederatedServer(ctx context.Context, server *FederatedServer) error {
	if server.Status == "" {
		server.Status = StatusFederated
	}
	if valid, err := validation.IsValid(server); !valid {
		return err
	}
	if _, err := db.GetEngine(ctx).Insert(server); err != nil {
		if db.IsErrUniqueViolation(err) {
			return ErrFederatedServerAlreadyExist{ServerName: server.ServerName}
		}
		return err
	}
	return nil
}

// GetFederatedServer returns the server with the given id.
func GetFederatedServer(ctx context.Context, id int64) (*FederatedServer, error) {
	server, has, err := db.GetByID[FederatedServer](ctx, id)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrFederatedServerNotExist{ID: id}
	}
	return server, nil
}

// FindFederatedServerByName returns the server with the given name or nil if it is not known.
func FindFederatedServerByName(ctx context.Context, serverName string) (*FederatedServer, error) {
	server := new(FederatedServer)
	has, err := db.GetEngine(ctx).Where("server_name=?", strings.ToLower(serverName)).Get(server)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, nil
	}
	return server, nil
}

// FindOrCreateFederatedServer returns the server with the given name and creates it when it is not known.
func FindOrCreateFederatedServer(ctx context.Context, serverName, applicationType, applicationVersion string) (*FederatedServer, error) {
	server, err := FindFederatedServerByName(ctx, serverName)
	if err != nil || server != nil {
		return server, err
	}

	created, err := NewFederatedServer(serverName, applicationType, applicationVersion)
	if err != nil {
		return nil, err
	}
	if err := CreateFederatedServer(ctx, &created); err != nil {
		if !IsErrFederatedServerAlreadyExist(err) {
			return nil, err
		}
		// lost a race against a concurrent insert
		server, err = FindFederatedServerByName(ctx, serverName)
		if err != nil {
			return nil, err
		} else if server == nil {
			return nil, ErrFederatedServerNotExist{ServerName: serverName}
		}
		return server, nil
	}
	return &created, nil
}

// UpdateFederatedServerStatus sets the federation status of a server.
func UpdateFederatedServerStatus(ctx context.Context, server *FederatedServer, status FederationStatus) error {
	previous := server.Status
	server.Status = status
	if valid, err := validation.IsValid(server); !valid {
		server.Status = previous
		return err
	}
	updated, err := db.GetEngine(ctx).ID(server.ID).Cols("status").Update(server)
	if err != nil {
		server.Status = previous
		return err
	}
	if updated == 0 {
		exist, err := db.Exist[FederatedServer](ctx, builder.Eq{"id": server.ID})
		if err != nil {
			return err
		} else if !exist {
			server.Status = previous
			return ErrFederatedServerNotExist{ID: server.ID}
		}
	}
	return nil
}

// DeleteFederatedServer removes a server that no remote user belongs to anymore.
func DeleteFederatedServer(ctx context.Context, server *FederatedServer) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		count, err := db.GetEngine(ctx).Table("user").Where("federated_server_id=?", server.ID).Count()
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrFederatedServerInUse{ID: server.ID, Users: count}
		}
		deleted, err := db.DeleteByID[FederatedServer](ctx, server.ID)
		if err != nil {
			return err
		} else if deleted == 0 {
			return ErrFederatedServerNotExist{ID: server.ID}
		}
		return nil
	})
}

// IsServerBlocked reports whether a server with the given name is known and blocked.
func IsServerBlocked(ctx context.Context, serverName string) (bool, error) {
	if setting.IsBlockedDomain(serverName) {
		return true, nil
	}
	return db.Exist[FederatedServer](ctx, builder.Eq{"server_name": strings.ToLower(serverName), "status": StatusBlocked})
}

// ErrFederatedServerNotExist represents an unknown server.
type ErrFederatedServerNotExist struct {
	ID         int64
	ServerName string
}

// IsErrFederatedServerNotExist checks if an error is an ErrFederatedServerNotExist.
func IsErrFederatedServerNotExist(err error) bool {
	_, ok := err.(ErrFederatedServerNotExist)
	return ok
}

func (err ErrFederatedServerNotExist) Error() string {
	return fmt.Sprintf("federated server does not exist [id: %d, name: %s]", err.ID, err.ServerName)
}

// Unwrap unwraps this as a ErrNotExist err
func (err ErrFederatedServerNotExist) Unwrap() error {
	return util.ErrNotExist
}

// ErrFederatedServerAlreadyExist represents a server name that is taken.
type ErrFederatedServerAlreadyExist struct {
	ServerName string
}

// IsErrFederatedServerAlreadyExist checks if an error is an ErrFederatedServerAlreadyExist.
func IsErrFederatedServerAlreadyExist(err error) bool {
	_, ok := err.(ErrFederatedServerAlreadyExist)
	return ok
}

func (err ErrFederatedServerAlreadyExist) Error() string {
	return fmt.Sprintf("federated server already exists [name: %s]", err.ServerName)
}

// Unwrap unwraps this as a ErrAlreadyExist err
func (err ErrFederatedServerAlreadyExist) Unwrap() error {
	return util.ErrAlreadyExist
}

// ErrFederatedServerInUse represents the deletion of a server remote users still belong to.
type ErrFederatedServerInUse struct {
	ID    int64
	Users int64
}

// IsErrFederatedServerInUse checks if an error is an ErrFederatedServerInUse.
func IsErrFederatedServerInUse(err error) bool {
	_, ok := err.(ErrFederatedServerInUse)
	return ok
}

func (err ErrFederatedServerInUse) Error() string {
	return fmt.Sprintf("federated server still has users [id: %d, users: %d]", err.ID, err.Users)
}
