// Copyright 2023 The Gitea Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"fedireads.org/models/db"
	user_model "fedireads.org/models/user"
	"fedireads.org/modules/activitypub"
	fm "fedireads.org/modules/forgefed"
	"fedireads.org/modules/json"
	"fedireads.org/modules/setting"
	"fedireads.org/modules/validation"
	"fedireads.org/services/federation"
	user_service "fedireads.org/services/user"

	"github.com/urfave/cli/v3"
	"xorm.io/builder"
)

func microcmdUserCreate() *cli.Command {
	return &cli.Command{
		Name:   "create",
		Usage:  "Create a new local user with its keys and default shelves",
		Action: runCreateUser,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "username",
				Usage: "Localname of the user, the part before @domain",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "The display name of the user",
			},
			&cli.StringFlag{
				Name:  "summary",
				Usage: "A short description of the user",
			},
			&cli.StringFlag{
				Name:  "avatar",
				Usage: "URL of the avatar of the user",
			},
			&cli.BoolFlag{
				Name:  "manually-approves-followers",
				Usage: "Follows of the user need its approval (defaults to [federation] MANUALLY_APPROVE_FOLLOWERS_DEFAULT)",
			},
		},
	}
}

func microcmdUserAddRemote() *cli.Command {
	return &cli.Command{
		Name:   "add-remote",
		Usage:  "Register an actor of another instance from its ActivityPub document",
		Action: runAddRemoteUser,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "actor",
				Usage: "File holding the actor document, - reads standard input",
			},
			&cli.StringFlag{
				Name:  "fetch",
				Usage: "Id of the actor, its document and the nodeinfo of its instance are fetched",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout of each request made by --fetch",
				Value: 10 * time.Second,
			},
			&cli.StringFlag{
				Name:  "nodeinfo",
				Usage: "File holding the nodeinfo document of the instance of the actor",
			},
		},
	}
}

func microcmdUserShow() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a user",
		ArgsUsage: "<localname|username|actor id>",
		Action:    runShowUser,
	}
}

func microcmdUserList() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List users",
		Action: runListUsers,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "local",
				Usage: "Only list local users",
			},
		},
	}
}

func microcmdUserDelete() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a user without relationships",
		ArgsUsage: "<localname|username|actor id>",
		Action:    runDeleteUser,
	}
}

// userInfo is what the user commands print about a user.
type userInfo struct {
	ID                        int64  `json:"id"`
	Username                  string `json:"username"`
	Localname                 string `json:"localname,omitempty"`
	ActorID                   string `json:"actor_id"`
	Name                      string `json:"name"`
	Summary                   string `json:"summary,omitempty"`
	Avatar                    string `json:"avatar,omitempty"`
	Local                     bool   `json:"local"`
	FedireadsUser             bool   `json:"fedireads_user"`
	ManuallyApprovesFollowers bool   `json:"manually_approves_followers"`
	Inbox                     string `json:"inbox"`
	Outbox                    string `json:"outbox"`
	SharedInbox               string `json:"shared_inbox,omitempty"`
	PublicKey                 string `json:"public_key,omitempty"`
	Followers                 int64  `json:"followers"`
	Following                 int64  `json:"following"`
}

func newUserInfo(ctx context.Context, u *user_model.User) (*userInfo, error) {
	followers, err := db.Count[user_model.Relationship](ctx, user_model.FindRelationshipOptions{Kind: user_model.KindFollow, ObjectID: u.ID}.ToConds())
	if err != nil {
		return nil, err
	}
	following, err := db.Count[user_model.Relationship](ctx, user_model.FindRelationshipOptions{Kind: user_model.KindFollow, SubjectID: u.ID}.ToConds())
	if err != nil {
		return nil, err
	}
	return &userInfo{
		ID:                        u.ID,
		Username:                  u.Username,
		Localname:                 u.GetLocalname(),
		ActorID:                   u.APActorID(),
		Name:                      u.DisplayName(),
		Summary:                   u.Summary,
		Avatar:                    u.Avatar,
		Local:                     u.Local,
		FedireadsUser:             u.FedireadsUser,
		ManuallyApprovesFollowers: u.ManuallyApprovesFollowers,
		Inbox:                     u.Inbox,
		Outbox:                    u.Outbox,
		SharedInbox:               u.SharedInbox,
		PublicKey:                 u.PublicKey,
		Followers:                 followers,
		Following:                 following,
	}, nil
}

func runCreateUser(ctx context.Context, c *cli.Command) error {
	if err := argsSet(c, "username"); err != nil {
		return err
	}

	ctx, cancel := installSignals(ctx)
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	manuallyApproves := setting.Federation.ManuallyApproveFollowersByDefault
	if c.IsSet("manually-approves-followers") {
		manuallyApproves = c.Bool("manually-approves-followers")
	}

	u, err := user_service.CreateLocalUser(ctx, identityConfig(), user_service.CreateLocalUserOptions{
		Username:                  c.String("username"),
		Name:                      c.String("name"),
		Summary:                   c.String("summary"),
		Avatar:                    c.String("avatar"),
		ManuallyApprovesFollowers: manuallyApproves,
	})
	if err != nil {
		return fmt.Errorf("CreateLocalUser: %w", err)
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "New user '%s' has been successfully created!\n", u.Username)
	return nil
}

func readInput(c *cli.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(c.Root().Reader)
	}
	return os.ReadFile(path)
}

func runAddRemoteUser(ctx context.Context, c *cli.Command) error {
	if c.IsSet("fetch") {
		return runFetchRemoteUser(ctx, c)
	}
	if err := argsSet(c, "actor"); err != nil {
		return err
	}

	body, err := readInput(c, c.String("actor"))
	if err != nil {
		return err
	}
	person := new(fm.Person)
	if err := json.Unmarshal(body, person); err != nil {
		return fmt.Errorf("unable to parse the actor document: %w", err)
	}
	if valid, err := validation.IsValid(person); !valid {
		return err
	}

	var node *fm.NodeInfo
	if c.IsSet("nodeinfo") {
		body, err := readInput(c, c.String("nodeinfo"))
		if err != nil {
			return err
		}
		info, err := fm.NewNodeInfo(body)
		if err != nil {
			return fmt.Errorf("unable to parse the nodeinfo document: %w", err)
		}
		node = &info
	}

	ctx, cancel := installSignals(ctx)
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	u, err := user_service.CreateRemoteUserFromPerson(ctx, person, node)
	if err != nil {
		return fmt.Errorf("CreateRemoteUser: %w", err)
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "Remote user '%s' has been registered!\n", u.Username)
	return nil
}

func runFetchRemoteUser(ctx context.Context, c *cli.Command) error {
	if c.IsSet("actor") || c.IsSet("nodeinfo") {
		return errors.New("--fetch cannot be combined with --actor or --nodeinfo")
	}

	ctx, cancel := installSignals(ctx)
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	client := activitypub.NewClient(c.Duration("timeout"))
	u, err := federation.ResolveRemoteUser(ctx, client, c.String("fetch"))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "Remote user '%s' is known as user %d.\n", u.Username, u.ID)
	return nil
}

func userFromArgs(ctx context.Context, c *cli.Command) (*user_model.User, error) {
	if c.NArg() != 1 {
		return nil, errors.New("exactly one user must be given")
	}
	return user_model.GetUserByRef(ctx, c.Args().First())
}

func runShowUser(ctx context.Context, c *cli.Command) error {
	ctx, cancel := installSignals(ctx)
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	u, err := userFromArgs(ctx, c)
	if err != nil {
		return err
	}
	info, err := newUserInfo(ctx, u)
	if err != nil {
		return err
	}
	return writeJSON(c.Root().Writer, info)
}

func runListUsers(ctx context.Context, c *cli.Command) error {
	ctx, cancel := installSignals(ctx)
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	cond := builder.NewCond()
	if c.Bool("local") {
		cond = cond.And(builder.Eq{"local": true})
	}

	w := tabwriter.NewWriter(c.Root().Writer, 5, 0, 1, ' ', 0)
	_, _ = fmt.Fprintf(w, "ID\tUsername\tLocal\tActor\n")
	err := db.Iterate(ctx, cond, func(ctx context.Context, u *user_model.User) error {
		_, err := fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", u.ID, u.Username, u.Local, u.APActorID())
		return err
	})
	if err != nil {
		return err
	}
	return w.Flush()
}

func runDeleteUser(ctx context.Context, c *cli.Command) error {
	ctx, cancel := installSignals(ctx)
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	u, err := userFromArgs(ctx, c)
	if err != nil {
		return err
	}
	if err := user_service.DeleteUser(ctx, u); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "User '%s' has been deleted.\n", u.Username)
	return nil
}
