// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"errors"
	"fmt"

	user_model "fedireads.org/models/user"
	"fedireads.org/modules/activitypub"
	fm "fedireads.org/modules/forgefed"
	"fedireads.org/services/federation"
	relationship_service "fedireads.org/services/relationship"

	"github.com/urfave/cli/v3"
)

func relationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "print-delivery",
			Usage: "Print the signed request that would deliver the activity to a remote user",
		},
	}
}

func microcmdRelationFollow() *cli.Command {
	return &cli.Command{
		Name:      "follow",
		Usage:     "Make a user follow another one, or request to when the other approves followers",
		ArgsUsage: "<follower> <followed>",
		Action:    runRelationFollow,
		Flags: append(relationFlags(), &cli.StringFlag{
			Name:  "activity-id",
			Usage: "Id of the Follow activity when it was received from another instance",
		}),
	}
}

func microcmdRelationAccept() *cli.Command {
	return &cli.Command{
		Name:      "accept",
		Usage:     "Accept a pending follow request",
		ArgsUsage: "<follower> <followed>",
		Action:    runRelationAccept,
		Flags:     relationFlags(),
	}
}

func microcmdRelationReject() *cli.Command {
	return &cli.Command{
		Name:      "reject",
		Usage:     "Reject a pending follow request",
		ArgsUsage: "<follower> <followed>",
		Action:    runRelationReject,
		Flags:     relationFlags(),
	}
}

func microcmdRelationUnfollow() *cli.Command {
	return &cli.Command{
		Name:      "unfollow",
		Usage:     "Remove a follow or withdraw a follow request",
		ArgsUsage: "<follower> <followed>",
		Action:    runRelationUnfollow,
		Flags:     relationFlags(),
	}
}

func microcmdRelationBlock() *cli.Command {
	return &cli.Command{
		Name:      "block",
		Usage:     "Make a user block another one",
		ArgsUsage: "<blocker> <blocked>",
		Action:    runRelationBlock,
		Flags: append(relationFlags(), &cli.StringFlag{
			Name:  "activity-id",
			Usage: "Id of the Block activity when it was received from another instance",
		}),
	}
}

func microcmdRelationUnblock() *cli.Command {
	return &cli.Command{
		Name:      "unblock",
		Usage:     "Remove a block",
		ArgsUsage: "<blocker> <blocked>",
		Action:    runRelationUnblock,
		Flags:     relationFlags(),
	}
}

func relationUsers(ctx context.Context, c *cli.Command) (subject, object *user_model.User, err error) {
	if c.NArg() != 2 {
		return nil, nil, errors.New("exactly two users must be given")
	}
	if subject, err = user_model.GetUserByRef(ctx, c.Args().Get(0)); err != nil {
		return nil, nil, err
	}
	if object, err = user_model.GetUserByRef(ctx, c.Args().Get(1)); err != nil {
		return nil, nil, err
	}
	return subject, object, nil
}

// printDelivery writes the signed request delivering activity from doer to recipient,
// if the flag asks for it and the recipient is remote.
func printDelivery(ctx context.Context, c *cli.Command, doer, recipient *user_model.User, activity fm.RelationshipActivity) error {
	if !c.Bool("print-delivery") {
		return nil
	}
	if !doer.Local {
		_, _ = fmt.Fprintf(c.Root().Writer, "Nothing to deliver, %s is not a local user.\n", doer.Username)
		return nil
	}
	item, err := federation.NewDeliveryItem(doer, recipient, activity)
	if err != nil {
		return err
	}
	if item == nil {
		_, _ = fmt.Fprintf(c.Root().Writer, "Nothing to deliver, %s is a local user.\n", recipient.Username)
		return nil
	}
	req, err := item.SignedRequest(ctx)
	if err != nil {
		return err
	}
	return req.Write(c.Root().Writer)
}

func runRelationFollow(ctx context.Context, c *cli.Command) error {
	ctx, cancel := installSignals(ctx)
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	subject, object, err := relationUsers(ctx, c)
	if err != nil {
		return err
	}
	r, err := relationship_service.Follow(ctx, subject, object, c.String("activity-id"))
	if err != nil {
		return err
	}
	if r.Kind == user_model.KindFollowRequest {
		_, _ = fmt.Fprintf(c.Root().Writer, "'%s' requested to follow '%s'.\n", subject.Username, object.Username)
	} else {
		_, _ = fmt.Fprintf(c.Root().Writer, "'%s' follows '%s'.\n", subject.Username, object.Username)
	}

	activity, err := activitypub.RelationshipActivity(ctx, r)
	if err != nil {
		return err
	}
	return printDelivery(ctx, c, subject, object, activity)
}

func runRelationAccept(ctx context.Context, c *cli.Command) error {
	return answerFollowRequest(ctx, c, true)
}

func runRelationReject(ctx context.Context, c *cli.Command) error {
	return answerFollowRequest(ctx, c, false)
}

func answerFollowRequest(ctx context.Context, c *cli.Command, accept bool) error {
	ctx, cancel := installSignals(ctx)
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	subject, object, err := relationUsers(ctx, c)
	if err != nil {
		return err
	}
	request, err := user_model.GetRelationship(ctx, user_model.KindFollowRequest, subject.ID, object.ID)
	if err != nil {
		return err
	}

	var activity fm.RelationshipActivity
	if accept {
		if _, err := relationship_service.AcceptFollowRequest(ctx, request); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(c.Root().Writer, "'%s' now follows '%s'.\n", subject.Username, object.Username)
		activity, err = activitypub.AcceptActivity(ctx, request)
	} else {
		if err := relationship_service.RejectFollowRequest(ctx, request); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(c.Root().Writer, "'%s' rejected the follow request of '%s'.\n", object.Username, subject.Username)
		activity, err = activitypub.RejectActivity(ctx, request)
	}
	if err != nil {
		return err
	}
	return printDelivery(ctx, c, object, subject, activity)
}

func runRelationUnfollow(ctx context.Context, c *cli.Command) error {
	ctx, cancel := installSignals(ctx)
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	subject, object, err := relationUsers(ctx, c)
	if err != nil {
		return err
	}
	removed, err := relationship_service.Unfollow(ctx, subject, object)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "'%s' no longer follows '%s'.\n", subject.Username, object.Username)

	activity, err := activitypub.UndoActivity(ctx, removed)
	if err != nil {
		return err
	}
	return printDelivery(ctx, c, subject, object, activity)
}

func runRelationBlock(ctx context.Context, c *cli.Command) error {
	ctx, cancel := installSignals(ctx)
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	subject, object, err := relationUsers(ctx, c)
	if err != nil {
		return err
	}
	block, err := relationship_service.Block(ctx, subject, object, c.String("activity-id"))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "'%s' blocks '%s'.\n", subject.Username, object.Username)

	activity, err := activitypub.RelationshipActivity(ctx, block)
	if err != nil {
		return err
	}
	return printDelivery(ctx, c, subject, object, activity)
}

func runRelationUnblock(ctx context.Context, c *cli.Command) error {
	ctx, cancel := installSignals(ctx)
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	subject, object, err := relationUsers(ctx, c)
	if err != nil {
		return err
	}
	removed, err := relationship_service.Unblock(ctx, subject, object)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "'%s' no longer blocks '%s'.\n", subject.Username, object.Username)

	activity, err := activitypub.UndoActivity(ctx, removed)
	if err != nil {
		return err
	}
	return printDelivery(ctx, c, subject, object, activity)
}
