// Copyright 2024, 2025 The Forgejo Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package federation

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"fedireads.org/models/forgefed"
	user_model "fedireads.org/models/user"
	"fedireads.org/modules/activitypub"
	fm "fedireads.org/modules/forgefed"
	"fedireads.org/modules/log"
	"fedireads.org/modules/util"
	"fedireads.org/modules/validation"
	user_service "fedireads.org/services/user"

	"golang.org/x/sync/singleflight"
)

// concurrent resolutions of one actor share a single fetch
var resolveGroup singleflight.Group

// resolveTimeout bounds a shared fetch, which no single caller may cancel.
var resolveTimeout = time.Minute

// ResolveRemoteUser returns the user with the given actor id. Actors that are
// not known yet are fetched from their instance and stored. Actors of blocked
// instances are refused without contacting the instance.
func ResolveRemoteUser(ctx context.Context, client *activitypub.Client, actorID string) (*user_model.User, error) {
	u, err := user_model.GetUserByRemoteID(ctx, actorID)
	if err == nil {
		return u, nil
	} else if !user_model.IsErrUserNotExist(err) {
		return nil, err
	}

	ch := resolveGroup.DoChan(actorID, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resolveTimeout)
		defer cancel()
		return fetchRemoteUser(ctx, client, actorID)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Trace("Resolution of %s was shared", actorID)
		}
		return res.Val.(*user_model.User), nil
	}
}

func fetchRemoteUser(ctx context.Context, client *activitypub.Client, actorID string) (*user_model.User, error) {
	actorURL, err := url.ParseRequestURI(actorID)
	if err != nil {
		return nil, err
	} else if actorURL.Host == "" {
		return nil, util.NewInvalidArgumentErrorf("actor id %q is not an absolute url", actorID)
	}
	blocked, err := forgefed.IsServerBlocked(ctx, actorURL.Hostname())
	if err != nil {
		return nil, err
	} else if blocked {
		return nil, user_service.ErrFederatedServerBlocked{ServerName: actorURL.Hostname()}
	}

	person, err := fetchPerson(ctx, client, actorID)
	if err != nil {
		return nil, err
	}

	// the software of an instance is informative only
	node, err := fetchNodeInfo(ctx, client, actorURL)
	if err != nil {
		log.Warn("Unable to fetch the nodeinfo of %s: %v", actorURL.Host, err)
		node = nil
	}

	return user_service.CreateRemoteUserFromPerson(ctx, person, node)
}

func fetchPerson(ctx context.Context, client *activitypub.Client, actorID string) (*fm.Person, error) {
	body, err := client.GetBody(ctx, actorID)
	if err != nil {
		return nil, err
	}
	person := new(fm.Person)
	if err := person.UnmarshalJSON(body); err != nil {
		return nil, err
	}
	if valid, err := validation.IsValid(person); !valid {
		return nil, err
	}
	if person.ID.String() != actorID {
		return nil, fmt.Errorf("fetched actor %s claims to be %s", actorID, person.ID)
	}
	log.Trace("Fetched valid person: %s", person.ID)
	return person, nil
}

func fetchNodeInfo(ctx context.Context, client *activitypub.Client, actorURL *url.URL) (*fm.NodeInfo, error) {
	body, err := client.GetBody(ctx, fm.WellKnownNodeInfoURI(actorURL))
	if err != nil {
		return nil, err
	}
	wellKnown, err := fm.NewNodeInfoWellKnown(body)
	if err != nil {
		return nil, err
	}
	body, err = client.GetBody(ctx, wellKnown.Href)
	if err != nil {
		return nil, err
	}
	node, err := fm.NewNodeInfo(body)
	if err != nil {
		return nil, err
	}
	return &node, nil
}
