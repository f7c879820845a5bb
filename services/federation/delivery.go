// Copyright 2024 The Forgejo Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package federation

import (
	"context"
	"fmt"
	"net/http"

	user_model "fedireads.org/models/user"
	"fedireads.org/modules/activitypub"
	"fedireads.org/modules/log"
)

// DeliveryItem is an activity of a local user addressed to the inbox of a remote user.
type DeliveryItem struct {
	Doer     *user_model.User
	InboxURL string
	Payload  []byte
}

// NewDeliveryItem renders activity for recipient. Local recipients need no
// delivery, nil is returned for them.
func NewDeliveryItem(doer, recipient *user_model.User, activity any) (*DeliveryItem, error) {
	if !doer.Local {
		return nil, fmt.Errorf("only local users deliver activities [uid: %d]", doer.ID)
	}
	if recipient.Local {
		return nil, nil
	}

	payload, err := activitypub.Marshal(activity)
	if err != nil {
		return nil, err
	}

	inbox := recipient.SharedInbox
	if inbox == "" {
		inbox = recipient.Inbox
	}
	return &DeliveryItem{
		Doer:     doer,
		InboxURL: inbox,
		Payload:  payload,
	}, nil
}

// SignedRequest returns the request that delivers the item, signed with the key of its doer.
func (item *DeliveryItem) SignedRequest(ctx context.Context) (*http.Request, error) {
	signer, err := activitypub.NewSigner(item.Doer)
	if err != nil {
		return nil, err
	}
	log.Debug("Signing delivery of %s to %s as %s", item.Payload, item.InboxURL, signer.KeyID())
	return signer.NewPostRequest(ctx, item.Payload, item.InboxURL)
}
