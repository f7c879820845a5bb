// Copyright 2022 The Gitea Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package activitypub

// ActivityStreamsContentType const
const ActivityStreamsContentType = `application/ld+json; profile="https://www.w3.org/ns/activitystreams"`
