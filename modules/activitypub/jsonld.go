// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package activitypub

import (
	ap "github.com/go-ap/activitypub"
	"github.com/go-ap/jsonld"
)

// Marshal renders v as a JSON-LD document with the ActivityStreams and security contexts.
func Marshal(v any) ([]byte, error) {
	return jsonld.WithContext(
		jsonld.IRI(ap.ActivityBaseURI),
		jsonld.IRI(ap.SecurityContextURI),
	).Marshal(v)
}
