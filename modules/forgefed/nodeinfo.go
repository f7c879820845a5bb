// Copyright 2023, 2025 The Forgejo Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package forgefed

import (
	"errors"
	"net/url"
	"strings"

	"fedireads.org/modules/json"
	"fedireads.org/modules/validation"
)

// WellKnownNodeInfoURI returns the nodeinfo discovery document of the server an actor lives on.
func WellKnownNodeInfoURI(actorID *url.URL) string {
	return (&url.URL{Scheme: actorID.Scheme, Host: actorID.Host, Path: "/.well-known/nodeinfo"}).String()
}

// NodeInfoWellKnown is the link of a discovery document to the nodeinfo document.
type NodeInfoWellKnown struct {
	Href string
}

type nodeInfoWellKnownDocument struct {
	Links []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

// NewNodeInfoWellKnown parses a discovery document and picks the link of the newest nodeinfo schema.
func NewNodeInfoWellKnown(body []byte) (NodeInfoWellKnown, error) {
	var document nodeInfoWellKnownDocument
	if err := json.Unmarshal(body, &document); err != nil {
		return NodeInfoWellKnown{}, err
	}
	result := NodeInfoWellKnown{}
	newest := ""
	for _, link := range document.Links {
		if !strings.HasPrefix(link.Rel, "http://nodeinfo.diaspora.software/ns/schema/") {
			continue
		}
		if link.Rel > newest {
			newest = link.Rel
			result.Href = link.Href
		}
	}
	if result.Href == "" {
		return NodeInfoWellKnown{}, errors.New("discovery document links to no nodeinfo")
	}
	if valid, err := validation.IsValid(result); !valid {
		return NodeInfoWellKnown{}, err
	}
	return result, nil
}

func (node NodeInfoWellKnown) Validate() []string {
	return validation.ValidateHTTPURL(node.Href, "node.Href")
}

// NodeInfo is the software part of a nodeinfo document.
type NodeInfo struct {
	SoftwareName    string
	SoftwareVersion string
}

type nodeInfoDocument struct {
	Software struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"software"`
}

// NewNodeInfo parses a nodeinfo 2.x document.
func NewNodeInfo(body []byte) (NodeInfo, error) {
	var document nodeInfoDocument
	if err := json.Unmarshal(body, &document); err != nil {
		return NodeInfo{}, err
	}
	result := NodeInfo{
		SoftwareName:    strings.ToLower(strings.TrimSpace(document.Software.Name)),
		SoftwareVersion: strings.TrimSpace(document.Software.Version),
	}
	if valid, err := validation.IsValid(result); !valid {
		return NodeInfo{}, err
	}
	return result, nil
}

func (node NodeInfo) Validate() []string {
	var result []string
	result = append(result, validation.ValidateNotEmpty(node.SoftwareName, "node.SoftwareName")...)
	result = append(result, validation.ValidateMaxLen(node.SoftwareName, 255, "node.SoftwareName")...)
	result = append(result, validation.ValidateMaxLen(node.SoftwareVersion, 255, "node.SoftwareVersion")...)
	return result
}
