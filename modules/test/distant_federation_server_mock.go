// Copyright 2025 The Forgejo Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FederationServerMockPerson is an actor the mock instance serves.
type FederationServerMockPerson struct {
	Name                      string
	DisplayName               string
	ManuallyApprovesFollowers bool
	PubKey                    string
}

// FederationServerMock is another instance: it serves actors and nodeinfo
// and remembers which paths were requested.
type FederationServerMock struct {
	Persons         []FederationServerMockPerson
	SoftwareName    string
	SoftwareVersion string

	mu       sync.Mutex
	requests map[string]int
}

func NewFederationServerMockPerson(name string) FederationServerMockPerson {
	return FederationServerMockPerson{
		Name:        name,
		DisplayName: name,
		PubKey: `"-----BEGIN PUBLIC KEY-----\nMIIBojANBgkqhkiG9w0BAQEFAAOCAY8AMIIBigKCAYEA18H5s7N6ItZUAh9tneII\nIuZdTTa3cZlLa/9ejWAHTkcp3WLW+/zbsumlMrWYfBy2/yTm56qasWt38iY4D6ul\n` +
			`CPiwhAqX3REvVq8tM79a2CEqZn9ka6vuXoDgBg/sBf/BUWqf7orkjUXwk/U0Egjf\nk5jcurF4vqf1u+rlAHH37dvSBaDjNj6Qnj4OP12bjfaY/yvs7+jue/eNXFHjzN4E\n` +
			`T2H4B/yeKTJ4UuAwTlLaNbZJul2baLlHelJPAsxiYaziVuV5P+IGWckY6RSerRaZ\nAkc4mmGGtjAyfN9aewe+lNVfwS7ElFx546PlLgdQgjmeSwLX8FWxbPE5A/PmaXCs\n` +
			`nx+nou+3dD7NluULLtdd7K+2x02trObKXCAzmi5/Dc+yKTzpFqEz+hLNCz7TImP/\ncK//NV9Q+X67J9O27baH9R9ZF4zMw8rv2Pg0WLSw1z7lLXwlgIsDapeMCsrxkVO4\n` +
			`LXX5AQ1xQNtlssnVoUBqBrvZsX2jUUKUocvZqMGuE4hfAgMBAAE=\n-----END PUBLIC KEY-----\n"`,
	}
}

func (p FederationServerMockPerson) marshal(host string) string {
	return fmt.Sprintf(`{"@context":["https://www.w3.org/ns/activitystreams","https://w3id.org/security/v1"],`+
		`"id":"http://%[1]v/user/%[2]v",`+
		`"type":"Person",`+
		`"preferredUsername":"%[2]v",`+
		`"name":"%[3]v",`+
		`"inbox":"http://%[1]v/user/%[2]v/inbox",`+
		`"outbox":"http://%[1]v/user/%[2]v/outbox",`+
		`"endpoints":{"sharedInbox":"http://%[1]v/inbox"},`+
		`"manuallyApprovesFollowers":%[4]v,`+
		`"publicKey":{"id":"http://%[1]v/user/%[2]v#main-key",`+
		`"owner":"http://%[1]v/user/%[2]v",`+
		`"publicKeyPem":%[5]v}}`, host, p.Name, p.DisplayName, p.ManuallyApprovesFollowers, p.PubKey)
}

func NewFederationServerMock() *FederationServerMock {
	return &FederationServerMock{
		Persons: []FederationServerMockPerson{
			NewFederationServerMockPerson("stargoose1"),
			NewFederationServerMockPerson("stargoose2"),
		},
		SoftwareName:    "fedireads",
		SoftwareVersion: "0.5.1",
		requests:        map[string]int{},
	}
}

// Requests returns how often path was requested.
func (mock *FederationServerMock) Requests(path string) int {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.requests[path]
}

func (mock *FederationServerMock) count(req *http.Request) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	mock.requests[req.URL.Path]++
}

func (mock *FederationServerMock) DistantServer(t *testing.T) *httptest.Server {
	federatedRoutes := http.NewServeMux()
	federatedRoutes.HandleFunc("/.well-known/nodeinfo",
		func(res http.ResponseWriter, req *http.Request) {
			mock.count(req)
			fmt.Fprintf(res, `{"links":[{"href":"http://%s/nodeinfo/2.0","rel":"http://nodeinfo.diaspora.software/ns/schema/2.0"}]}`, req.Host)
		})
	federatedRoutes.HandleFunc("/nodeinfo/2.0",
		func(res http.ResponseWriter, req *http.Request) {
			mock.count(req)
			fmt.Fprintf(res, `{"version":"2.0","software":{"name":"%s","version":"%s"},`+
				`"protocols":["activitypub"],"usage":{"users":{"total":%d}},"openRegistrations":false}`,
				mock.SoftwareName, mock.SoftwareVersion, len(mock.Persons))
		})
	for _, person := range mock.Persons {
		federatedRoutes.HandleFunc(fmt.Sprintf("/user/%s", person.Name),
			func(res http.ResponseWriter, req *http.Request) {
				mock.count(req)
				fmt.Fprint(res, person.marshal(req.Host))
			})
	}
	federatedRoutes.HandleFunc("/",
		func(res http.ResponseWriter, req *http.Request) {
			mock.count(req)
			t.Logf("Unhandled request: %q", req.URL.EscapedPath())
			http.NotFound(res, req)
		})
	federatedSrv := httptest.NewServer(federatedRoutes)
	return federatedSrv
}
