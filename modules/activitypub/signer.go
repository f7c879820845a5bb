// Copyright 2022 The Gitea Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package activitypub

import (
	"bytes"
	"context"
	"crypto"
	"fmt"
	"net/http"
	"strings"
	"time"

	user_model "fedireads.org/models/user"
	"fedireads.org/modules/keypair"
	"fedireads.org/modules/setting"

	"github.com/42wim/httpsig"
)

// CurrentTime returns the time in the format of the Date header
func CurrentTime() string {
	return strings.ReplaceAll(time.Now().UTC().Format(time.RFC1123), "UTC", "GMT")
}

// Signer signs outgoing requests with the key of a local user.
type Signer struct {
	algs        []httpsig.Algorithm
	digestAlg   httpsig.DigestAlgorithm
	postHeaders []string
	expiry      int64
	priv        crypto.PrivateKey
	pubID       string
}

// ErrNotSigningUser represents a user without a private key trying to sign.
type ErrNotSigningUser struct {
	UID int64
}

func (err ErrNotSigningUser) Error() string {
	return fmt.Sprintf("user cannot sign requests, it has no private key [uid: %d]", err.UID)
}

// NewSigner returns a signer for a local user.
func NewSigner(u *user_model.User) (*Signer, error) {
	if u.PrivateKey == "" {
		return nil, ErrNotSigningUser{UID: u.ID}
	}
	priv, err := keypair.ParsePrivateKey(u.PrivateKey)
	if err != nil {
		return nil, err
	}

	algs := make([]httpsig.Algorithm, len(setting.Federation.SignatureAlgorithms))
	for i, alg := range setting.Federation.SignatureAlgorithms {
		algs[i] = httpsig.Algorithm(alg)
	}
	return &Signer{
		algs:        algs,
		digestAlg:   httpsig.DigestAlgorithm(setting.Federation.DigestAlgorithm),
		postHeaders: setting.Federation.PostHeaders,
		expiry:      setting.Federation.SignatureExpiry,
		priv:        priv,
		pubID:       u.APActorKeyID(),
	}, nil
}

// KeyID returns the id of the public key that verifies the signatures.
func (s *Signer) KeyID() string {
	return s.pubID
}

// NewPostRequest returns a signed POST of body to an inbox. The request is not sent.
func (s *Signer) NewPostRequest(ctx context.Context, body []byte, to string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, to, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Accept", "application/json, "+ActivityStreamsContentType)
	req.Header.Add("Date", CurrentTime())
	req.Header.Add("Host", req.URL.Host)
	req.Header.Add("User-Agent", "Fedireads")
	req.Header.Add("Content-Type", ActivityStreamsContentType)

	signer, _, err := httpsig.NewSigner(s.algs, s.digestAlg, s.postHeaders, httpsig.Signature, s.expiry)
	if err != nil {
		return nil, err
	}
	if err := signer.SignRequest(s.priv, s.pubID, req, body); err != nil {
		return nil, err
	}
	return req, nil
}

// VerifyRequest checks the signature of a request against the public key of its signer.
func VerifyRequest(r *http.Request, signer *user_model.User) error {
	verifier, err := httpsig.NewVerifier(r)
	if err != nil {
		return err
	}
	if verifier.KeyId() != signer.APActorKeyID() {
		return fmt.Errorf("request is signed by %q, not by %q", verifier.KeyId(), signer.APActorKeyID())
	}
	pub, err := keypair.ParsePublicKey(signer.PublicKey)
	if err != nil {
		return err
	}

	var lastErr error
	for _, alg := range setting.Federation.SignatureAlgorithms {
		if lastErr = verifier.Verify(pub, httpsig.Algorithm(alg)); lastErr == nil {
			return nil
		}
	}
	return lastErr
}
