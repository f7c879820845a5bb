// Copyright 2022 The Gitea Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"errors"
	"strings"

	"fedireads.org/modules/log"

	"github.com/42wim/httpsig"
	"github.com/gobwas/glob"
)

// Federation holds the settings that shape federation identifiers and signatures
var Federation = struct {
	Domain                            string
	RSABits                           int
	ManuallyApproveFollowersByDefault bool
	DigestAlgorithm                   string
	PostHeaders                       []string
	SignatureAlgorithms               []string
	SignatureExpiry                   int64
	MaxSize                           int64
	BlockedDomains                    []string
}{
	RSABits:             2048,
	DigestAlgorithm:     "SHA-256",
	PostHeaders:         []string{"(request-target)", "Date", "Host", "Digest"},
	SignatureAlgorithms: []string{"rsa-sha256", "rsa-sha512"},
	SignatureExpiry:     60,
	MaxSize:             4 << 20,
}

var blockedDomainGlobs []glob.Glob

// IsBlockedDomain reports whether host matches one of the [federation] BLOCKED_DOMAINS patterns.
func IsBlockedDomain(host string) bool {
	host = strings.ToLower(host)
	for _, g := range blockedDomainGlobs {
		if g.Match(host) {
			return true
		}
	}
	return false
}

func loadFederationFrom(rootCfg ConfigProvider) error {
	Federation.Domain = strings.ToLower(strings.TrimSpace(rootCfg.Section("server").Key("DOMAIN").String()))
	if Federation.Domain == "" {
		return errors.New("[server] DOMAIN must be set")
	}
	if strings.ContainsAny(Federation.Domain, "/@ ") {
		return errors.New("[server] DOMAIN must be a bare host name, without scheme or path")
	}

	sec := rootCfg.Section("federation")
	Federation.RSABits = sec.Key("RSA_BITS").InInt(2048, []int{2048, 3072, 4096})
	Federation.ManuallyApproveFollowersByDefault = sec.Key("MANUALLY_APPROVE_FOLLOWERS_DEFAULT").MustBool(false)
	Federation.DigestAlgorithm = sec.Key("DIGEST_ALGORITHM").MustString("SHA-256")
	Federation.PostHeaders = sec.Key("POST_HEADERS").Strings(",")
	if len(Federation.PostHeaders) == 0 {
		Federation.PostHeaders = []string{"(request-target)", "Date", "Host", "Digest"}
	}
	Federation.SignatureAlgorithms = sec.Key("SIGNATURE_ALGORITHMS").Strings(",")
	Federation.SignatureExpiry = sec.Key("SIGNATURE_EXPIRY").MustInt64(60)
	// MaxSize is given in MiB
	Federation.MaxSize = 1 << 20 * sec.Key("MAX_SIZE").MustInt64(4)

	if !httpsig.IsSupportedDigestAlgorithm(Federation.DigestAlgorithm) {
		log.Error("[federation] DIGEST_ALGORITHM = %q is not supported, falling back to SHA-256", Federation.DigestAlgorithm)
		Federation.DigestAlgorithm = "SHA-256"
	}

	// keys are RSA, so only the rsa algorithms can sign
	algorithms := make([]string, 0, len(Federation.SignatureAlgorithms))
	for _, algorithm := range Federation.SignatureAlgorithms {
		if !strings.HasPrefix(algorithm, "rsa-") || !httpsig.IsSupportedHttpSigAlgorithm(algorithm) {
			log.Error("[federation] SIGNATURE_ALGORITHMS contains unsupported %q, ignoring it", algorithm)
			continue
		}
		algorithms = append(algorithms, algorithm)
	}
	if len(algorithms) == 0 {
		algorithms = []string{"rsa-sha256", "rsa-sha512"}
	}
	Federation.SignatureAlgorithms = algorithms

	Federation.BlockedDomains = Federation.BlockedDomains[:0]
	blockedDomainGlobs = blockedDomainGlobs[:0]
	for _, pattern := range sec.Key("BLOCKED_DOMAINS").Strings(",") {
		pattern = strings.ToLower(pattern)
		g, err := glob.Compile(pattern, '.')
		if err != nil {
			log.Error("[federation] BLOCKED_DOMAINS contains invalid pattern %q: %v", pattern, err)
			continue
		}
		Federation.BlockedDomains = append(Federation.BlockedDomains, pattern)
		blockedDomainGlobs = append(blockedDomainGlobs, g)
	}
	return nil
}
