// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"testing"
	"time"

	"fedireads.org/modules/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsFrom(t *testing.T) {
	cfg, err := NewConfigProviderFromData(`
[server]
DOMAIN = Example.org

[federation]
RSA_BITS = 4096
MANUALLY_APPROVE_FOLLOWERS_DEFAULT = true
SIGNATURE_ALGORITHMS = rsa-sha512, ed25519, rsa-bogus
DIGEST_ALGORITHM = MD5

[database]
DB_TYPE = postgres
HOST = db:5432
NAME = fedireads
SLOW_QUERY_THRESHOLD = 2s

[log]
LEVEL = debug
MODE = json
`)
	require.NoError(t, err)
	require.NoError(t, LoadSettingsFrom(cfg))
	defer log.InitLoggers("console", log.INFO)

	assert.Equal(t, "example.org", Federation.Domain)
	assert.Equal(t, 4096, Federation.RSABits)
	assert.True(t, Federation.ManuallyApproveFollowersByDefault)
	assert.Equal(t, []string{"rsa-sha512"}, Federation.SignatureAlgorithms)
	assert.Equal(t, "SHA-256", Federation.DigestAlgorithm)
	assert.Equal(t, []string{"(request-target)", "Date", "Host", "Digest"}, Federation.PostHeaders)
	assert.True(t, Database.Type.IsPostgreSQL())
	assert.Equal(t, "db:5432", Database.Host)
	assert.Equal(t, 2*time.Second, Database.SlowQueryThreshold)
	assert.Equal(t, "disable", Database.SSLMode)
	assert.Equal(t, log.DEBUG, Log.Level)
	assert.Equal(t, "json", Log.Mode)
}

func TestLoadSettingsDefaults(t *testing.T) {
	cfg, err := NewConfigProviderFromData("[server]\nDOMAIN = reads.example\n[federation]\nRSA_BITS = 1024\n")
	require.NoError(t, err)
	require.NoError(t, LoadSettingsFrom(cfg))

	assert.Equal(t, 2048, Federation.RSABits)
	assert.Equal(t, []string{"rsa-sha256", "rsa-sha512"}, Federation.SignatureAlgorithms)
	assert.EqualValues(t, 60, Federation.SignatureExpiry)
	assert.EqualValues(t, 4<<20, Federation.MaxSize)
	assert.True(t, Database.Type.IsSQLite3())
	assert.Equal(t, "console", Log.Mode)
	assert.Equal(t, log.INFO, Log.Level)
}

func TestLoadSettingsRejectsBadDomain(t *testing.T) {
	for _, content := range []string{
		"",
		"[server]\nDOMAIN = https://example.org\n",
		"[server]\nDOMAIN = example.org/reads\n",
	} {
		cfg, err := NewConfigProviderFromData(content)
		require.NoError(t, err)
		assert.Error(t, LoadSettingsFrom(cfg), content)
	}
}

func TestNewConfigProviderFromMissingFile(t *testing.T) {
	cfg, err := NewConfigProviderFromFile(t.TempDir() + "/missing.ini")
	require.NoError(t, err)
	assert.False(t, cfg.HasSection("server"))
}

func TestBlockedDomains(t *testing.T) {
	cfg, err := NewConfigProviderFromData("[server]\nDOMAIN = reads.example\n[federation]\nBLOCKED_DOMAINS = *.Spam.example, evil.example\n")
	require.NoError(t, err)
	require.NoError(t, LoadSettingsFrom(cfg))
	defer func() {
		blockedDomainGlobs = nil
		Federation.BlockedDomains = nil
	}()

	assert.Equal(t, []string{"*.spam.example", "evil.example"}, Federation.BlockedDomains)
	assert.True(t, IsBlockedDomain("evil.example"))
	assert.True(t, IsBlockedDomain("a.spam.example"))
	assert.True(t, IsBlockedDomain("A.SPAM.example"))
	assert.False(t, IsBlockedDomain("a.b.spam.example"))
	assert.False(t, IsBlockedDomain("spam.example"))
	assert.False(t, IsBlockedDomain("remote.example"))
}
