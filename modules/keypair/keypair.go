// Copyright 2021 The Gitea Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package keypair generates and parses the RSA key pairs actors sign federated requests with.
package keypair

//go:generate mockgen -package mock -destination ./mock/mock_generator.go fedireads.org/modules/keypair Generator

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// Generator creates a new key pair, both halves PEM encoded.
type Generator interface {
	Generate() (privPem, pubPem string, err error)
}

// RSAGenerator generates RSA key pairs of the given size
type RSAGenerator struct {
	Bits int
}

var _ Generator = RSAGenerator{}

// Generate implements Generator
func (g RSAGenerator) Generate() (string, string, error) {
	return GenerateKeyPair(g.Bits)
}

// GenerateKeyPair generates a public and private keypair
func GenerateKeyPair(bits int) (string, string, error) {
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return "", "", fmt.Errorf("generate %d bit rsa key: %w", bits, err)
	}
	privPem := pemBlockForPriv(priv)
	pubPem, err := pemBlockForPub(&priv.PublicKey)
	if err != nil {
		return "", "", err
	}
	return privPem, pubPem, nil
}

func pemBlockForPriv(priv *rsa.PrivateKey) string {
	privBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	})
	return string(privBytes)
}

func pemBlockForPub(pub *rsa.PublicKey) (string, error) {
	pubASN1, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", err
	}
	pubBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubASN1,
	})
	return string(pubBytes), nil
}

// ParsePrivateKey decodes a PEM block produced by GenerateKeyPair
func ParsePrivateKey(privPem string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(privPem))
	if block == nil || block.Type != "RSA PRIVATE KEY" {
		return nil, errors.New("could not decode private key pem to RSA PRIVATE KEY block")
	}
	return x509.ParsePKCS1PrivateKey(block.Bytes)
}

// ParsePublicKey decodes a PKIX "PUBLIC KEY" PEM block
func ParsePublicKey(pubPem string) (any, error) {
	block, _ := pem.Decode([]byte(pubPem))
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, errors.New("could not decode publicKeyPem to PUBLIC KEY pem block type")
	}
	return x509.ParsePKIXPublicKey(block.Bytes)
}
