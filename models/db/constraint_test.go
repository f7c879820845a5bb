// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package db

import (
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestIsErrUniqueViolationDrivers(t *testing.T) {
	cases := []struct {
		err      error
		expected bool
	}{
		{sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, true},
		{sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, true},
		{sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}, false},
		{&pq.Error{Code: "23505"}, true},
		{&pq.Error{Code: "23503"}, false},
		{&mysql.MySQLError{Number: 1062}, true},
		{&mysql.MySQLError{Number: 1586}, true},
		{&mysql.MySQLError{Number: 1452}, false},
		{fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, IsErrUniqueViolation(c.err), "%v", c.err)
	}
}

func TestIsErrCheckViolationDrivers(t *testing.T) {
	cases := []struct {
		err      error
		expected bool
	}{
		{sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}, true},
		{sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintTrigger}, true},
		{sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, false},
		{&pq.Error{Code: "23514"}, true},
		{&pq.Error{Code: "23505"}, false},
		{&mysql.MySQLError{Number: 3819}, true},
		{&mysql.MySQLError{Number: 1062}, false},
		{fmt.Errorf("insert: %w", &pq.Error{Code: "23514"}), true},
		{nil, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, IsErrCheckViolation(c.err), "%v", c.err)
	}
}
