// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package db

import (
	"context"
	"errors"
	"fmt"

	"fedireads.org/modules/setting"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const (
	pqUniqueViolation       = "23505"
	pqCheckViolation        = "23514"
	mysqlDuplicateEntry     = 1062
	mysqlDuplicateEntryWith = 1586
	mysqlCheckViolated      = 3819
)

// IsErrUniqueViolation reports whether err was raised by a unique or primary key
// constraint of any supported database. Inserts racing on the same unique key
// all reach the database; the losers get this error.
func IsErrUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry || mysqlErr.Number == mysqlDuplicateEntryWith
	}
	return false
}

// IsErrCheckViolation reports whether err was raised by a check constraint, or
// by the triggers standing in for one on SQLite.
func IsErrCheckViolation(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintCheck ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintTrigger
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqCheckViolation
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlCheckViolated
	}
	return false
}

// EnsureColumnsDiffer adds the check constraint name to table, rejecting rows
// where column equals other. It does nothing when the constraint exists.
// SQLite cannot add constraints to existing tables, so two triggers named
// after the constraint take its place there.
func EnsureColumnsDiffer(ctx context.Context, table, name, column, other string) error {
	e := GetEngine(ctx)

	switch {
	case setting.Database.Type.IsSQLite3():
		for _, event := range []string{"INSERT", "UPDATE"} {
			stmt := fmt.Sprintf("CREATE TRIGGER IF NOT EXISTS `%s_%s` BEFORE %s ON `%s` FOR EACH ROW WHEN NEW.`%s` = NEW.`%s` "+
				"BEGIN SELECT RAISE(ABORT, 'CHECK constraint failed: %s'); END",
				name, event, event, table, column, other, name)
			if _, err := e.Exec(stmt); err != nil {
				return err
			}
		}
		return nil
	case setting.Database.Type.IsPostgreSQL():
		var count int64
		if _, err := e.SQL("SELECT COUNT(*) FROM pg_constraint WHERE conname = ?", name).Get(&count); err != nil {
			return err
		} else if count > 0 {
			return nil
		}
		_, err := e.Exec(fmt.Sprintf(`ALTER TABLE "%s" ADD CONSTRAINT "%s" CHECK ("%s" <> "%s")`, table, name, column, other))
		return err
	case setting.Database.Type.IsMySQL():
		var count int64
		if _, err := e.SQL("SELECT COUNT(*) FROM information_schema.TABLE_CONSTRAINTS WHERE CONSTRAINT_SCHEMA = DATABASE() AND TABLE_NAME = ? AND CONSTRAINT_NAME = ?", table, name).Get(&count); err != nil {
			return err
		} else if count > 0 {
			return nil
		}
		_, err := e.Exec(fmt.Sprintf("ALTER TABLE `%s` ADD CONSTRAINT `%s` CHECK (`%s` <> `%s`)", table, name, column, other))
		return err
	}
	return fmt.Errorf("unsupported database type %q", setting.Database.Type)
}
