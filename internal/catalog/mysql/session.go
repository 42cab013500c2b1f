package mysql

import (
	"context"
	"fmt"
)

// BackupParametersSQL renders the "backup_parameters" text block of §4.1:
// saving and overriding the client/connection character set attributes,
// pinning TIME_ZONE to UTC unless skipTZUTC, and relaxing the checks a
// bulk restore would otherwise pay for on every row.
func (a *Adapter) BackupParametersSQL(defaultCharset string, skipTZUTC bool) []string {
	stmts := []string{
		"SET @OLD_CHARACTER_SET_CLIENT=@@CHARACTER_SET_CLIENT;",
		"SET @OLD_CHARACTER_SET_RESULTS=@@CHARACTER_SET_RESULTS;",
		"SET @OLD_COLLATION_CONNECTION=@@COLLATION_CONNECTION;",
		fmt.Sprintf("SET NAMES %s;", defaultCharset),
	}
	if !skipTZUTC {
		stmts = append(stmts,
			"SET @OLD_TIME_ZONE=@@TIME_ZONE;",
			"SET TIME_ZONE='+00:00';",
		)
	}
	stmts = append(stmts,
		"SET @OLD_UNIQUE_CHECKS=@@UNIQUE_CHECKS, UNIQUE_CHECKS=0;",
		"SET @OLD_FOREIGN_KEY_CHECKS=@@FOREIGN_KEY_CHECKS, FOREIGN_KEY_CHECKS=0;",
		"SET @OLD_SQL_MODE=@@SQL_MODE, SQL_MODE='NO_AUTO_VALUE_ON_ZERO';",
		"SET @OLD_SQL_NOTES=@@SQL_NOTES, SQL_NOTES=0;",
	)
	return stmts
}

// RestoreParametersSQL is the symmetric restore of BackupParametersSQL.
func (a *Adapter) RestoreParametersSQL(skipTZUTC bool) []string {
	stmts := []string{
		"SET SQL_MODE=@OLD_SQL_MODE;",
		"SET FOREIGN_KEY_CHECKS=@OLD_FOREIGN_KEY_CHECKS;",
		"SET UNIQUE_CHECKS=@OLD_UNIQUE_CHECKS;",
	}
	if !skipTZUTC {
		stmts = append(stmts, "SET TIME_ZONE=@OLD_TIME_ZONE;")
	}
	stmts = append(stmts,
		"SET SQL_NOTES=@OLD_SQL_NOTES;",
		"SET CHARACTER_SET_CLIENT=@OLD_CHARACTER_SET_CLIENT;",
		"SET CHARACTER_SET_RESULTS=@OLD_CHARACTER_SET_RESULTS;",
		"SET COLLATION_CONNECTION=@OLD_COLLATION_CONNECTION;",
	)
	return stmts
}

// StartTransactionSQL renders the text bracketing a single-transaction
// dump: REPEATABLE READ isolation plus a consistent-snapshot start.
func (a *Adapter) StartTransactionSQL() []string {
	return []string{
		"SET SESSION TRANSACTION ISOLATION LEVEL REPEATABLE READ;",
		"START TRANSACTION /*!40100 WITH CONSISTENT SNAPSHOT */;",
	}
}

// CommitSQL closes the bracket StartTransactionSQL opens.
func (a *Adapter) CommitSQL() string { return "COMMIT;" }

// LockTablesWriteSQL is written INTO the dump (add-locks): a write lock
// the replay session takes to speed up bulk insert, as opposed to the
// read-local lock the dumper itself takes server-side.
func (a *Adapter) LockTablesWriteSQL(table string) string {
	return fmt.Sprintf("LOCK TABLES %s WRITE;", a.QuoteIdentifier(table))
}

// UnlockTablesSQL is the dump-text counterpart to LockTablesWriteSQL.
func (a *Adapter) UnlockTablesSQL() string { return "UNLOCK TABLES;" }

func (a *Adapter) DisableKeysSQL(table string) string {
	return fmt.Sprintf("ALTER TABLE %s DISABLE KEYS;", a.QuoteIdentifier(table))
}

func (a *Adapter) EnableKeysSQL(table string) string {
	return fmt.Sprintf("ALTER TABLE %s ENABLE KEYS;", a.QuoteIdentifier(table))
}

func (a *Adapter) AutocommitOffSQL() string { return "SET autocommit=0;" }

func (a *Adapter) CreateDatabaseSQL(dbName, charset, collation string, ifNotExists bool) string {
	exists := ""
	if ifNotExists {
		exists = "IF NOT EXISTS "
	}
	return fmt.Sprintf(
		"CREATE DATABASE %s%s /*!40100 DEFAULT CHARACTER SET %s COLLATE %s */;",
		exists, a.QuoteIdentifier(dbName), charset, collation,
	)
}

func (a *Adapter) DropDatabaseSQL(dbName string) string {
	return fmt.Sprintf("DROP DATABASE IF EXISTS %s;", a.QuoteIdentifier(dbName))
}

func (a *Adapter) UseSQL(dbName string) string {
	return fmt.Sprintf("USE %s;", a.QuoteIdentifier(dbName))
}

// ExecSessionDefaults executes (rather than renders) the character-set and
// time-zone portion of the backup parameters against the live connection,
// so the source session itself reads/encodes values the same way the
// target replay session will.
func (a *Adapter) ExecSessionDefaults(ctx context.Context, defaultCharset string, skipTZUTC bool) error {
	if err := a.ExecStatement(ctx, fmt.Sprintf("SET NAMES %s", defaultCharset)); err != nil {
		return err
	}
	if !skipTZUTC {
		if err := a.ExecStatement(ctx, "SET TIME_ZONE='+00:00'"); err != nil {
			return err
		}
	}
	return nil
}

// ExecStartTransaction executes the real REPEATABLE READ + consistent
// snapshot start on the live connection, giving InnoDB tables a
// transactionally consistent read view for the duration of the dump.
func (a *Adapter) ExecStartTransaction(ctx context.Context) error {
	if err := a.ExecStatement(ctx, "SET SESSION TRANSACTION ISOLATION LEVEL REPEATABLE READ"); err != nil {
		return err
	}
	return a.ExecStatement(ctx, "START TRANSACTION /*!40100 WITH CONSISTENT SNAPSHOT */")
}

// ExecLockTableReadLocal takes the server-side read lock that gives
// non-transactional (e.g. MyISAM) tables the same read consistency
// InnoDB gets from the snapshot transaction. This lock is never written
// into the dump text itself — it exists purely for the duration of the
// dumper's own read.
func (a *Adapter) ExecLockTableReadLocal(ctx context.Context, table string) error {
	return a.ExecStatement(ctx, fmt.Sprintf("LOCK TABLES %s READ LOCAL", a.QuoteIdentifier(table)))
}

// ExecUnlockTables releases whatever server-side lock is currently held.
func (a *Adapter) ExecUnlockTables(ctx context.Context) error {
	return a.ExecStatement(ctx, "UNLOCK TABLES")
}

// ExecCommit commits the live consistent-snapshot transaction.
func (a *Adapter) ExecCommit(ctx context.Context) error {
	return a.ExecStatement(ctx, "COMMIT")
}
