// Package repository defines the MySQL data access layer and the error
// values shared across repositories.  These sentinels allow higher layers
// to distinguish failure scenarios without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the referenced row does not exist or is not
// visible to the caller (e.g. a programme owned by someone else).
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an account insert or update collides with
// the unique email index.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when a conditional state transition cannot be
// applied because the row is no longer in the expected state, such as
// completing a payment that was completed concurrently.
var ErrConflict = errors.New("conflict")

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
