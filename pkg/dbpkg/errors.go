package dbpkg

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
)

// sqliteConstraint is the primary result code shared by all sqlite constraint violations.
const sqliteConstraint = 19

// ConstraintViolated reports whether err is a constraint violation matching one of names.
//
// Postgres errors are matched by constraint name. Sqlite only reports names for CHECK
// constraints and "table.column" for unique keys, so names may carry both spellings.
func ConstraintViolated(err error, names ...string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		for _, n := range names {
			if pqErr.Constraint == n {
				return true
			}
		}

		return false
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		if liteErr.Code()&0xff != sqliteConstraint {
			return false
		}

		msg := liteErr.Error()
		for _, n := range names {
			if strings.Contains(msg, n) {
				return true
			}
		}
	}

	return false
}
