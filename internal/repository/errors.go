package repository

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a requested record is not found in the repository.
// This abstracts away the underlying storage implementation from the service layer.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateBallot is returned when a ballot already exists for the
// (event, user, scope) key. It is raised both by the in-transaction check and
// by the ballots unique index, so concurrent submissions cannot both commit.
var ErrDuplicateBallot = errors.New("ballot already cast")

// ErrDuplicateEntryNumber is returned when an entry number is reused within an event.
var ErrDuplicateEntryNumber = errors.New("entry number already used in event")

// ErrInUse is returned when a record cannot be deleted because other records reference it.
var ErrInUse = errors.New("record is referenced by other records")

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
