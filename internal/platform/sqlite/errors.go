package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"gorm.io/gorm"
)

// mapError converts gorm and sqlite3 errors to store errors.
func mapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		msg := sqliteErr.Error()
		switch {
		case strings.Contains(msg, "users.username"):
			return fmt.Errorf("%w: %v", store.ErrUsernameExists, err)
		case strings.Contains(msg, "users.email"):
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%w: foreign key violation: %v", store.ErrInvalidEntity, err)
	case sqlite3.ErrConstraintNotNull, sqlite3.ErrConstraintCheck:
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	return err
}
