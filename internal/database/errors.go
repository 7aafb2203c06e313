package database

import (
	"errors"
	"strings"

	apperrors "github.com/consensuslabs/storefront/backend/internal/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE codes for integrity constraint violations
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

// ClassifyError wraps constraint violations in a ConstraintViolationError.
// Every other error, connectivity failures included, is returned unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	if kind := constraintKind(err); kind != "" {
		return apperrors.NewConstraintViolation(kind, err)
	}
	return err
}

func constraintKind(err error) string {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.ConstraintUnique
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.ConstraintForeignKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.ConstraintUnique
		case pgForeignKeyViolation:
			return apperrors.ConstraintForeignKey
		case pgNotNullViolation:
			return apperrors.ConstraintNotNull
		}
		return ""
	}

	// SQLite reports constraint failures only through the message
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return apperrors.ConstraintUnique
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return apperrors.ConstraintForeignKey
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return apperrors.ConstraintNotNull
	}
	return ""
}
