package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baechuer/real-time-ressys/services/location-service/internal/domain"
)

const sqlStateUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlStateUniqueViolation
}

func errDuplicateState() error {
	return domain.ErrConflict("duplicate state", map[string]string{
		"name": "state with this name already exists",
	})
}

func errDuplicateCity() error {
	return domain.ErrConflict("duplicate city", map[string]string{
		"name": "city with this name already exists in state",
	})
}
