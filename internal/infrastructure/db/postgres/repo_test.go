package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/location-service/internal/domain"
)

var cityColumns = []string{"id", "name", "slug", "state_id", "slug"}

func newMockRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestRepo_CreateState(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns_id", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("INSERT INTO states").
			WithArgs("São Paulo", "sao-paulo").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

		s := &domain.State{Name: "São Paulo", Slug: "sao-paulo"}
		require.NoError(t, repo.CreateState(ctx, s))
		assert.Equal(t, int64(3), s.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("on_conflict_no_row_is_conflict", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("INSERT INTO states").
			WithArgs("São Paulo", "sao-paulo").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err := repo.CreateState(ctx, &domain.State{Name: "São Paulo", Slug: "sao-paulo"})
		assert.True(t, domain.HasCode(err, domain.CodeConflict))
	})

	t.Run("driver_error_is_wrapped", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		boom := errors.New("connection reset")
		mock.ExpectQuery("INSERT INTO states").WillReturnError(boom)

		err := repo.CreateState(ctx, &domain.State{Name: "x", Slug: "x"})
		assert.ErrorIs(t, err, boom)
		assert.False(t, domain.HasCode(err, domain.CodeConflict))
	})
}

func TestRepo_GetStateBySlug(t *testing.T) {
	ctx := context.Background()

	t.Run("success_mapping", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM states WHERE slug =").
			WithArgs("sao-paulo").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).AddRow(int64(1), "São Paulo", "sao-paulo"))

		s, err := repo.GetStateBySlug(ctx, "sao-paulo")
		require.NoError(t, err)
		assert.Equal(t, int64(1), s.ID)
		assert.Equal(t, "São Paulo", s.Name)
	})

	t.Run("not_found_mapping", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT").WithArgs("none").WillReturnError(sql.ErrNoRows)

		s, err := repo.GetStateBySlug(ctx, "none")
		assert.Nil(t, s)
		assert.True(t, domain.HasCode(err, domain.CodeNotFound))
	})
}

func TestRepo_ListCitiesByStateSlug(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows(cityColumns).
		AddRow(int64(1), "Moji-Mirim", "moji-mirim", int64(1), "sao-paulo").
		AddRow(int64(2), "Campinas", "campinas", int64(1), "sao-paulo")
	mock.ExpectQuery("SELECT (.+) FROM cities c JOIN states s (.+) ORDER BY c.id").
		WithArgs("sao-paulo").
		WillReturnRows(rows)

	got, err := repo.ListCitiesByStateSlug(context.Background(), "sao-paulo")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Moji-Mirim", got[0].Name)
	assert.Equal(t, "campinas", got[1].Slug)
	assert.Equal(t, "sao-paulo", got[1].StateSlug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_GetCityBySlugs(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM cities c JOIN states s").
			WithArgs("rio-grande-do-norte", "natal").
			WillReturnRows(sqlmock.NewRows(cityColumns).AddRow(int64(9), "Natal", "natal", int64(4), "rio-grande-do-norte"))

		c, err := repo.GetCityBySlugs(ctx, "rio-grande-do-norte", "natal")
		require.NoError(t, err)
		assert.Equal(t, int64(9), c.ID)
		assert.Equal(t, int64(4), c.StateID)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM cities c JOIN states s").
			WithArgs("rio-grande-do-norte", "nonexisting-city").
			WillReturnRows(sqlmock.NewRows(cityColumns))

		_, err := repo.GetCityBySlugs(ctx, "rio-grande-do-norte", "nonexisting-city")
		assert.True(t, domain.HasCode(err, domain.CodeNotFound))
	})
}

func TestRepo_CreateCity(t *testing.T) {
	ctx := context.Background()
	newCity := func() *domain.City {
		return &domain.City{Name: "Radugui Fire", Slug: "radugui-fire", StateID: 1}
	}

	t.Run("locks_state_then_inserts", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT slug FROM states WHERE id = (.+) FOR SHARE").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"slug"}).AddRow("sao-paulo"))
		mock.ExpectQuery("INSERT INTO cities").
			WithArgs("Radugui Fire", "radugui-fire", int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
		mock.ExpectCommit()

		c := newCity()
		require.NoError(t, repo.CreateCity(ctx, c))
		assert.Equal(t, int64(42), c.ID)
		assert.Equal(t, "sao-paulo", c.StateSlug)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("state_gone_is_not_found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT slug FROM states").WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows([]string{"slug"}))
		mock.ExpectRollback()

		err := repo.CreateCity(ctx, newCity())
		assert.True(t, domain.HasCode(err, domain.CodeNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("on_conflict_no_row_is_conflict", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT slug FROM states").WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"slug"}).AddRow("sao-paulo"))
		mock.ExpectQuery("INSERT INTO cities").WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := repo.CreateCity(ctx, newCity())
		assert.True(t, domain.HasCode(err, domain.CodeConflict))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique_violation_is_conflict", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT slug FROM states").WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"slug"}).AddRow("sao-paulo"))
		mock.ExpectQuery("INSERT INTO cities").WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectRollback()

		err := repo.CreateCity(ctx, newCity())
		assert.True(t, domain.HasCode(err, domain.CodeConflict))
	})

	t.Run("commit_failure_is_returned", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT slug FROM states").WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"slug"}).AddRow("sao-paulo"))
		mock.ExpectQuery("INSERT INTO cities").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err := repo.CreateCity(ctx, newCity())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "commit tx")
	})
}

func TestRepo_DeleteState(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("DELETE FROM states").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.DeleteState(ctx, 1))
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("DELETE FROM states").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))
		assert.True(t, domain.HasCode(repo.DeleteState(ctx, 1), domain.CodeNotFound))
	})
}
