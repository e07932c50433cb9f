package category

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupCategoryMock(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func TestList(t *testing.T) {
	repo, mock, close := setupCategoryMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, description FROM categories ORDER BY name ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).
			AddRow(2, "Accounting", "Finance roles").
			AddRow(1, "Engineering", "Technical roles"))

	categories, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.Equal(t, "Accounting", categories[0].Name)
}

func TestCreate(t *testing.T) {
	repo, mock, close := setupCategoryMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO categories (name, description)`)).
		WithArgs("Engineering", "Technical roles").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).
			AddRow(1, "Engineering", "Technical roles"))

	cat, err := repo.Create(context.Background(), CategoryRequest{
		Name:        "Engineering",
		Description: "Technical roles",
	})
	require.NoError(t, err)
	require.Equal(t, 1, cat.ID)
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, close := setupCategoryMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE categories`)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), 99, CategoryRequest{Name: "Engineering"})
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, close := setupCategoryMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM categories WHERE id = $1`)).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Delete(context.Background(), 99), ErrCategoryNotFound)
}
