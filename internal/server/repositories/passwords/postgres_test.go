package passwords

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mpolonsky/userauth/internal/reject"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	upsertQuery = `(?s)^INSERT\s+INTO\s+user_passwords\s*\(user_id,\s*hash\)\s*VALUES\s*\(\$1,\s*\$2\)\s*ON\s+CONFLICT\s*\(user_id\)\s+DO\s+UPDATE`
	selectQuery = `(?s)^SELECT\s+hash\s+FROM\s+user_passwords\s+WHERE\s+user_id\s*=\s*\$1`
)

func TestSave_Upserts(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertQuery).
		WithArgs("u-1", "$2a$10$hash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Save(context.Background(), "u-1", "$2a$10$hash"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestSave_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertQuery).
		WillReturnError(errors.New("db down"))

	err := repo.Save(context.Background(), "u-1", "h")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetHash_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQuery).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"hash"}).AddRow("$2a$10$hash"))

	got, err := repo.GetHash(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetHash error: %v", err)
	}
	if got != "$2a$10$hash" {
		t.Fatalf("unexpected hash: %q", got)
	}
}

func TestGetHash_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQuery).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetHash(context.Background(), "ghost")
	if !reject.IsKind(err, reject.NotFound) {
		t.Fatalf("want NotFound reject, got %v", err)
	}
}
