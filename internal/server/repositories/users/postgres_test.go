package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

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
	selectQuery = `(?s)^SELECT\s+id,\s*display_id,\s*name,\s*created_at\s+FROM\s+users`
	insertQuery = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*display_id,\s*name\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+created_at\s*$`
)

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Now()
	mock.ExpectQuery(insertQuery).
		WithArgs(sqlmock.AnyArg(), "alice", "Alice").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	got, err := repo.Create(context.Background(), "alice", "Alice")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("Create must assign a fresh id")
	}
	if got.DisplayID != "alice" || got.Name != "Alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCreate_AssignsDistinctIDs(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now())
	}
	mock.ExpectQuery(insertQuery).WillReturnRows(rows())
	mock.ExpectQuery(insertQuery).WillReturnRows(rows())

	u1, err := repo.Create(context.Background(), "alice", "Alice")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	u2, err := repo.Create(context.Background(), "bob", "Bob")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if u1.ID == u2.ID {
		t.Fatalf("ids must be unique, both were %q", u1.ID)
	}
}

func TestCreate_DuplicateDisplayID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs(sqlmock.AnyArg(), "alice", "Alice").
		WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_display_id_key"})

	_, err := repo.Create(context.Background(), "alice", "Alice")
	if !reject.IsKind(err, reject.Conflict) {
		t.Fatalf("want Conflict reject, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), "alice", "Alice")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if _, ok := reject.KindOf(err); ok {
		t.Fatalf("infrastructure failure must not classify as a reject")
	}
}

func TestGetByDisplayID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "display_id", "name", "created_at"}).
		AddRow("u-1", "alice", "Alice", time.Now())
	mock.ExpectQuery(selectQuery).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.GetByDisplayID(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByDisplayID error: %v", err)
	}
	if got.ID != "u-1" || got.DisplayID != "alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByDisplayID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQuery).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByDisplayID(context.Background(), "ghost")
	if !reject.IsKind(err, reject.NotFound) {
		t.Fatalf("want NotFound reject, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQuery).
		WithArgs("no-such-id").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "no-such-id")
	if !reject.IsKind(err, reject.NotFound) {
		t.Fatalf("want NotFound reject, got %v", err)
	}
}

func TestGetAll(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "display_id", "name", "created_at"}).
		AddRow("u-1", "alice", "Alice", time.Now()).
		AddRow("u-2", "bob", "Bob", time.Now())
	mock.ExpectQuery(selectQuery).WillReturnRows(rows)

	got, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 users, got %d", len(got))
	}
}
