package secrets

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lockzilla/lockzilla/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+owner_id,\s*service,\s*secret\s+FROM\s+secrets\s+WHERE\s+owner_id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"owner_id", "service", "secret"}).
		AddRow("u-1", "github", "s3cr3t").
		AddRow("u-1", "gitlab", "hunter2")
	mock.ExpectQuery(q).WithArgs("u-1").WillReturnRows(rows)

	got, err := repo.List(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].Service != "github" || got[1].Secret != "hunter2" {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestList_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+owner_id,`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"owner_id", "service", "secret"}))

	got, err := repo.List(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no entries, got %+v", got)
	}
}

func TestSearch_UsesCaseInsensitiveFilter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+owner_id,\s*service,\s*secret\s+FROM\s+secrets\s+WHERE\s+owner_id\s*=\s*\$1\s+AND\s+service\s+ILIKE\s+'%'\s*\|\|\s*\$2\s*\|\|\s*'%'\s*$`

	rows := sqlmock.NewRows([]string{"owner_id", "service", "secret"}).
		AddRow("u-1", "GitHub", "s3cr3t")
	mock.ExpectQuery(q).WithArgs("u-1", "hub").WillReturnRows(rows)

	got, err := repo.Search(context.Background(), "u-1", "hub")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(got) != 1 || got[0].Service != "GitHub" {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestPut_Upserts(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+secrets\s*\(owner_id,\s*service,\s*secret\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*ON\s+CONFLICT\s*\(owner_id,\s*service\)\s*DO\s+UPDATE\s+SET\s+secret\s*=\s*EXCLUDED\.secret\s*$`

	mock.ExpectExec(q).
		WithArgs("u-1", "github", "s3cr3t").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Put(context.Background(), &models.Secret{OwnerID: "u-1", Service: "github", Secret: "s3cr3t"})
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdate_ZeroRowsIsNoop(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+secrets\s+SET\s+secret\s*=\s*\$3\s+WHERE\s+owner_id\s*=\s*\$1\s+AND\s+service\s*=\s*\$2\s*$`

	mock.ExpectExec(q).
		WithArgs("u-1", "nonexistent-service", "x").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Secret{OwnerID: "u-1", Service: "nonexistent-service", Secret: "x"})
	if err != nil {
		t.Fatalf("Update on absent key must be a no-op, got %v", err)
	}
}

func TestDelete_AbsentKeyIsNoop(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+secrets\s+WHERE\s+owner_id\s*=\s*\$1\s+AND\s+service\s*=\s*\$2\s*$`

	mock.ExpectExec(q).
		WithArgs("u-1", "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "u-1", "ghost"); err != nil {
		t.Fatalf("Delete on absent key must be a no-op, got %v", err)
	}
}

func TestPut_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+secrets`).
		WithArgs("u-1", "github", "s3cr3t").
		WillReturnError(errors.New("db down"))

	err := repo.Put(context.Background(), &models.Secret{OwnerID: "u-1", Service: "github", Secret: "s3cr3t"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
