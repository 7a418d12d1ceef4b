package account

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func TestStoreAuthenticateSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	conn, err := db.Conn(context.Background())
	if err != nil {
		t.Fatalf("db.Conn: %v", err)
	}
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, created_at, active, password, first_name, last_name").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "active", "password", "first_name", "last_name"}).
			AddRow(int32(1), int64(1000), true, "secret", "Alice", "Doe"))
	mock.ExpectCommit()

	store := NewStore()
	a, err := store.Authenticate(context.Background(), conn, "alice", "secret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if a.ID != 1 || a.Username != "alice" {
		t.Fatalf("unexpected account: %+v", a)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreAuthenticateWrongPassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	conn, err := db.Conn(context.Background())
	if err != nil {
		t.Fatalf("db.Conn: %v", err)
	}
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, created_at, active, password, first_name, last_name").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "active", "password", "first_name", "last_name"}).
			AddRow(int32(1), int64(1000), true, "secret", "Alice", "Doe"))
	mock.ExpectRollback()

	store := NewStore()
	_, err = store.Authenticate(context.Background(), conn, "alice", "wrong")
	if _, ok := err.(*InvalidCredentialsException); !ok {
		t.Fatalf("expected InvalidCredentialsException, got %v", err)
	}
}

func TestStoreAuthenticateDeactivated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	conn, err := db.Conn(context.Background())
	if err != nil {
		t.Fatalf("db.Conn: %v", err)
	}
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, created_at, active, password, first_name, last_name").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "active", "password", "first_name", "last_name"}).
			AddRow(int32(1), int64(1000), false, "secret", "Alice", "Doe"))
	mock.ExpectRollback()

	store := NewStore()
	_, err = store.Authenticate(context.Background(), conn, "alice", "secret")
	if _, ok := err.(*DeactivatedException); !ok {
		t.Fatalf("expected DeactivatedException, got %v", err)
	}
}

func TestStoreCreateUsernameAlreadyExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	conn, err := db.Conn(context.Background())
	if err != nil {
		t.Fatalf("db.Conn: %v", err)
	}
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO Accounts").
		WithArgs("alice", "secret", "Alice", "Doe").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	store := NewStore()
	_, err = store.Create(context.Background(), conn, "alice", "secret", "Alice", "Doe")
	if _, ok := err.(*UsernameAlreadyExistsException); !ok {
		t.Fatalf("expected UsernameAlreadyExistsException, got %v", err)
	}
}

func TestStoreRetrieveStandardNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	conn, err := db.Conn(context.Background())
	if err != nil {
		t.Fatalf("db.Conn: %v", err)
	}
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT created_at, active, username, first_name, last_name").
		WithArgs(int32(404)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "active", "username", "first_name", "last_name"}))
	mock.ExpectRollback()

	store := NewStore()
	_, err = store.RetrieveStandard(context.Background(), conn, 404)
	if _, ok := err.(*NotFoundException); !ok {
		t.Fatalf("expected NotFoundException, got %v", err)
	}
}

func TestStoreDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	conn, err := db.Conn(context.Background())
	if err != nil {
		t.Fatalf("db.Conn: %v", err)
	}
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE Accounts SET active = FALSE").
		WithArgs(int32(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	store := NewStore()
	err = store.Delete(context.Background(), conn, 404)
	if _, ok := err.(*NotFoundException); !ok {
		t.Fatalf("expected NotFoundException, got %v", err)
	}
}
