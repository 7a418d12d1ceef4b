package uniquepair

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func TestStoreGetFound(t *testing.T) {
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
	mock.ExpectQuery("SELECT created_at, domain, first_elem, second_elem").
		WithArgs(int32(7)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "domain", "first_elem", "second_elem"}).
			AddRow(int64(1000), "follow", int32(1), int32(2)))
	mock.ExpectCommit()

	store := NewStore()
	pair, err := store.Get(context.Background(), conn, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if pair.ID != 7 || pair.Domain != "follow" || pair.FirstElem != 1 || pair.SecondElem != 2 {
		t.Fatalf("unexpected pair: %+v", pair)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreGetNotFound(t *testing.T) {
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
	mock.ExpectQuery("SELECT created_at, domain, first_elem, second_elem").
		WithArgs(int32(404)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "domain", "first_elem", "second_elem"}))
	mock.ExpectRollback()

	store := NewStore()
	_, err = store.Get(context.Background(), conn, 404)
	if _, ok := err.(*NotFoundException); !ok {
		t.Fatalf("expected NotFoundException, got %v", err)
	}
}

func TestStoreAddUniqueViolation(t *testing.T) {
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
	mock.ExpectQuery("INSERT INTO Uniquepairs").
		WithArgs("follow", int32(1), int32(2)).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	store := NewStore()
	_, err = store.Add(context.Background(), conn, "follow", 1, 2)
	if _, ok := err.(*AlreadyExistsException); !ok {
		t.Fatalf("expected AlreadyExistsException, got %v", err)
	}
}

func TestBuildWhere(t *testing.T) {
	a := int32(1)
	where, args := buildWhere(Query{Domain: "follow", FirstElem: &a})
	if where != "domain = $1 AND first_elem = $2" {
		t.Fatalf("unexpected where clause: %q", where)
	}
	if len(args) != 2 || args[0] != "follow" || args[1] != a {
		t.Fatalf("unexpected args: %v", args)
	}
}
