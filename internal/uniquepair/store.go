package uniquepair

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Store runs the parameterized SQL underlying every Uniquepair operation
// against a single checked-out *sql.Conn. Each method runs its own
// BEGIN/COMMIT transaction, matching the source's one-query-one-transaction
// discipline, on a connection callers check out from a pool.DBPool and
// release themselves.
type Store struct{}

func NewStore() *Store { return &Store{} }

func (s *Store) Get(ctx context.Context, conn *sql.Conn, id int32) (Pair, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return Pair{}, err
	}
	defer tx.Rollback()

	var p Pair
	p.ID = id
	err = tx.QueryRowContext(ctx,
		`SELECT created_at, domain, first_elem, second_elem FROM Uniquepairs WHERE id = $1`,
		id,
	).Scan(&p.CreatedAt, &p.Domain, &p.FirstElem, &p.SecondElem)
	if errors.Is(err, sql.ErrNoRows) {
		return Pair{}, &NotFoundException{Message: fmt.Sprintf("uniquepair %d not found", id)}
	}
	if err != nil {
		return Pair{}, err
	}
	return p, tx.Commit()
}

func (s *Store) Add(ctx context.Context, conn *sql.Conn, domain string, firstElem, secondElem int32) (Pair, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return Pair{}, err
	}
	defer tx.Rollback()

	p := Pair{Domain: domain, FirstElem: firstElem, SecondElem: secondElem}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO Uniquepairs (domain, first_elem, second_elem, created_at)
		 VALUES ($1, $2, $3, extract(epoch from now()))
		 RETURNING id, created_at`,
		domain, firstElem, secondElem,
	).Scan(&p.ID, &p.CreatedAt)
	if isUniqueViolation(err) {
		return Pair{}, &AlreadyExistsException{Message: fmt.Sprintf("pair (%s, %d, %d) already exists", domain, firstElem, secondElem)}
	}
	if err != nil {
		return Pair{}, err
	}
	return p, tx.Commit()
}

func (s *Store) Remove(ctx context.Context, conn *sql.Conn, id int32) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var returnedID int32
	err = tx.QueryRowContext(ctx, `DELETE FROM Uniquepairs WHERE id = $1 RETURNING id`, id).Scan(&returnedID)
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundException{Message: fmt.Sprintf("uniquepair %d not found", id)}
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Find(ctx context.Context, conn *sql.Conn, domain string, firstElem, secondElem int32) (bool, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var id int32
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM Uniquepairs WHERE domain = $1 AND first_elem = $2 AND second_elem = $3`,
		domain, firstElem, secondElem,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, tx.Commit()
	}
	if err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (s *Store) Fetch(ctx context.Context, conn *sql.Conn, q Query, limit, offset int32) ([]Pair, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	where, args := buildWhere(q)
	rows, err := tx.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, created_at, first_elem, second_elem FROM Uniquepairs WHERE %s ORDER BY created_at DESC LIMIT %s OFFSET %s`,
			where, placeholder(len(args)+1), placeholder(len(args)+2)),
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []Pair
	for rows.Next() {
		p := Pair{Domain: q.Domain}
		if err := rows.Scan(&p.ID, &p.CreatedAt, &p.FirstElem, &p.SecondElem); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pairs, tx.Commit()
}

func (s *Store) Count(ctx context.Context, conn *sql.Conn, q Query) (int32, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	where, args := buildWhere(q)
	var count int32
	if err := tx.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM Uniquepairs WHERE %s`, where), args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, tx.Commit()
}

// buildWhere constructs a parameterized WHERE clause equivalent to the
// source's string-concatenated "domain = '%s' [AND first_elem = %d] [AND
// second_elem = %d]", but safe against injection in the domain string.
func buildWhere(q Query) (string, []any) {
	var clauses []string
	var args []any
	args = append(args, q.Domain)
	clauses = append(clauses, fmt.Sprintf("domain = %s", placeholder(len(args))))
	if q.FirstElem != nil {
		args = append(args, *q.FirstElem)
		clauses = append(clauses, fmt.Sprintf("first_elem = %s", placeholder(len(args))))
	}
	if q.SecondElem != nil {
		args = append(args, *q.SecondElem)
		clauses = append(clauses, fmt.Sprintf("second_elem = %s", placeholder(len(args))))
	}
	return strings.Join(clauses, " AND "), args
}

func placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
