package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Store runs the parameterized SQL underlying every Account operation
// against a single checked-out *sql.Conn. Passwords are stored and compared
// in plaintext, carried over verbatim from the source (see the design
// notes' record of this as an accepted, not fixed, deviation).
type Store struct{}

func NewStore() *Store { return &Store{} }

type authRow struct {
	ID        int32
	CreatedAt int64
	Active    bool
	Password  string
	FirstName string
	LastName  string
}

func (s *Store) Authenticate(ctx context.Context, conn *sql.Conn, username, password string) (Account, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return Account{}, err
	}
	defer tx.Rollback()

	var row authRow
	err = tx.QueryRowContext(ctx,
		`SELECT id, created_at, active, password, first_name, last_name FROM Accounts WHERE username = $1`,
		username,
	).Scan(&row.ID, &row.CreatedAt, &row.Active, &row.Password, &row.FirstName, &row.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, &InvalidCredentialsException{Message: "invalid username or password"}
	}
	if err != nil {
		return Account{}, err
	}
	if !row.Active {
		return Account{}, &DeactivatedException{Message: fmt.Sprintf("account %d is deactivated", row.ID)}
	}
	if password != row.Password {
		return Account{}, &InvalidCredentialsException{Message: "invalid username or password"}
	}
	return Account{
		ID: row.ID, CreatedAt: row.CreatedAt, Active: true, Username: username,
		FirstName: row.FirstName, LastName: row.LastName,
	}, tx.Commit()
}

func (s *Store) Create(ctx context.Context, conn *sql.Conn, username, password, firstName, lastName string) (Account, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return Account{}, err
	}
	defer tx.Rollback()

	a := Account{Active: true, Username: username, FirstName: firstName, LastName: lastName}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO Accounts (created_at, username, password, first_name, last_name)
		 VALUES (extract(epoch from now()), $1, $2, $3, $4)
		 RETURNING id, created_at`,
		username, password, firstName, lastName,
	).Scan(&a.ID, &a.CreatedAt)
	if isUniqueViolation(err) {
		return Account{}, &UsernameAlreadyExistsException{Message: fmt.Sprintf("username %q already exists", username)}
	}
	if err != nil {
		return Account{}, err
	}
	return a, tx.Commit()
}

func (s *Store) RetrieveStandard(ctx context.Context, conn *sql.Conn, accountID int32) (Account, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return Account{}, err
	}
	defer tx.Rollback()

	a := Account{ID: accountID}
	err = tx.QueryRowContext(ctx,
		`SELECT created_at, active, username, first_name, last_name FROM Accounts WHERE id = $1`,
		accountID,
	).Scan(&a.CreatedAt, &a.Active, &a.Username, &a.FirstName, &a.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, &NotFoundException{Message: fmt.Sprintf("account %d not found", accountID)}
	}
	if err != nil {
		return Account{}, err
	}
	return a, tx.Commit()
}

func (s *Store) Update(ctx context.Context, conn *sql.Conn, accountID int32, password, firstName, lastName string) (Account, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return Account{}, err
	}
	defer tx.Rollback()

	a := Account{ID: accountID, FirstName: firstName, LastName: lastName}
	err = tx.QueryRowContext(ctx,
		`UPDATE Accounts SET password = $1, first_name = $2, last_name = $3
		 WHERE id = $4
		 RETURNING created_at, active, username`,
		password, firstName, lastName, accountID,
	).Scan(&a.CreatedAt, &a.Active, &a.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, &NotFoundException{Message: fmt.Sprintf("account %d not found", accountID)}
	}
	if err != nil {
		return Account{}, err
	}
	return a, tx.Commit()
}

func (s *Store) Delete(ctx context.Context, conn *sql.Conn, accountID int32) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var returnedID int32
	err = tx.QueryRowContext(ctx, `UPDATE Accounts SET active = FALSE WHERE id = $1 RETURNING id`, accountID).Scan(&returnedID)
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundException{Message: fmt.Sprintf("account %d not found", accountID)}
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) List(ctx context.Context, conn *sql.Conn, q Query, limit, offset int32) ([]Account, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	where := "active = true"
	args := []any{limit, offset}
	if q.Username != nil {
		where += " AND username = $3"
		args = append(args, *q.Username)
	}
	rows, err := tx.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, created_at, active, username, first_name, last_name
		 FROM Accounts WHERE %s ORDER BY created_at DESC LIMIT $1 OFFSET $2`, where),
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.CreatedAt, &a.Active, &a.Username, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, tx.Commit()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
