package post

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Store runs the parameterized SQL underlying every Post operation against
// a single checked-out *sql.Conn.
type Store struct{}

func NewStore() *Store { return &Store{} }

func (s *Store) Create(ctx context.Context, conn *sql.Conn, authorID int32, text string) (Post, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return Post{}, err
	}
	defer tx.Rollback()

	p := Post{Active: true, AuthorID: authorID, Text: text}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO Posts (created_at, active, author_id, text)
		 VALUES (extract(epoch from now()), true, $1, $2)
		 RETURNING id, created_at`,
		authorID, text,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return Post{}, err
	}
	return p, tx.Commit()
}

func (s *Store) RetrieveStandard(ctx context.Context, conn *sql.Conn, postID int32) (Post, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return Post{}, err
	}
	defer tx.Rollback()

	p := Post{ID: postID}
	err = tx.QueryRowContext(ctx,
		`SELECT created_at, active, author_id, text FROM Posts WHERE id = $1`,
		postID,
	).Scan(&p.CreatedAt, &p.Active, &p.AuthorID, &p.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, &NotFoundException{Message: fmt.Sprintf("post %d not found", postID)}
	}
	if err != nil {
		return Post{}, err
	}
	return p, tx.Commit()
}

// Deactivate flips active to false. Callers first use RetrieveStandard to
// look up the author id and authorize the requester before calling this,
// mirroring the source's retrieve-then-authorize-then-delete order.
func (s *Store) Deactivate(ctx context.Context, conn *sql.Conn, postID int32) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var returnedID int32
	err = tx.QueryRowContext(ctx, `UPDATE Posts SET active = FALSE WHERE id = $1 RETURNING id`, postID).Scan(&returnedID)
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundException{Message: fmt.Sprintf("post %d not found", postID)}
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) List(ctx context.Context, conn *sql.Conn, q Query, limit, offset int32) ([]Post, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	where := "active = true"
	args := []any{limit, offset}
	if q.AuthorID != nil {
		where += " AND author_id = $3"
		args = append(args, *q.AuthorID)
	}
	rows, err := tx.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, created_at, active, author_id, text FROM Posts WHERE %s ORDER BY created_at DESC LIMIT $1 OFFSET $2`, where),
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.CreatedAt, &p.Active, &p.AuthorID, &p.Text); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, tx.Commit()
}

// CountByAuthor counts every post by authorID, active or not -- the source
// never filters delete_post'd rows out of this count, and the rewrite
// preserves that rather than "fixing" it.
func (s *Store) CountByAuthor(ctx context.Context, conn *sql.Conn, authorID int32) (int32, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var count int32
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM Posts WHERE author_id = $1`, authorID).Scan(&count); err != nil {
		return 0, err
	}
	return count, tx.Commit()
}
