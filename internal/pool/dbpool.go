package pool

import (
	"context"
	"database/sql"
)

// sqlConn adapts *sql.Conn (a single checked-out physical session) to the
// Resource interface so it can be managed by the generic Pool.
type sqlConn struct {
	*sql.Conn
}

// DBPool is a Pool of database sessions, mirroring BuzzBlog's
// PostgresConnectionPool: pqxx::connection there is a single physical
// session, which database/sql's *sql.Conn models directly (as opposed to
// *sql.DB, which is itself already an internal pool).
type DBPool = Pool[sqlConn]

// NewDBPool takes an already opened db (expected to have its SetMaxOpenConns capped at
// opts.MaxSize, or left unbounded when opts.MaxSize == 0) and wraps
// individual *sql.Conn checkouts in the bounded pool algorithm. endpoint is
// carried through only for logging/observability; the physical connection
// string lives in db.
func NewDBPool(ctx context.Context, db *sql.DB, endpoint string, opts Options, observer Observer) *DBPool {
	dial := func(string) (sqlConn, error) {
		conn, err := db.Conn(ctx)
		return sqlConn{conn}, err
	}
	return New[sqlConn]([]string{endpoint}, dial, opts, observer)
}
