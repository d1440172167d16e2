package storesql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jcmexdev/osouk/internal/core/ports"
)

// MySQL server error numbers treated as connectivity failures: the ones a
// retry or the fallback mirror can reasonably paper over. Constraint and
// syntax errors are deliberately absent — those must surface.
var mysqlConnErrNumbers = map[uint16]bool{
	1040: true, // ER_CON_COUNT_ERROR: too many connections
	1045: true, // ER_ACCESS_DENIED_ERROR: bad credentials (store-side auth)
	1053: true, // ER_SERVER_SHUTDOWN: server is going down
	1129: true, // ER_HOST_IS_BLOCKED: host blocked after connection errors
	1152: true, // ER_ABORTING_CONNECTION: connection aborted
	1159: true, // ER_NET_READ_INTERRUPTED: network read timed out
}

// SQLite primary result codes treated as connectivity failures. Extended
// codes (e.g. SQLITE_BUSY_RECOVERY = 261) carry the primary code in their
// low byte.
var sqliteConnErrCodes = map[int]bool{
	sqlite3.SQLITE_BUSY:     true,
	sqlite3.SQLITE_LOCKED:   true,
	sqlite3.SQLITE_IOERR:    true,
	sqlite3.SQLITE_CANTOPEN: true,
	sqlite3.SQLITE_AUTH:     true,
}

// classify wraps connectivity-class errors with ports.ErrStoreUnavailable so
// the services can branch with errors.Is; everything else is wrapped with the
// operation name only and propagates as an ordinary failure.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if isConnectivity(err) {
		return fmt.Errorf("storesql: %s: %w: %w", op, ports.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("storesql: %s: %w", op, err)
}

// isConnectivity is the explicit allow-list from the error handling design:
// store unreachable, auth rejected, timeout, connection reset. sql.ErrNoRows
// and constraint violations never match.
func isConnectivity(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// Covers refused/reset/timeout from either driver's dialer.
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlConnErrNumbers[mysqlErr.Number]
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteConnErrCodes[sqliteErr.Code()&0xff]
	}

	return false
}
