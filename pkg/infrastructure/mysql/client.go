package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type DSN struct {
	User     string
	Password string
	Host     string
	Database string
}

// FormatDSN builds a driver DSN. Update statements report matched rows instead
// of changed rows so conditional writes can be told apart from missing records.
func (d DSN) FormatDSN() string {
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = d.Host
	cfg.DBName = d.Database
	cfg.ParseTime = true
	cfg.MultiStatements = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN()
}

type ConnectionPool struct {
	MaxOpenConnections    int
	MaxIdleConnections    int
	ConnectionMaxLifetime time.Duration
}

func Open(ctx context.Context, dsn DSN, pool ConnectionPool) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	db.SetMaxOpenConns(pool.MaxOpenConnections)
	db.SetMaxIdleConns(pool.MaxIdleConnections)
	db.SetConnMaxLifetime(pool.ConnectionMaxLifetime)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return db, nil
}

// notFound replaces sql.ErrNoRows with the domain error of the looked up record.
func notFound(err, domainErr error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domainErr
	}
	return errors.WithStack(err)
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, errors.WithStack(err)
	}
	return n > 0, nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

const errDuplicateEntry = 1062

// duplicateKey reports whether err is a unique violation of the named index.
func duplicateKey(err error, key string) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	return mysqlErr.Number == errDuplicateEntry && strings.Contains(mysqlErr.Message, key)
}
