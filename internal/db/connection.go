package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/samber/oops"

	"github.com/hsm-gustavo/userauth-api/internal/config"
)

// DSN builds the driver data source name. parseTime is required to scan
// DATETIME columns into time.Time; clientFoundRows makes UPDATE report
// matched rows instead of changed rows.
func DSN(cfg config.DatabaseConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.ClientFoundRows = true
	return mc.FormatDSN()
}

func Connect(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, oops.Code("DB_OPEN").With("host", cfg.Host).Wrapf(err, "open mysql")
	}

	if err := prepare(ctx, db, cfg); err != nil {
		return nil, err
	}

	return db, nil
}

// prepare applies pool limits and pings. The handle is closed when the ping
// fails.
func prepare(ctx context.Context, db *sql.DB, cfg config.DatabaseConfig) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return oops.Code("DB_PING").
			With("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)).
			Wrapf(err, "connect to database")
	}

	return nil
}
