package database

import (
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eboard-api/pkg/config"
)

// NewMySQL returns a configured MySQL/MariaDB client.
func NewMySQL(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	return connect(config.DriverMySQL, MySQLDSN(cfg), cfg)
}

// MySQLDSN renders a go-sql-driver DSN. DATE and TIMESTAMP columns are
// parsed into time.Time in the server's local zone.
func MySQLDSN(cfg config.DatabaseConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Loc = time.Local
	return mc.FormatDSN()
}
