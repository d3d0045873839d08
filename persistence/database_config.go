package persistence

import (
	"database/sql"
	"errors"
	"os"
	"strings"

	"github.com/go-sql-driver/mysql"
)

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
}

// ParseDatabaseConfigFromEnv reads DATABASE_URL in the form "driver://args",
// e.g. mysql://root:root@(127.0.0.1:3306)/jobboard?charset=utf8mb4&parseTime=True&loc=Local
func ParseDatabaseConfigFromEnv() (*DatabaseConfig, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, errors.New("environment variable DATABASE_URL is not set")
	}
	idx := strings.Index(databaseURL, "://")
	if idx <= 0 || idx+3 >= len(databaseURL) {
		return nil, errors.New("invalid DATABASE_URL: " + databaseURL)
	}
	return &DatabaseConfig{DriverType: databaseURL[0:idx], DriverArgs: databaseURL[idx+3:]}, nil
}

// PrepareMysqlDatabase creates the target database when absent, connecting
// without a schema selected.
func PrepareMysqlDatabase(driverArgs string) error {
	dsn, err := mysql.ParseDSN(driverArgs)
	if err != nil {
		return err
	}
	databaseName := dsn.DBName
	dsn.DBName = ""

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS " + databaseName + " DEFAULT CHARACTER SET utf8mb4")
	return err
}
