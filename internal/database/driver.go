package database

import (
	"fmt"
	"strings"
)

// Driver names the backing store selected by DATABASE_URL.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
	DriverMongo    Driver = "mongo"
)

// DetectDriver picks the driver from the URL scheme.
func DetectDriver(url string) (Driver, error) {
	u := strings.TrimSpace(url)
	switch {
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(u, "mongodb://"), strings.HasPrefix(u, "mongodb+srv://"):
		return DriverMongo, nil
	case strings.HasPrefix(u, "sqlite:"), strings.HasPrefix(u, "file:"), u == ":memory:":
		return DriverSQLite, nil
	}
	return "", fmt.Errorf("unsupported DATABASE_URL scheme: %q", redact(u))
}

// sqliteDSN turns sqlite://path or sqlite:path into a DSN the sqlite
// driver accepts. file: URIs pass through.
func sqliteDSN(url string) string {
	u := strings.TrimSpace(url)
	switch {
	case strings.HasPrefix(u, "sqlite://"):
		u = strings.TrimPrefix(u, "sqlite://")
	case strings.HasPrefix(u, "sqlite:"):
		u = strings.TrimPrefix(u, "sqlite:")
	}
	if u == "" || u == ":memory:" {
		return ":memory:"
	}
	return u
}

// redact drops everything after the scheme so credentials never reach logs.
func redact(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		return url[:i+3] + "..."
	}
	if len(url) > 8 {
		return url[:8] + "..."
	}
	return url
}
