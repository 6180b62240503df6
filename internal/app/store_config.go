package app

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/riskibarqy/football-etl/internal/config"
	"github.com/riskibarqy/football-etl/internal/infrastructure/repository/sqlstore"
)

const maxTracedQueryLength = 512

func storeConfig(cfg config.Config, opts Options) sqlstore.Config {
	out := sqlstore.Config{
		Driver:        cfg.DBDriver,
		URL:           cfg.DBURL,
		DBName:        dbNameFromURL(cfg.DBURL),
		MaxOpenConns:  cfg.DBMaxOpenConns,
		MigrateOnOpen: opts.MigrateOnOpen,
	}
	if cfg.DBTraceQueries {
		out.QueryFormatter = compactQuery
	}
	return out
}

// compactQuery collapses whitespace so multi-line statements read as one
// line on spans, and caps the result at maxTracedQueryLength bytes.
func compactQuery(query string) string {
	compact := strings.Join(strings.Fields(query), " ")
	if len(compact) > maxTracedQueryLength {
		return compact[:maxTracedQueryLength] + "..."
	}
	return compact
}

// dbNameFromURL returns the database name reported on spans: the path of a
// postgres URL, the dbname of a keyword DSN, or the file name of a SQLite
// database.
func dbNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		switch u.Scheme {
		case "sqlite", "sqlite3", "file":
			return sqliteName(u.Host + u.Path + u.Opaque)
		}
		if name := strings.TrimPrefix(u.Path, "/"); name != "" {
			return name
		}
	}

	for _, field := range strings.Fields(raw) {
		if name, ok := strings.CutPrefix(field, "dbname="); ok {
			if name = strings.Trim(name, `"'`); name != "" {
				return name
			}
		}
	}

	if strings.ContainsAny(raw, " =") {
		return ""
	}
	return sqliteName(raw)
}

func sqliteName(path string) string {
	if path == "" || path == ":memory:" {
		return path
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
