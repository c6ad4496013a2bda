// Package sqlite implements a SQLite-backed storage.Repository.
package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:social_ads.db?_pragma=busy_timeout(5000)"
	//   "data/processed/social_ads.db"
	//   ":memory:"
	DSN string

	// Table is the target table name. FQN values such as "main.social_ads"
	// are passed through.
	Table string
}
