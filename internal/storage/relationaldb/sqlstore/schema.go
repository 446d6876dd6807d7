package sqlstore

import (
	"strconv"
	"strings"

	"github.com/LeJamon/pixpressd/internal/storage/relationaldb"
)

// schema is written with ? placeholders and SQLite/Postgres-neutral types;
// only the auto-increment key differs.
func schema(driver string) []string {
	seqCol := "seq INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == relationaldb.DriverPostgres {
		seqCol = "seq BIGSERIAL PRIMARY KEY"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			` + seqCol + `,
			hash VARCHAR(64) UNIQUE NOT NULL,
			account VARCHAR(42) NOT NULL,
			tx_type VARCHAR(32) NOT NULL,
			sequence BIGINT NOT NULL,
			result VARCHAR(32) NOT NULL,
			applied BOOLEAN NOT NULL,
			raw_txn TEXT NOT NULL,
			txn_meta TEXT,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account, seq)`,
	}
}

// rebind rewrites ? placeholders as $n for postgres.
func rebind(driver, query string) string {
	if driver != relationaldb.DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
