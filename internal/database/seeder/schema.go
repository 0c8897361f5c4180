package seeder

import (
	"context"
	"fmt"
	"strings"

	"hrcore/internal/database"
)

// EnsureTableColumns fails with every missing column of table listed, so a
// seed against an unmigrated database reports the whole gap at once.
func EnsureTableColumns(ctx context.Context, db database.Querier, table string, columns ...string) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	if table == "" {
		return fmt.Errorf("empty table")
	}

	rows, err := db.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1`,
		table,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	existing := map[string]bool{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		existing[c] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(existing) == 0 {
		return fmt.Errorf("schema mismatch: table %s does not exist, run migrate first", table)
	}
	var missing []string
	for _, col := range columns {
		if col != "" && !existing[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema mismatch: %s is missing columns %s", table, strings.Join(missing, ", "))
	}
	return nil
}
