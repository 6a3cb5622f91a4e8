package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// DumpResult counts the statements of a dump import.
type DumpResult struct {
	Files    int
	Executed int
	Failed   int
}

// ImportDump executes every *.sql file in dir, in name order. Files are split on ';'
// and run statement by statement; a failing statement is logged and skipped.
func ImportDump(ctx context.Context, db *sqlx.DB, dir string, logger logrus.FieldLogger) (DumpResult, error) {
	var result DumpResult
	entries, err := os.ReadDir(dir)
	if err != nil {
		return result, fmt.Errorf("read dump dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return result, fmt.Errorf("read dump %s: %w", name, err)
		}
		result.Files++
		for _, stmt := range strings.Split(string(body), ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				result.Failed++
				logger.WithFields(logrus.Fields{"file": name, "statement": stmt}).WithError(err).Warn("dump statement failed")
				continue
			}
			result.Executed++
		}
	}
	return result, nil
}
