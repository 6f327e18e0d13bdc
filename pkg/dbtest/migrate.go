package dbtest

import (
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
)

// MigrateFromFile executes all SQL queries from the files over a database
// connection.
func MigrateFromFile(db *sqlx.DB, fileNames ...string) error {
	for _, fileName := range fileNames {
		fileBytes, err := os.ReadFile(fileName)
		if err != nil {
			return fmt.Errorf("os.ReadFile: %w", err)
		}

		if _, err = db.Exec(string(fileBytes)); err != nil {
			return fmt.Errorf("db.Exec(%s): %w", fileName, err)
		}
	}

	return nil
}

// Truncate empties tables between test cases, restarting identities.
func Truncate(db *sqlx.DB, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}

	query := "TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE"

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("db.Exec(truncate): %w", err)
	}

	return nil
}
