package sqlite

import "database/sql"

// schema is applied on startup so the table always exists. Recipe ids are
// stored as a JSON array; the record collection is append-oriented and
// only notes are ever rewritten.
const schema = `
CREATE TABLE IF NOT EXISTS shopping_lists (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    username TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    recipe_ids TEXT NOT NULL,
    list_file_url TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_shopping_lists_username ON shopping_lists(username);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
