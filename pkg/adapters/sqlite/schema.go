package sqlite

// SchemaSQL creates the position log table.
// The table name and columns match the databases written by earlier versions of the web app,
// so an existing database.sqlite file can be opened as-is.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS robotPosition (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	x INTEGER NOT NULL,
	y INTEGER NOT NULL,
	direction TEXT NOT NULL
);
`

// GetSchemaSQL returns the authoritative schema, used by Open and by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
