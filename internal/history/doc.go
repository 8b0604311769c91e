// Package history records prepare runs in a small SQL database.
//
// SQLite (modernc.org/sqlite) is the default backend and lives in the state
// directory; MySQL or MariaDB (go-sql-driver/mysql) can be selected for
// shared history across machines. The schema is applied from embedded,
// ordered migrations tracked in schema_migrations, and only uses column
// types both engines accept.
//
// Callers treat history as best effort: a failed write is logged and never
// fails the conversion it describes.
package history
