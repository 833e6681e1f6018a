// Package store provides the SQL-backed query engine.
//
// A Store wraps a database/sql connection to SQLite, MySQL or PostgreSQL.
// A Repository exposes one table as a query.Engine: list queries are
// compiled by querysql with mandatory ordering and bound parameters, and
// rows come back as *Row values that remember their column order.
//
// # Rows
//
// A Row is a key-value record. Its Columns are the field set loaded from
// the database, in SELECT order, which the projection package uses to
// enumerate fields.
//
// # References
//
// Foreign-key columns declared in the table's References are returned as
// *Reference values. A Reference only holds the key until Load fetches the
// label column of the referenced row; its String form is the label.
//
// # Database Configuration (SQLite)
//
//   - WAL mode: Concurrent reads
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
