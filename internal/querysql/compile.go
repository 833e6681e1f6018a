// Package querysql compiles criteria trees into parameterized SQL.
//
// Every statement is deterministic: list queries always carry an ORDER BY
// on the identifier column, and values are always bound as parameters,
// never interpolated. Identifiers are quoted for the target dialect.
package querysql

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/restview/internal/criteria"
)

// Dialect selects identifier quoting, placeholder style and ordering rules.
type Dialect int

const (
	SQLite Dialect = iota
	MySQL
	Postgres
)

// String returns the database/sql driver name for the dialect.
func (d Dialect) String() string {
	switch d {
	case SQLite:
		return "sqlite3"
	case MySQL:
		return "mysql"
	case Postgres:
		return "pgx"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// ParseDialect maps a driver name (or a common alias) to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "sqlite3", "sqlite":
		return SQLite, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "pgx", "postgres", "postgresql":
		return Postgres, nil
	default:
		return SQLite, fmt.Errorf("unsupported driver %q", driver)
	}
}

// sqliteTimeLayout sorts lexicographically in the same order as the
// instants it encodes, as long as every value is in UTC.
const sqliteTimeLayout = "2006-01-02 15:04:05.999999999"

// Select describes a paged read of one table.
type Select struct {
	From    string
	Columns []string // empty selects every column
	Filter  criteria.Predicate
	OrderBy string // identifier column; defaults to "id"
	Limit   int    // 0 means no limit
	Offset  int
}

// Compiler compiles Select statements for a dialect.
type Compiler struct {
	dialect Dialect
}

// NewCompiler creates a Compiler for d.
func NewCompiler(d Dialect) *Compiler {
	return &Compiler{dialect: d}
}

// Dialect returns the compiler's dialect.
func (c *Compiler) Dialect() Dialect {
	return c.dialect
}

// Compile converts q to (sql, params).
func (c *Compiler) Compile(q Select) (string, []any, error) {
	if err := c.check(q); err != nil {
		return "", nil, err
	}

	b := &builder{dialect: c.dialect}
	where, err := b.predicate(q.Filter)
	if err != nil {
		return "", nil, fmt.Errorf("compile filter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(c.columns(q.Columns))
	sb.WriteString(" FROM ")
	sb.WriteString(c.Quote(q.From))
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(c.orderKey(q.OrderBy))

	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(b.bind(int64(q.Limit)))
		sb.WriteString(" OFFSET ")
		sb.WriteString(b.bind(int64(q.Offset)))
	}

	return sb.String(), b.params, nil
}

// CompileCount converts q to a COUNT(*) over every matching row.
// Columns, ordering and pagination are ignored.
func (c *Compiler) CompileCount(q Select) (string, []any, error) {
	if err := c.check(q); err != nil {
		return "", nil, err
	}

	b := &builder{dialect: c.dialect}
	where, err := b.predicate(q.Filter)
	if err != nil {
		return "", nil, fmt.Errorf("compile filter: %w", err)
	}

	sql := "SELECT COUNT(*) FROM " + c.Quote(q.From)
	if where != "" {
		sql += " WHERE " + where
	}
	return sql, b.params, nil
}

// CompileFindByID selects the single row of table whose idColumn equals id.
func (c *Compiler) CompileFindByID(table, idColumn string, columns []string, id any) (string, []any, error) {
	if table == "" {
		return "", nil, fmt.Errorf("cannot compile query without a table")
	}
	if idColumn == "" {
		idColumn = "id"
	}

	b := &builder{dialect: c.dialect}
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s LIMIT 1",
		c.columns(columns),
		c.Quote(table),
		c.Quote(idColumn),
		b.bind(b.param(id)))
	return sql, b.params, nil
}

// Quote quotes an identifier for the dialect, doubling embedded quotes.
func (c *Compiler) Quote(ident string) string {
	if c.dialect == MySQL {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (c *Compiler) check(q Select) error {
	if q.From == "" {
		return fmt.Errorf("cannot compile query without a table")
	}
	if q.Limit < 0 || q.Offset < 0 {
		return fmt.Errorf("negative limit or offset: %d/%d", q.Limit, q.Offset)
	}
	return criteria.Validate(q.Filter).Err()
}

func (c *Compiler) columns(cols []string) string {
	if len(cols) == 0 {
		return "*"
	}
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = c.Quote(col)
	}
	return strings.Join(quoted, ", ")
}

// orderKey returns the ORDER BY clause. SQLite text ordering is pinned
// with COLLATE BINARY.
func (c *Compiler) orderKey(column string) string {
	if column == "" {
		column = "id"
	}
	key := c.Quote(column) + " ASC"
	if c.dialect == SQLite {
		key += " COLLATE BINARY"
	}
	return key
}

// builder accumulates parameters while rendering one statement.
type builder struct {
	dialect Dialect
	params  []any
}

// bind appends v and returns its placeholder.
func (b *builder) bind(v any) string {
	b.params = append(b.params, v)
	if b.dialect == Postgres {
		return fmt.Sprintf("$%d", len(b.params))
	}
	return "?"
}

// param converts a comparison value into a driver argument.
func (b *builder) param(v any) any {
	if t, ok := v.(time.Time); ok && b.dialect == SQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return v
}

func (b *builder) quote(ident string) string {
	return (&Compiler{dialect: b.dialect}).Quote(ident)
}

// predicate renders p. An always-true predicate renders as "".
func (b *builder) predicate(p criteria.Predicate) (string, error) {
	switch pred := p.(type) {
	case nil:
		return "", nil
	case criteria.Comparison:
		return b.comparison(pred)
	case *criteria.Comparison:
		return b.comparison(*pred)
	case criteria.And:
		return b.and(pred)
	case *criteria.And:
		return b.and(*pred)
	default:
		return "", fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (b *builder) and(and criteria.And) (string, error) {
	var parts []string
	for _, sub := range and.Predicates {
		sql, err := b.predicate(sub)
		if err != nil {
			return "", err
		}
		if sql != "" {
			parts = append(parts, sql)
		}
	}
	return strings.Join(parts, " AND "), nil
}

func (b *builder) comparison(c criteria.Comparison) (string, error) {
	col := b.quote(c.Field)

	if c.Value == nil {
		switch c.Op {
		case criteria.EQ:
			return col + " IS NULL", nil
		case criteria.NEQ:
			return col + " IS NOT NULL", nil
		default:
			return "", fmt.Errorf("field %q: nil value with operator %s", c.Field, c.Op)
		}
	}

	return fmt.Sprintf("%s %s %s", col, c.Op, b.bind(b.param(c.Value))), nil
}
