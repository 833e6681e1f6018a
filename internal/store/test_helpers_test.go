package store

import (
	"context"
	"path/filepath"
	"testing"
)

const catalogSQL = `
CREATE TABLE categories (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL
);
CREATE TABLE products (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	price INTEGER NOT NULL,
	active BOOLEAN NOT NULL DEFAULT 1,
	category_id INTEGER REFERENCES categories(id),
	created_at DATETIME
);
INSERT INTO categories (id, title) VALUES (1, 'Stationery'), (2, 'Furniture');
INSERT INTO products (id, name, price, active, category_id, created_at) VALUES
	(1, 'pen', 5, 1, 1, '2024-01-10 09:00:00'),
	(2, 'book', 50, 1, 1, '2024-01-20 09:00:00'),
	(3, 'lamp', 80, 0, 2, '2024-02-05 09:00:00'),
	(4, 'desk', 100, 1, 2, '2024-03-01 09:00:00'),
	(5, 'mystery', 30, 1, NULL, NULL);
`

// createTestStore opens a fresh SQLite database in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createCatalogStore opens a store seeded with the products catalog.
func createCatalogStore(t *testing.T) *Store {
	t.Helper()
	s := createTestStore(t)
	if err := s.Exec(context.Background(), catalogSQL); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return s
}

func productsTable() Table {
	return Table{
		Name:    "products",
		Columns: []string{"id", "name", "price", "active", "category_id", "created_at"},
		References: map[string]ReferenceSpec{
			"category_id": {Table: "categories", LabelColumn: "title"},
		},
	}
}

func rowNames(t *testing.T, records []any) []string {
	t.Helper()
	out := make([]string, 0, len(records))
	for _, rec := range records {
		v, ok := rec.(*Row).Lookup("name")
		if !ok {
			t.Fatalf("row without name: %v", rec)
		}
		out = append(out, v.(string))
	}
	return out
}
