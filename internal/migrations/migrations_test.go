package migrations

import (
	"io/fs"
	"testing"
)

func TestMigrationsEmbedded(t *testing.T) {
	for _, name := range []string{"001_init.sql", "002_todo_items.sql"} {
		data, err := Files.ReadFile(name)
		if err != nil {
			t.Fatalf("expected embedded migration %s, got error: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("embedded migration %s is empty", name)
		}
	}

	entries, err := fs.ReadDir(Files, ".")
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(entries))
	}
}
