package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeDefinition(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
		t.Fatalf("write definition: %v", err)
	}
}

func TestFileCatalogListAll(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "complaint.yaml", `category: Заявление
name: Жалоба
fields:
  - ФИО
  - Дата
body: "Я, {{ФИО}}, прошу рассмотреть заявление от {{Дата}}."
`)
	writeDefinition(t, dir, "reference.yaml", `id: ref-1
category: Справка
name: Справка с места работы
fields: [ФИО]
body: "Справка выдана {{ФИО}}."
`)
	writeDefinition(t, dir, "notes.txt", "ignored")

	cat := NewFileCatalog(dir)
	defs, err := cat.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}

	// ID defaults to the file name stem when not declared.
	if defs[0].ID != "complaint" {
		t.Fatalf("expected id complaint, got %q", defs[0].ID)
	}
	if defs[1].ID != "ref-1" {
		t.Fatalf("expected id ref-1, got %q", defs[1].ID)
	}
	if len(defs[0].RequiredFields) != 2 || defs[0].RequiredFields[0] != "ФИО" {
		t.Fatalf("unexpected fields: %v", defs[0].RequiredFields)
	}
}

func TestFileCatalogGet(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "complaint.yaml", `category: Заявление
name: Жалоба
body: "текст"
`)

	cat := NewFileCatalog(dir)

	def, err := cat.Get(context.Background(), "complaint")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if def.DisplayName != "Жалоба" {
		t.Fatalf("unexpected definition: %+v", def)
	}

	if _, err := cat.Get(context.Background(), "missing"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestFileCatalogMissingDirIsEmpty(t *testing.T) {
	cat := NewFileCatalog(filepath.Join(t.TempDir(), "nope"))
	defs, err := cat.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(defs) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(defs))
	}
}

func TestLoadDefinitionInvalid(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "bad.yaml", `name: без категории
body: "текст"
`)

	if _, err := LoadDefinition(filepath.Join(dir, "bad.yaml")); err == nil {
		t.Fatal("expected validation error for missing category")
	}
}
