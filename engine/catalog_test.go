package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCatalogParsesCatalogFile(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.txt")
	contents := "students (id int pk, name string)\ncourses (id int pk, title string)\n"
	if err := os.WriteFile(catalogPath, []byte(contents), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	bp, err := NewBufferPool(10)
	if err != nil {
		t.Fatalf("NewBufferPool() error = %v", err)
	}
	cat := NewCatalog("catalog.txt", bp, dir)
	if err := cat.ParseCatalogFile(); err != nil {
		t.Fatalf("ParseCatalogFile() error = %v", err)
	}

	students, err := cat.GetTable("students")
	if err != nil {
		t.Fatalf("GetTable(students) error = %v", err)
	}
	desc := students.Descriptor()
	if len(desc.Fields) != 2 || desc.Fields[0].Ftype != IntType || desc.Fields[1].Ftype != StringType {
		t.Errorf("students schema = %+v, want (int, string)", desc.Fields)
	}

	if _, err := cat.GetTable("nope"); err == nil {
		t.Error("GetTable() on unknown table should fail")
	}
}

func TestCatalogCreateTableRejectsDuplicate(t *testing.T) {
	dir := t.TempDir()
	bp, err := NewBufferPool(10)
	if err != nil {
		t.Fatalf("NewBufferPool() error = %v", err)
	}
	cat := NewCatalog("catalog.txt", bp, dir)
	desc := testDesc(t)

	if err := cat.CreateTable("t", desc, "id"); err != nil {
		t.Fatalf("CreateTable() error = %v", err)
	}
	if err := cat.CreateTable("t", desc, "id"); err == nil {
		t.Error("CreateTable() on an existing table should fail")
	}
}
