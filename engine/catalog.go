package engine

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Catalog loads table definitions from a catalog text file and opens (or
// creates) each table's backing HeapFile, matching the loader contract
// implied by the teacher's lab1_solution/godb/parser_test.go
// (NewCatalog/parseCatalogFile/tableNameToFile/GetTable) and spec.md §6's
// catalog file format: one table per line,
// `name ( col type [pk] , col type [pk] , ... )`.
type Catalog struct {
	catalogFile string
	rootDir     string
	bufPool     *BufferPool
	tableMap    map[string]DbFile
	pkMap       map[string]string
}

// NewCatalog constructs a catalog that will load catalogFile (resolved
// relative to rootDir) and open table backing files under rootDir.
func NewCatalog(catalogFile string, bp *BufferPool, rootDir string) *Catalog {
	return &Catalog{
		catalogFile: catalogFile,
		rootDir:     rootDir,
		bufPool:     bp,
		tableMap:    make(map[string]DbFile),
		pkMap:       make(map[string]string),
	}
}

// tableNameToFile returns the backing file path for a table name: `<name>.dat`
// in the catalog's root directory.
func (c *Catalog) tableNameToFile(name string) string {
	return filepath.Join(c.rootDir, name+".dat")
}

// addTable registers an already-open DbFile under name.
func (c *Catalog) addTable(name string, file DbFile, pk string) {
	c.tableMap[name] = file
	c.pkMap[name] = pk
}

// CreateTable opens (creating if necessary) a backing HeapFile for a new
// table and registers it under name, used by the SQL frontend's CREATE
// TABLE handling.
func (c *Catalog) CreateTable(name string, desc *TupleDesc, pk string) error {
	if _, exists := c.tableMap[name]; exists {
		return GoDBError{MalformedDataError, "table already exists: " + name}
	}
	hf, err := NewHeapFile(c.tableNameToFile(name), desc, c.bufPool)
	if err != nil {
		return err
	}
	c.addTable(name, hf, pk)
	return nil
}

// GetTable looks up the DbFile backing table name.
func (c *Catalog) GetTable(name string) (DbFile, error) {
	f, ok := c.tableMap[name]
	if !ok {
		return nil, GoDBError{TupleNotFoundError, "no such table: " + name}
	}
	return f, nil
}

// ParseCatalogFile is the exported form of parseCatalogFile, used by
// callers outside the engine package (e.g. cmd/heapdb).
func (c *Catalog) ParseCatalogFile() error {
	return c.parseCatalogFile()
}

// parseCatalogFile reads c.catalogFile line by line, constructing a
// TupleDesc and opening (or creating) each table's backing HeapFile.
func (c *Catalog) parseCatalogFile() error {
	f, err := os.Open(filepath.Join(c.rootDir, c.catalogFile))
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, desc, pk, err := parseCatalogLine(line)
		if err != nil {
			return err
		}
		backing := c.tableNameToFile(name)
		hf, err := NewHeapFile(backing, desc, c.bufPool)
		if err != nil {
			return err
		}
		c.addTable(name, hf, pk)
	}
	return scanner.Err()
}

// parseCatalogLine parses `name ( col type [pk] , col type [pk] , ... )`.
func parseCatalogLine(line string) (name string, desc *TupleDesc, pk string, err error) {
	open := strings.Index(line, "(")
	close := strings.LastIndex(line, ")")
	if open < 0 || close < 0 || close < open {
		return "", nil, "", GoDBError{ParseError, "malformed catalog line: " + line}
	}
	name = strings.TrimSpace(line[:open])
	body := line[open+1 : close]

	var types []Type
	var names []string
	for _, col := range strings.Split(body, ",") {
		col = strings.TrimSpace(col)
		if col == "" {
			continue
		}
		parts := strings.Fields(col)
		if len(parts) < 2 {
			return "", nil, "", GoDBError{ParseError, "malformed catalog column: " + col}
		}
		colName, colType := parts[0], strings.ToLower(parts[1])
		var ftype Type
		switch colType {
		case "int":
			ftype = IntType
		case "string":
			ftype = StringType
		default:
			return "", nil, "", GoDBError{ParseError, "unknown column type: " + colType}
		}
		types = append(types, ftype)
		names = append(names, colName)
		if len(parts) >= 3 && strings.ToLower(parts[2]) == "pk" {
			pk = colName
		}
	}
	td, err := NewTupleDesc(types, names)
	if err != nil {
		return "", nil, "", err
	}
	return name, td, pk, nil
}
