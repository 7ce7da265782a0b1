// Package recording stores what happens during a run into an SQLite file:
// the cycles in which outputs or the mode changed, every station transition
// and every queue event.
package recording

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// ErrEntry reports an entry type that cannot become a table.
var ErrEntry = errors.New("entry is invalid")

// DataRecorder is a backend that can record and store data.
type DataRecorder interface {
	// CreateTable creates a table whose columns are the fields of
	// sampleEntry.
	CreateTable(tableName string, sampleEntry any) error

	// InsertData buffers an entry for a table that already exists.
	InsertData(tableName string, entry any) error

	// ListTables returns the names of all tables created.
	ListTables() []string

	// Flush writes all the buffered entries in one transaction.
	Flush() error
}

type table struct {
	name       string
	structType reflect.Type
	entries    []any
}

// SQLiteWriter is the DataRecorder writing into an SQLite database.
type SQLiteWriter struct {
	*sql.DB

	dbName     string
	tables     map[string]*table
	order      []string
	batchSize  int
	entryCount int
}

// NewSQLiteWriter creates a writer for path, without the .sqlite3 suffix. An
// empty path picks a unique name. The writer flushes when the program exits
// through atexit.
func NewSQLiteWriter(path string) *SQLiteWriter {
	w := &SQLiteWriter{
		dbName:    path,
		batchSize: 10000,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { _ = w.Flush() })

	return w
}

// Filename returns the database file name.
func (w *SQLiteWriter) Filename() string {
	return w.dbName + ".sqlite3"
}

// Init creates the database file. It refuses to overwrite an existing file.
func (w *SQLiteWriter) Init() error {
	if w.dbName == "" {
		w.dbName = "scanrt_recording_" + xid.New().String()
	}

	filename := w.Filename()

	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return err
	}

	w.DB = db

	return nil
}

func isAllowedKind(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func checkStructFields(entry any) error {
	t := reflect.TypeOf(entry)
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T is not a struct", ErrEntry, entry)
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || !isAllowedKind(field.Type.Kind()) {
			return fmt.Errorf("%w: field %s of %T", ErrEntry, field.Name, entry)
		}
	}

	return nil
}

// CreateTable creates tableName with one column per field of sampleEntry.
func (w *SQLiteWriter) CreateTable(tableName string, sampleEntry any) error {
	if err := checkStructFields(sampleEntry); err != nil {
		return err
	}

	names := structs.Names(sampleEntry)
	for i, n := range names {
		names[i] = quoteIdent(n)
	}

	fields := strings.Join(names, ", \n\t")
	createTableSQL := `CREATE TABLE ` + quoteIdent(tableName) +
		` (` + "\n\t" + fields + "\n" + `);`

	if _, err := w.Exec(createTableSQL); err != nil {
		return fmt.Errorf("create table %s: %w", tableName, err)
	}

	w.tables[tableName] = &table{
		name:       tableName,
		structType: reflect.TypeOf(sampleEntry),
	}
	w.order = append(w.order, tableName)

	return nil
}

// InsertData buffers entry. A full batch is flushed right away.
func (w *SQLiteWriter) InsertData(tableName string, entry any) error {
	t, exists := w.tables[tableName]
	if !exists {
		return fmt.Errorf("table %s does not exist", tableName)
	}

	if reflect.TypeOf(entry) != t.structType {
		return fmt.Errorf("%w: %T does not fit table %s", ErrEntry, entry, tableName)
	}

	t.entries = append(t.entries, entry)

	w.entryCount++
	if w.entryCount >= w.batchSize {
		return w.Flush()
	}

	return nil
}

// ListTables returns the tables in creation order.
func (w *SQLiteWriter) ListTables() []string {
	return append([]string(nil), w.order...)
}

// Flush writes every buffered entry in a single transaction.
func (w *SQLiteWriter) Flush() error {
	if w.entryCount == 0 || w.DB == nil {
		return nil
	}

	tx, err := w.Begin()
	if err != nil {
		return err
	}

	for _, name := range w.order {
		t := w.tables[name]
		if len(t.entries) == 0 {
			continue
		}

		if err := insertAll(tx, t); err != nil {
			_ = tx.Rollback()
			return err
		}

		t.entries = nil
	}

	w.entryCount = 0

	return tx.Commit()
}

func insertAll(tx *sql.Tx, t *table) error {
	placeholders := make([]string, t.structType.NumField())
	for i := range placeholders {
		placeholders[i] = "?"
	}

	stmt, err := tx.Prepare("INSERT INTO " + quoteIdent(t.name) +
		" VALUES (" + strings.Join(placeholders, ", ") + ")")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, entry := range t.entries {
		if _, err := stmt.Exec(structs.Values(entry)...); err != nil {
			return fmt.Errorf("insert into %s: %w", t.name, err)
		}
	}

	return nil
}

// quoteIdent quotes a table or column name so that SQL keywords can be used
// as field names.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Close flushes and closes the database.
func (w *SQLiteWriter) Close() error {
	if w.DB == nil {
		return nil
	}

	if err := w.Flush(); err != nil {
		return err
	}

	return w.DB.Close()
}
