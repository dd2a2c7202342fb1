// Package datarecording stores simulation records in SQLite databases.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a new table. The columns are the fields of the
	// sample entry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers an entry for a table that already exists.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all the tables created.
	ListTables() []string

	// Flush writes all the buffered entries into the database.
	Flush()

	// Close flushes the buffered entries and closes the database.
	Close() error
}

// New creates a DataRecorder that writes into path.sqlite3. If path is
// empty, a unique name is generated. The recorder flushes itself when the
// program exits through atexit.
func New(path string) DataRecorder {
	w := NewSQLiteWriter(path)
	w.Init()

	atexit.Register(func() { w.Flush() })

	return w
}

// NewWithDB creates a new DataRecorder with a given database.
func NewWithDB(db *sql.DB) DataRecorder {
	w := &SQLiteWriter{
		DB:        db,
		batchSize: defaultBatchSize,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { w.Flush() })

	return w
}

const defaultBatchSize = 100000

type table struct {
	structType reflect.Type
	entries    []any
}

// SQLiteWriter is the writer that writes data into SQLite database
type SQLiteWriter struct {
	*sql.DB

	mu         sync.Mutex
	dbName     string
	tables     map[string]*table
	tableOrder []string
	batchSize  int
	entryCount int
}

// NewSQLiteWriter creates a writer that is not connected yet. Call Init to
// create the database file.
func NewSQLiteWriter(path string) *SQLiteWriter {
	return &SQLiteWriter{
		dbName:    path,
		batchSize: defaultBatchSize,
		tables:    make(map[string]*table),
	}
}

// WithBatchSize sets the number of buffered entries that triggers a flush.
func (w *SQLiteWriter) WithBatchSize(n int) *SQLiteWriter {
	w.batchSize = n
	return w
}

// Filename returns the name of the database file.
func (w *SQLiteWriter) Filename() string {
	return w.dbName + ".sqlite3"
}

// Init establishes a connection to the database. It panics if the file
// already exists.
func (w *SQLiteWriter) Init() {
	if w.dbName == "" {
		w.dbName = "memsim_" + xid.New().String()
	}

	filename := w.Filename()

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	w.DB = db
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
		return fmt.Errorf("entry of type %T is not a struct", entry)
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() {
			return fmt.Errorf("field %s is not exported", field.Name)
		}

		if !isAllowedKind(field.Type.Kind()) {
			return errors.New("field " + field.Name + " is not a scalar")
		}
	}

	return nil
}

// CreateTable creates a table whose columns are the fields of the sample
// entry. It panics if a field is not a scalar.
func (w *SQLiteWriter) CreateTable(tableName string, sampleEntry any) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := checkStructFields(sampleEntry); err != nil {
		panic(err)
	}

	if _, exists := w.tables[tableName]; exists {
		panic(fmt.Sprintf("table %s already exists", tableName))
	}

	n := structs.Names(sampleEntry)
	fields := strings.Join(n, ", \n\t")

	createTableSQL := `CREATE TABLE ` + tableName +
		` (` + "\n\t" + fields + "\n" + `);`
	w.mustExecute(createTableSQL)

	w.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
	}
	w.tableOrder = append(w.tableOrder, tableName)
}

// InsertData buffers an entry. The buffer is flushed when it reaches the
// batch size.
func (w *SQLiteWriter) InsertData(tableName string, entry any) {
	w.mu.Lock()

	table, exists := w.tables[tableName]
	if !exists {
		w.mu.Unlock()
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != table.structType {
		w.mu.Unlock()
		panic(fmt.Sprintf("entry of type %T does not fit table %s",
			entry, tableName))
	}

	table.entries = append(table.entries, entry)
	w.entryCount++
	full := w.entryCount >= w.batchSize

	w.mu.Unlock()

	if full {
		w.Flush()
	}
}

// ListTables returns the tables in the order they were created.
func (w *SQLiteWriter) ListTables() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	tables := make([]string, len(w.tableOrder))
	copy(tables, w.tableOrder)

	return tables
}

// Flush writes all the buffered entries in one transaction.
func (w *SQLiteWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.entryCount == 0 {
		return
	}

	tx, err := w.Begin()
	if err != nil {
		panic(err)
	}

	for _, tableName := range w.tableOrder {
		table := w.tables[tableName]
		if len(table.entries) == 0 {
			continue
		}

		stmt := mustPrepare(tx, tableName, table.entries[0])

		for _, entry := range table.entries {
			if _, err := stmt.Exec(structs.Values(entry)...); err != nil {
				panic(err)
			}
		}

		table.entries = nil

		stmt.Close()
	}

	if err := tx.Commit(); err != nil {
		panic(err)
	}

	w.entryCount = 0
}

// Close flushes the buffered entries and closes the database.
func (w *SQLiteWriter) Close() error {
	w.Flush()
	return w.DB.Close()
}

func (w *SQLiteWriter) mustExecute(query string) sql.Result {
	res, err := w.Exec(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}

func mustPrepare(tx *sql.Tx, table string, entry any) *sql.Stmt {
	n := structs.Names(entry)
	for i := range n {
		n[i] = "?"
	}

	entryToFill := "(" + strings.Join(n, ", ") + ")"
	sqlStr := "INSERT INTO " + table + " VALUES " + entryToFill

	stmt, err := tx.Prepare(sqlStr)
	if err != nil {
		panic(err)
	}

	return stmt
}
