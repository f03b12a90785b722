// TestDB stores evaluation envelopes and their compliance aggregates.
// This database should only be written to by result_collector
// but can be read by any service.
package testdb

import (
	"database/sql"
	"embed"
	"log"
	"sync"

	"github.com/NotCoffee418/dbmigrator"

	_ "modernc.org/sqlite"
)

var (
	db   *sql.DB
	once sync.Once
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// InitializeDatabase must be called manually on startup, before GetDB.
func InitializeDatabase(dbPath string) {
	once.Do(func() {
		var err error
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			log.Fatal(err)
		}
		// Verify connection
		if err = db.Ping(); err != nil {
			log.Fatal(err)
		}
	})

	// Create DB before migrations
	_, err := db.Exec("SELECT 1;")
	if err != nil {
		log.Printf("Warning: Could not create DB: %v", err)
	}

	// Apply migrations
	dbmigrator.SetDatabaseType(dbmigrator.SQLite)
	<-dbmigrator.MigrateUpCh(
		db,
		migrationFS,
		"migrations",
	)
}

func GetDB() *sql.DB {
	if db == nil {
		log.Fatal("testdb used before InitializeDatabase")
	}
	return db
}
