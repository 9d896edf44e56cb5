package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createActivationCodeTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE activation_codes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL,
		product_key TEXT NOT NULL,
		verify_interval_hours INTEGER NOT NULL DEFAULT 24,
		status TEXT NOT NULL DEFAULT 'active',
		notes TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE(code, product_key)
	);`)
}

func createVerificationLogTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE verification_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL,
		device_id TEXT,
		result TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		ip_address TEXT
	);`)
}
