// Package database, lokal SQLite bağlantısını ve migration sistemini yönetir.
//
// Bu uygulamada SQLite'ın tek görevi session store'u kalıcılaştırmaktır —
// sayfa yenilense (process yeniden başlasa) bile oturum ayakta kalır.
// Kurs/quiz verisi lokalde TUTULMAZ; her seferinde API'den taze çekilir.
//
// modernc.org/sqlite pure-Go bir driver'dır — CGO gerekmez, her platformda çalışır.
// Blank import (_ "modernc.org/sqlite") driver'ı database/sql'e kaydeder:
// import'un yan etkisi (side effect) gereklidir.
package database

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// DB, veritabanı bağlantısını saran struct.
// *sql.DB Go'nun built-in connection pool'udur — thread-safe'dir.
type DB struct {
	Conn *sql.DB
}

// New, SQLite bağlantısı açar ve migration'ları çalıştırır.
//
// dbPath: SQLite dosya yolu (ör: "./data/tutorhub.db")
// migrationsFS: Migration SQL dosyalarını içeren fs.FS (embed.FS veya os.DirFS)
func New(dbPath string, migrationsFS fs.FS) (*DB, error) {
	// Veritabanı dosyasının bulunduğu dizini oluştur (yoksa)
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// "_pragma=journal_mode(WAL)" → Write-Ahead Logging: eşzamanlı okuma/yazma
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{Conn: conn}

	if err := db.runMigrations(migrationsFS); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("[database] connected and migrations applied")
	return db, nil
}

// Close, veritabanı bağlantısını kapatır.
func (db *DB) Close() error {
	return db.Conn.Close()
}

// runMigrations, migrations/ dizinindeki SQL dosyalarını sırayla çalıştırır.
// Dosya isimleri sıralıdır: 001_init.sql, 002_..., ...
//
// schema_migrations tablosu hangi migration'ların uygulandığını takip eder —
// sonraki başlatmalarda sadece yeni migration'lar çalışır.
func (db *DB) runMigrations(migrationsFS fs.FS) error {
	if _, err := db.Conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	// Halihazırda uygulanmış migration'ları oku
	applied := make(map[string]bool)
	rows, err := db.Conn.Query("SELECT filename FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate migration rows: %w", err)
	}

	for _, file := range sqlFiles {
		if applied[file] {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		if _, err := db.Conn.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file, err)
		}

		if _, err := db.Conn.Exec(
			"INSERT INTO schema_migrations (filename) VALUES (?)", file,
		); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", file, err)
		}

		log.Printf("[database] migration applied: %s", file)
	}

	return nil
}
