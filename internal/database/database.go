package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool. The pool is capped at a single
// connection: sqlite allows one writer at a time, and a single-connection pool
// keeps every read-validate-write transaction serialized.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT UNIQUE,
		email TEXT UNIQUE,
		phone TEXT UNIQUE,
		password_hash TEXT,
		is_admin INTEGER NOT NULL DEFAULT 0,
		is_blocked INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS api_keys (
		id TEXT NOT NULL PRIMARY KEY,
		key TEXT NOT NULL UNIQUE,
		description TEXT,
		is_revoked INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT NOT NULL PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id),
		name TEXT,
		brand TEXT NOT NULL,
		model TEXT NOT NULL,
		gen TEXT,
		year INTEGER NOT NULL,
		color TEXT,
		mileage INTEGER NOT NULL DEFAULT 0,
		vin TEXT UNIQUE,
		registration_plate TEXT UNIQUE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS locations (
		id TEXT NOT NULL PRIMARY KEY,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS fuels (
		id TEXT NOT NULL PRIMARY KEY,
		vehicle_id TEXT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		location_id TEXT NOT NULL REFERENCES locations(id),
		fuel_type TEXT NOT NULL,
		quantity REAL NOT NULL,
		price REAL NOT NULL,
		mileage INTEGER NOT NULL,
		is_full INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS service_types (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT
	);

	CREATE TABLE IF NOT EXISTS service_records (
		id TEXT NOT NULL PRIMARY KEY,
		vehicle_id TEXT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		service_type_id TEXT NOT NULL REFERENCES service_types(id),
		location_id TEXT NOT NULL REFERENCES locations(id),
		price REAL NOT NULL,
		mileage INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS reminders (
		id TEXT NOT NULL PRIMARY KEY,
		vehicle_id TEXT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		service_type_id TEXT NOT NULL REFERENCES service_types(id),
		next_mileage INTEGER NOT NULL,
		next_date DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS posts (
		id TEXT NOT NULL PRIMARY KEY,
		author_id TEXT NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		thumbnail TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS comments (
		id TEXT NOT NULL PRIMARY KEY,
		post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		author_id TEXT NOT NULL REFERENCES users(id),
		body TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		author_id TEXT NOT NULL REFERENCES users(id),
		location_id TEXT NOT NULL REFERENCES locations(id),
		title TEXT NOT NULL UNIQUE,
		description TEXT,
		thumbnail TEXT,
		body TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		state TEXT NOT NULL DEFAULT 'planned',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS event_confirmations (
		id TEXT NOT NULL PRIMARY KEY,
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL REFERENCES users(id),
		confirmation TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(event_id, user_id)
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
