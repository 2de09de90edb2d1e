// Package migrations creates the tables backing the optional DB mirror.
package migrations

import "database/sql"

// Run creates required tables if they do not exist.
func Run(db *sql.DB) error {
	createRecords := `
	CREATE TABLE IF NOT EXISTS counseling_records (
		language VARCHAR(8) NOT NULL,
		medicine VARCHAR(191) NOT NULL,
		payload MEDIUMTEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (language, medicine)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	_, err := db.Exec(createRecords)
	return err
}
