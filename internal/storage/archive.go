package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/itcaat/olxscraper/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// Archive appends scraped listings to a SQLite database. Every call to Store
// is one run and gets its own run ID. Rows are never deduplicated.
type Archive struct {
	db  *sql.DB
	now func() time.Time
}

// OpenArchive opens or creates the archive database at path.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a := &Archive{db: db, now: time.Now}
	if err := a.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return a, nil
}

func (a *Archive) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS listings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		query TEXT NOT NULL,
		title TEXT NOT NULL,
		price TEXT NOT NULL,
		location TEXT NOT NULL,
		url TEXT NOT NULL,
		image_url TEXT NOT NULL,
		scraped_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_listings_run_id ON listings(run_id);
	`

	_, err := a.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Store inserts listings as a new run and returns the run ID.
func (a *Archive) Store(query string, listings []models.Listing) (uuid.UUID, error) {
	runID := uuid.New()
	scrapedAt := a.now().UTC()

	tx, err := a.db.Begin()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
	INSERT INTO listings (run_id, query, title, price, location, url, image_url, scraped_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		if _, err := stmt.Exec(runID.String(), query, l.Title, l.Price, l.Location, l.URL, l.ImageURL, scrapedAt); err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert listing: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// Run returns the listings stored for runID in insertion order.
func (a *Archive) Run(runID uuid.UUID) ([]models.Listing, error) {
	rows, err := a.db.Query(`
	SELECT title, price, location, url, image_url
	FROM listings
	WHERE run_id = ?
	ORDER BY id
	`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(&l.Title, &l.Price, &l.Location, &l.URL, &l.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}

	return listings, rows.Err()
}

// Runs returns the distinct run IDs recorded for query, oldest first.
func (a *Archive) Runs(query string) ([]uuid.UUID, error) {
	rows, err := a.db.Query(`
	SELECT run_id
	FROM listings
	WHERE query = ?
	GROUP BY run_id
	ORDER BY MIN(id)
	`, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan run id: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", raw, err)
		}
		runs = append(runs, id)
	}

	return runs, rows.Err()
}
