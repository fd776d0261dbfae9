package catalog

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps the SQLite course catalog.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the catalog database in dataDir and runs pending
// migrations. Pass ":memory:" as dataDir for an in-memory database (used by
// tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "learnpath.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent access waits briefly instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate reads embedded SQL migration files and applies any that haven't been run yet.
func (s *Store) migrate() error {
	// Ensure schema_version table exists (bootstrap).
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort by filename to guarantee ascending order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		// Check if already applied.
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

const courseColumns = `id, title, url, rating, num_reviews, num_published_lectures,
	created, last_update_date, duration, instructors_id, image`

// SearchCourses returns up to limit courses whose title contains any of the
// given keywords as a case-insensitive substring. Blank keywords are skipped;
// if none remain, no query is issued and the result is empty. Row order is
// unspecified but deterministic (SQLite returns storage order).
func (s *Store) SearchCourses(ctx context.Context, keywords []string, limit int) ([]Course, error) {
	var clauses []string
	var args []any
	for _, k := range keywords {
		if strings.TrimSpace(k) == "" {
			continue
		}
		// SQLite LIKE is case-insensitive for ASCII.
		clauses = append(clauses, "title LIKE ?")
		args = append(args, "%"+k+"%")
	}
	if len(clauses) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM courses WHERE %s LIMIT ?",
		courseColumns, strings.Join(clauses, " OR "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching courses: %w", err)
	}
	defer rows.Close()

	var results []Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// GetCourse returns a single course by id, or ErrNotFound.
func (s *Store) GetCourse(ctx context.Context, id int64) (Course, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM courses WHERE id = ?", courseColumns), id)
	c, err := scanCourse(row)
	if err == sql.ErrNoRows {
		return Course{}, ErrNotFound
	}
	if err != nil {
		return Course{}, err
	}
	return c, nil
}

// CountCourses returns the total number of catalog rows.
func (s *Store) CountCourses(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM courses").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting courses: %w", err)
	}
	return n, nil
}

// InsertCourses bulk-inserts courses in a single transaction and returns the
// number of rows written. Used by catalog seeding; the serving path never
// writes.
func (s *Store) InsertCourses(ctx context.Context, courses []Course) (int, error) {
	if len(courses) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO courses (title, url, rating, num_reviews, num_published_lectures,
			created, last_update_date, duration, instructors_id, image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range courses {
		if strings.TrimSpace(c.Title) == "" || strings.TrimSpace(c.URL) == "" {
			return 0, fmt.Errorf("course %d: title and url are required", i)
		}
		if _, err := stmt.ExecContext(ctx,
			c.Title, c.URL, c.Rating, c.NumReviews, c.NumPublishedLectures,
			c.Created, c.LastUpdateDate, c.Duration, c.InstructorsID, c.Image,
		); err != nil {
			return 0, fmt.Errorf("inserting course %q: %w", c.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return len(courses), nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCourse(row scanner) (Course, error) {
	var c Course
	var rating sql.NullFloat64
	var numReviews, numLectures sql.NullInt64
	var created, lastUpdate, duration, instructors, image sql.NullString

	if err := row.Scan(
		&c.ID, &c.Title, &c.URL, &rating, &numReviews, &numLectures,
		&created, &lastUpdate, &duration, &instructors, &image,
	); err != nil {
		return Course{}, err
	}

	if rating.Valid {
		c.Rating = &rating.Float64
	}
	if numReviews.Valid {
		c.NumReviews = &numReviews.Int64
	}
	if numLectures.Valid {
		c.NumPublishedLectures = &numLectures.Int64
	}
	if created.Valid {
		c.Created = &created.String
	}
	if lastUpdate.Valid {
		c.LastUpdateDate = &lastUpdate.String
	}
	if duration.Valid {
		c.Duration = &duration.String
	}
	if instructors.Valid {
		c.InstructorsID = &instructors.String
	}
	if image.Valid {
		c.Image = &image.String
	}
	return c, nil
}
