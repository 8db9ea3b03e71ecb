package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"movie-recommender/internal/config"
)

// NewPostgres opens the movie catalog database and makes sure the columns
// the recommender reads exist.
func NewPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Migrations are idempotent. The base tables match the movie-service catalog
// so an existing catalog database can be pointed at directly.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS genres (
		id SERIAL PRIMARY KEY,
		tmdb_id INTEGER UNIQUE NOT NULL,
		name VARCHAR(100) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS movies (
		id SERIAL PRIMARY KEY,
		tmdb_id INTEGER UNIQUE NOT NULL,
		title VARCHAR(500) NOT NULL,
		overview TEXT DEFAULT '',
		release_date DATE,
		popularity DOUBLE PRECISION DEFAULT 0,
		poster_path VARCHAR(500) DEFAULT '',
		backdrop_path VARCHAR(500) DEFAULT '',
		original_language VARCHAR(10) DEFAULT 'en',
		runtime INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT NOW(),
		updated_at TIMESTAMP DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS movie_genres (
		movie_id INTEGER REFERENCES movies(id) ON DELETE CASCADE,
		genre_id INTEGER REFERENCES genres(id) ON DELETE CASCADE,
		PRIMARY KEY (movie_id, genre_id)
	)`,
	// Credits and ids the similarity engine needs
	`ALTER TABLE movies ADD COLUMN IF NOT EXISTS imdb_id VARCHAR(20)`,
	`ALTER TABLE movies ADD COLUMN IF NOT EXISTS director VARCHAR(255)`,
	`ALTER TABLE movies ADD COLUMN IF NOT EXISTS vote_average DOUBLE PRECISION DEFAULT 0`,
	`CREATE TABLE IF NOT EXISTS movie_cast (
		movie_id INTEGER REFERENCES movies(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		billing_order INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (movie_id, name)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_title ON movies(title)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_popularity ON movies(popularity)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_imdb_id ON movies(imdb_id)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_director ON movies(LOWER(director))`,
}

func runMigrations(db *sql.DB) error {
	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed")
	return nil
}
