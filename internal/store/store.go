// Copyright Align Security Inc., 2026. All rights reserved.

// Package store persists search history in a SQLite database: what was
// asked, what the compiler produced, and the scored papers that came back.
// Recording is best-effort from the pipeline's point of view; the searcher
// decides whether a history failure matters.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/align-sec/arxiv-mcp/pkg/types"
)

const dbFile = "history.db"

// Store manages the search history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at dataDir/history.db,
// creating the schema if it does not exist.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query_text TEXT NOT NULL,
			parsed TEXT NOT NULL,
			result_count INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			search_id INTEGER NOT NULL REFERENCES searches(id),
			rank INTEGER NOT NULL,
			relevance_score REAL NOT NULL,
			title TEXT,
			summary TEXT,
			authors TEXT,
			published TEXT,
			updated TEXT,
			arxiv_id TEXT,
			url TEXT,
			categories TEXT,
			PRIMARY KEY (search_id, rank)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_search_id ON results(search_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SearchRecord is one row of search history.
type SearchRecord struct {
	ID          int64
	QueryText   string
	Parsed      types.ParsedQuery
	ResultCount int
	CreatedAt   time.Time
}

// Save records one completed search and its ranked results in a single
// transaction. Returns the new search id.
func (s *Store) Save(ctx context.Context, queryText string, parsed types.ParsedQuery, papers []types.ScoredPaper) (int64, error) {
	parsedJSON, err := json.Marshal(parsed)
	if err != nil {
		return 0, fmt.Errorf("marshaling parsed query: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO searches (query_text, parsed, result_count, created_at) VALUES (?, ?, ?, ?)`,
		queryText, string(parsedJSON), len(papers), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("inserting search: %w", err)
	}
	searchID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading search id: %w", err)
	}

	for i, p := range papers {
		authors, err := json.Marshal(p.Authors)
		if err != nil {
			return 0, fmt.Errorf("marshaling authors: %w", err)
		}
		categories, err := json.Marshal(p.Categories)
		if err != nil {
			return 0, fmt.Errorf("marshaling categories: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO results (search_id, rank, relevance_score, title, summary, authors, published, updated, arxiv_id, url, categories)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			searchID, i+1, p.RelevanceScore, p.Title, p.Summary, string(authors),
			p.Published, p.Updated, p.ArxivID, p.URL, string(categories))
		if err != nil {
			return 0, fmt.Errorf("inserting result %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return searchID, nil
}

// Recent returns the most recent searches, newest first. A non-positive
// n returns 20.
func (s *Store) Recent(ctx context.Context, n int) ([]SearchRecord, error) {
	if n <= 0 {
		n = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query_text, parsed, result_count, created_at FROM searches ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying searches: %w", err)
	}
	defer rows.Close()

	var records []SearchRecord
	for rows.Next() {
		var r SearchRecord
		var parsedJSON, createdAt string
		if err := rows.Scan(&r.ID, &r.QueryText, &parsedJSON, &r.ResultCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		if err := json.Unmarshal([]byte(parsedJSON), &r.Parsed); err != nil {
			return nil, fmt.Errorf("parsing stored query %d: %w", r.ID, err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.CreatedAt = t
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Results returns the ranked papers recorded for one search, in rank
// order.
func (s *Store) Results(ctx context.Context, searchID int64) ([]types.ScoredPaper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT relevance_score, title, summary, authors, published, updated, arxiv_id, url, categories
		 FROM results WHERE search_id = ? ORDER BY rank`, searchID)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var papers []types.ScoredPaper
	for rows.Next() {
		var p types.ScoredPaper
		var authors, categories string
		if err := rows.Scan(&p.RelevanceScore, &p.Title, &p.Summary, &authors,
			&p.Published, &p.Updated, &p.ArxivID, &p.URL, &categories); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		if err := json.Unmarshal([]byte(authors), &p.Authors); err != nil {
			return nil, fmt.Errorf("parsing authors for search %d: %w", searchID, err)
		}
		if err := json.Unmarshal([]byte(categories), &p.Categories); err != nil {
			return nil, fmt.Errorf("parsing categories for search %d: %w", searchID, err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
