// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package localdb maintains an optional local mirror of paper
// metadata in SQLite. A populated mirror answers DOI and title
// lookups without network round-trips; the verification pipeline
// consults it before any remote strategy.
package localdb

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/refcheck/internal/ident"
	"github.com/pdiddy/refcheck/internal/normalize"
	"github.com/pdiddy/refcheck/pkg/types"
)

// Store manages the local papers SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the mirror database at path, creating the
// schema when absent.
func Open(cfg types.LocalDBConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("local database path not configured")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
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
		`CREATE TABLE IF NOT EXISTS papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT,
			normalized_title TEXT,
			authors TEXT,
			year INTEGER,
			venue TEXT,
			url TEXT,
			open_access_pdf TEXT,
			doi TEXT,
			arxiv_id TEXT,
			external_ids TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_doi ON papers(doi)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_normalized_title ON papers(normalized_title)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// importRecord is one line of a metadata dump in the Semantic Scholar
// datasets export shape.
type importRecord struct {
	Title         string            `json:"title"`
	Authors       []types.Author    `json:"authors"`
	Year          int               `json:"year"`
	Venue         string            `json:"venue"`
	URL           string            `json:"url"`
	ExternalIDs   map[string]string `json:"externalIds"`
	OpenAccessPDF *struct {
		URL string `json:"url"`
	} `json:"openAccessPdf"`
}

// ImportSummary holds counts from one import run.
type ImportSummary struct {
	Imported int
	Skipped  int
	Failed   int
}

// Import reads newline-delimited JSON paper records from r and loads
// them into the mirror. Records without a title are skipped;
// unparseable lines are counted and reported but do not abort the
// run. Progress lines go to w.
func (s *Store) Import(ctx context.Context, r io.Reader, w io.Writer) (ImportSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO papers
		(title, normalized_title, authors, year, venue, url, open_access_pdf, doi, arxiv_id, external_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var summary ImportSummary
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)

	for line := 1; scanner.Scan(); line++ {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var rec importRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			fmt.Fprintf(w, "failed  line %d: %v\n", line, err)
			summary.Failed++
			continue
		}
		if rec.Title == "" {
			summary.Skipped++
			continue
		}

		authorsJSON, err := json.Marshal(rec.Authors)
		if err != nil {
			summary.Failed++
			continue
		}
		idsJSON, err := json.Marshal(rec.ExternalIDs)
		if err != nil {
			summary.Failed++
			continue
		}

		var pdf string
		if rec.OpenAccessPDF != nil {
			pdf = rec.OpenAccessPDF.URL
		}
		doi := ident.NormalizeDOI(rec.ExternalIDs[types.IDTypeDOI])
		arxivID := ident.StripArxivVersion(rec.ExternalIDs[types.IDTypeArxiv])

		if _, err := stmt.ExecContext(ctx,
			rec.Title, normalize.Title(rec.Title), string(authorsJSON),
			rec.Year, rec.Venue, rec.URL, pdf, doi, arxivID, string(idsJSON),
		); err != nil {
			fmt.Fprintf(w, "failed  line %d: %v\n", line, err)
			summary.Failed++
			continue
		}
		summary.Imported++
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("reading import stream: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing import: %w", err)
	}

	fmt.Fprintf(w, "imported: %d, skipped: %d, failed: %d\n",
		summary.Imported, summary.Skipped, summary.Failed)
	return summary, nil
}

// LookupDOI returns the paper with the given DOI, compared after
// normalization, or sql.ErrNoRows wrapped when absent.
func (s *Store) LookupDOI(ctx context.Context, doi string) (*types.Paper, error) {
	doi = ident.NormalizeDOI(doi)
	if doi == "" {
		return nil, fmt.Errorf("empty DOI")
	}

	row := s.db.QueryRowContext(ctx, `SELECT title, authors, year, venue, url, open_access_pdf, external_ids
		FROM papers WHERE doi = ? COLLATE NOCASE LIMIT 1`, doi)
	paper, err := scanPaper(row)
	if err != nil {
		return nil, fmt.Errorf("looking up DOI %s: %w", doi, err)
	}
	return paper, nil
}

// SearchTitle returns papers whose normalized title equals the
// normalized query. An empty result is not an error.
func (s *Store) SearchTitle(ctx context.Context, title string) ([]*types.Paper, error) {
	normalized := normalize.Title(title)
	if normalized == "" {
		return nil, fmt.Errorf("empty title")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT title, authors, year, venue, url, open_access_pdf, external_ids
		FROM papers WHERE normalized_title = ?`, normalized)
	if err != nil {
		return nil, fmt.Errorf("searching title: %w", err)
	}
	defer rows.Close()

	var papers []*types.Paper
	for rows.Next() {
		paper, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		papers = append(papers, paper)
	}
	return papers, rows.Err()
}

// Count returns the number of mirrored papers.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaper(row rowScanner) (*types.Paper, error) {
	var p types.Paper
	var authorsJSON, idsJSON string
	if err := row.Scan(&p.Title, &authorsJSON, &p.Year, &p.Venue, &p.URL, &p.OpenAccessPDF, &idsJSON); err != nil {
		return nil, err
	}
	if authorsJSON != "" {
		if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
			return nil, fmt.Errorf("decoding authors: %w", err)
		}
	}
	if idsJSON != "" && idsJSON != "null" {
		if err := json.Unmarshal([]byte(idsJSON), &p.ExternalIDs); err != nil {
			return nil, fmt.Errorf("decoding external ids: %w", err)
		}
	}
	return &p, nil
}
