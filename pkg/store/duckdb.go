// Package store provides an optional DuckDB-backed event store. It mirrors
// the in-memory discovery results with SQL so very large logs can be
// analyzed without holding every event in Go memory at once.
package store

import (
	"context"
	"database/sql"
	"math"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/flowscope/flowscope/internal/model"
	"github.com/flowscope/flowscope/pkg/discovery"
	fserrors "github.com/flowscope/flowscope/pkg/errors"
)

// Store is a DuckDB-backed event log.
type Store struct {
	db *sql.DB
}

// Open creates a store. An empty path opens an in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fserrors.Wrap(err, fserrors.CodeStoreInit, "failed to open duckdb")
	}

	schema := `
		CREATE TABLE IF NOT EXISTS events (
			case_id  VARCHAR NOT NULL,
			activity VARCHAR NOT NULL,
			ts       TIMESTAMP NOT NULL,
			resource VARCHAR,
			seq      BIGINT NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fserrors.Wrap(err, fserrors.CodeStoreInit, "failed to create schema")
	}

	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadLog replaces the stored events with the given log. The seq column
// preserves the log's stable within-case order for timestamp ties.
func (s *Store) LoadLog(ctx context.Context, log *model.EventLog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fserrors.Wrap(err, fserrors.CodeStoreQuery, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM events"); err != nil {
		return fserrors.Wrap(err, fserrors.CodeStoreQuery, "failed to clear events")
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO events (case_id, activity, ts, resource, seq) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fserrors.Wrap(err, fserrors.CodeStoreQuery, "failed to prepare insert")
	}
	defer stmt.Close()

	seq := 0
	for _, c := range log.Cases() {
		for _, e := range c.Events {
			if _, err := stmt.ExecContext(ctx, e.CaseID, e.Activity, e.Timestamp, e.Resource, seq); err != nil {
				return fserrors.Wrap(err, fserrors.CodeStoreQuery, "failed to insert event")
			}
			seq++
		}
	}

	if err := tx.Commit(); err != nil {
		return fserrors.Wrap(err, fserrors.CodeStoreQuery, "failed to commit load")
	}
	return nil
}

// EdgeFrequencies computes directly-follows edge counts with a window
// function, equivalent to discovery.ComputeDFG over the same log.
func (s *Store) EdgeFrequencies(ctx context.Context) (map[discovery.Edge]int, error) {
	query := `
		WITH ordered AS (
			SELECT
				activity,
				LEAD(activity) OVER (
					PARTITION BY case_id
					ORDER BY ts, seq
				) AS next_activity
			FROM events
		)
		SELECT activity, next_activity, COUNT(*) AS freq
		FROM ordered
		WHERE next_activity IS NOT NULL
		GROUP BY activity, next_activity
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fserrors.Wrap(err, fserrors.CodeStoreQuery, "edge query failed")
	}
	defer rows.Close()

	edges := make(map[discovery.Edge]int)
	for rows.Next() {
		var source, target string
		var freq int
		if err := rows.Scan(&source, &target, &freq); err != nil {
			return nil, fserrors.Wrap(err, fserrors.CodeStoreQuery, "edge scan failed")
		}
		edges[discovery.Edge{Source: source, Target: target}] = freq
	}
	return edges, rows.Err()
}

// ActivityCounts returns per-activity occurrence counts.
func (s *Store) ActivityCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT activity, COUNT(*) FROM events GROUP BY activity")
	if err != nil {
		return nil, fserrors.Wrap(err, fserrors.CodeStoreQuery, "count query failed")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var activity string
		var n int
		if err := rows.Scan(&activity, &n); err != nil {
			return nil, fserrors.Wrap(err, fserrors.CodeStoreQuery, "count scan failed")
		}
		counts[activity] = n
	}
	return counts, rows.Err()
}

// Metrics computes aggregate process metrics in SQL, matching
// discovery.ComputeMetrics.
func (s *Store) Metrics(ctx context.Context) (discovery.Metrics, error) {
	var m discovery.Metrics

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT case_id), COUNT(DISTINCT activity)
		FROM events
	`).Scan(&m.TotalEvents, &m.TotalCases, &m.UniqueActivities)
	if err != nil {
		return m, fserrors.Wrap(err, fserrors.CodeStoreQuery, "totals query failed")
	}
	if m.TotalCases == 0 {
		return m, nil
	}

	var avg, med, min, max float64
	err = s.db.QueryRowContext(ctx, `
		WITH case_hours AS (
			SELECT EXTRACT(EPOCH FROM (MAX(ts) - MIN(ts))) / 3600.0 AS hours
			FROM events
			GROUP BY case_id
		)
		SELECT AVG(hours), MEDIAN(hours), MIN(hours), MAX(hours) FROM case_hours
	`).Scan(&avg, &med, &min, &max)
	if err != nil {
		return m, fserrors.Wrap(err, fserrors.CodeStoreQuery, "duration query failed")
	}

	m.AvgCaseHours = round2(avg)
	m.MedianCaseHours = round2(med)
	m.MinCaseHours = round2(min)
	m.MaxCaseHours = round2(max)
	m.EventsPerCase = round1(float64(m.TotalEvents) / float64(m.TotalCases))
	return m, nil
}

// Variants extracts the topN process variants in SQL, matching
// discovery.ExtractVariants (same separator, same lexicographic tie-break).
func (s *Store) Variants(ctx context.Context, topN int) ([]discovery.Variant, error) {
	if topN <= 0 {
		topN = discovery.DefaultTopVariants
	}

	var totalCases int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT case_id) FROM events").Scan(&totalCases); err != nil {
		return nil, fserrors.Wrap(err, fserrors.CodeStoreQuery, "case count failed")
	}
	if totalCases == 0 {
		return nil, nil
	}

	query := `
		WITH traces AS (
			SELECT STRING_AGG(activity, ' → ' ORDER BY ts, seq) AS trace
			FROM events
			GROUP BY case_id
		)
		SELECT trace, COUNT(*) AS cnt
		FROM traces
		GROUP BY trace
		ORDER BY cnt DESC, trace ASC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, topN)
	if err != nil {
		return nil, fserrors.Wrap(err, fserrors.CodeStoreQuery, "variant query failed")
	}
	defer rows.Close()

	var out []discovery.Variant
	rank := 1
	for rows.Next() {
		var trace string
		var count int
		if err := rows.Scan(&trace, &count); err != nil {
			return nil, fserrors.Wrap(err, fserrors.CodeStoreQuery, "variant scan failed")
		}
		out = append(out, discovery.Variant{
			Rank:       rank,
			Trace:      trace,
			CaseCount:  count,
			Percentage: round1(float64(count) / float64(totalCases) * 100),
		})
		rank++
	}
	return out, rows.Err()
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }
