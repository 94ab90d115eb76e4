package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/karfly/WeatherBletherBot/internal/models"
)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// RecordQuery appends a finished query to the journal.
func (s *Store) RecordQuery(rec models.QueryRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	_, err := s.db.Exec(`
		INSERT INTO query_log (chat_id, text, city, target_time, resolved_name, latitude, longitude,
			parts_sent, outcome, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ChatID, rec.Text, rec.City, rec.TargetTime.UTC(), rec.ResolvedName, rec.Lat, rec.Lon,
		rec.PartsSent, rec.Outcome, rec.ErrorMessage, rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert query: %w", err)
	}
	return nil
}

// RecentQueries returns the newest journal entries first.
func (s *Store) RecentQueries(limit int) ([]models.QueryRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, chat_id, text, city, target_time, resolved_name, latitude, longitude,
			parts_sent, outcome, error_message, created_at
		FROM query_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.QueryRecord
	for rows.Next() {
		var r models.QueryRecord
		if err := rows.Scan(&r.ID, &r.ChatID, &r.Text, &r.City, &r.TargetTime, &r.ResolvedName,
			&r.Lat, &r.Lon, &r.PartsSent, &r.Outcome, &r.ErrorMessage, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// QueryStats summarizes the journal.
type QueryStats struct {
	Total     int            `json:"total"`
	ByOutcome map[string]int `json:"by_outcome"`
	TopCities []CityCount    `json:"top_cities"`
}

type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// GetQueryStats counts journal entries created at or after since, by outcome,
// and lists the most asked-about resolved cities.
func (s *Store) GetQueryStats(since time.Time, topN int) (*QueryStats, error) {
	stats := &QueryStats{ByOutcome: make(map[string]int)}

	rows, err := s.db.Query(`
		SELECT outcome, COUNT(*)
		FROM query_log
		WHERE created_at >= ?
		GROUP BY outcome
	`, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, err
		}
		stats.ByOutcome[outcome] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cityRows, err := s.db.Query(`
		SELECT resolved_name, COUNT(*) AS n
		FROM query_log
		WHERE created_at >= ? AND resolved_name IS NOT NULL
		GROUP BY resolved_name
		ORDER BY n DESC, resolved_name
		LIMIT ?
	`, since.UTC(), topN)
	if err != nil {
		return nil, err
	}
	defer cityRows.Close()

	for cityRows.Next() {
		var c CityCount
		if err := cityRows.Scan(&c.City, &c.Count); err != nil {
			return nil, err
		}
		stats.TopCities = append(stats.TopCities, c)
	}
	return stats, cityRows.Err()
}

// CleanupOldQueries deletes journal entries older than retention.
func (s *Store) CleanupOldQueries(retention time.Duration) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM query_log WHERE created_at < ?`, s.now().UTC().Add(-retention))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
