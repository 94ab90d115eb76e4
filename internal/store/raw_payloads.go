package store

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// RawPayload is an archived upstream response.
type RawPayload struct {
	ID                int64
	FetchedAt         time.Time
	Source            string
	Endpoint          string
	LocationID        sql.NullString
	PayloadCompressed []byte
	PayloadHash       string
	SchemaVersion     int
}

// ArchivePayload stores a raw upstream response. Identical payloads are
// stored once.
func (s *Store) ArchivePayload(source, endpoint, locationID string, payload []byte) error {
	_, err := s.StoreRawPayload(source, endpoint, locationID, payload)
	return err
}

// StoreRawPayload stores a gzip-compressed payload and returns its ID, or 0
// if a payload with the same hash is already archived.
func (s *Store) StoreRawPayload(source, endpoint, locationID string, payload []byte) (int64, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(payload); err != nil {
		return 0, fmt.Errorf("compress payload: %w", err)
	}
	if err := gz.Close(); err != nil {
		return 0, fmt.Errorf("close gzip: %w", err)
	}

	hash := sha256.Sum256(payload)

	var location sql.NullString
	if locationID != "" {
		location = sql.NullString{String: locationID, Valid: true}
	}

	result, err := s.db.Exec(`
		INSERT INTO raw_payloads
		(fetched_at, source, endpoint, location_id, payload_compressed, payload_hash, schema_version)
		VALUES (?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(payload_hash) DO NOTHING
	`, s.now().UTC(), source, endpoint, location, buf.Bytes(), hex.EncodeToString(hash[:]))
	if err != nil {
		return 0, fmt.Errorf("insert raw payload: %w", err)
	}

	if n, err := result.RowsAffected(); err != nil || n == 0 {
		return 0, err
	}
	return result.LastInsertId()
}

// GetRawPayload returns the decompressed payload with the given ID.
func (s *Store) GetRawPayload(id int64) ([]byte, error) {
	var compressed []byte
	err := s.db.QueryRow(`SELECT payload_compressed FROM raw_payloads WHERE id = ?`, id).
		Scan(&compressed)
	if err != nil {
		return nil, err
	}

	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("create gzip reader: %w", err)
	}
	defer gz.Close()

	return io.ReadAll(gz)
}

// LatestRawPayload returns the most recently archived payload for an
// endpoint, or nil if there is none.
func (s *Store) LatestRawPayload(source, endpoint string) (*RawPayload, error) {
	row := s.db.QueryRow(`
		SELECT id, fetched_at, source, endpoint, location_id, payload_compressed, payload_hash, schema_version
		FROM raw_payloads
		WHERE source = ? AND endpoint = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1
	`, source, endpoint)

	var p RawPayload
	err := row.Scan(&p.ID, &p.FetchedAt, &p.Source, &p.Endpoint, &p.LocationID,
		&p.PayloadCompressed, &p.PayloadHash, &p.SchemaVersion)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type RawPayloadStats struct {
	TotalCount     int
	TotalSizeBytes int64
	CountBySource  map[string]int
}

func (s *Store) GetRawPayloadStats() (*RawPayloadStats, error) {
	stats := &RawPayloadStats{CountBySource: make(map[string]int)}

	row := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(LENGTH(payload_compressed)), 0)
		FROM raw_payloads
	`)
	if err := row.Scan(&stats.TotalCount, &stats.TotalSizeBytes); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT source || '/' || endpoint, COUNT(*)
		FROM raw_payloads
		GROUP BY source, endpoint
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		stats.CountBySource[key] = count
	}
	return stats, rows.Err()
}

// CleanupOldRawPayloads deletes payloads fetched more than retention ago and
// returns how many were removed.
func (s *Store) CleanupOldRawPayloads(retention time.Duration) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM raw_payloads WHERE fetched_at < ?`, s.now().UTC().Add(-retention))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
