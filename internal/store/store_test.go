package store

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/karfly/WeatherBletherBot/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	store := New(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestMigrateIdempotent(t *testing.T) {
	store := setupTestStore(t)

	if err := store.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	version, err := store.MigrationVersion()
	if err != nil {
		t.Fatalf("MigrationVersion: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("MigrationVersion() = %d, want %d", version, len(migrations))
	}
}

func TestRecordAndListQueries(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	answered := models.QueryRecord{
		ChatID:       sql.NullInt64{Int64: 42, Valid: true},
		Text:         "погода в Москве завтра",
		City:         "Москва",
		TargetTime:   base.Add(24 * time.Hour),
		ResolvedName: sql.NullString{String: "Москва", Valid: true},
		Lat:          sql.NullFloat64{Float64: 55.75, Valid: true},
		Lon:          sql.NullFloat64{Float64: 37.61, Valid: true},
		PartsSent:    3,
		Outcome:      models.OutcomeAnswered,
		CreatedAt:    base,
	}
	notFound := models.QueryRecord{
		Text:         "погода в Нигдеграде",
		City:         "Нигдеград",
		TargetTime:   base,
		Outcome:      models.OutcomeNotFound,
		ErrorMessage: sql.NullString{String: "city not found", Valid: true},
		CreatedAt:    base.Add(time.Minute),
	}

	for _, rec := range []models.QueryRecord{answered, notFound} {
		if err := store.RecordQuery(rec); err != nil {
			t.Fatalf("RecordQuery: %v", err)
		}
	}

	records, err := store.RecentQueries(10)
	if err != nil {
		t.Fatalf("RecentQueries: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	if records[0].City != "Нигдеград" {
		t.Errorf("newest City = %q, want Нигдеград", records[0].City)
	}
	if records[0].ChatID.Valid || records[0].ResolvedName.Valid {
		t.Errorf("not-found record should have null chat and location: %+v", records[0])
	}
	if !records[0].ErrorMessage.Valid || records[0].ErrorMessage.String != "city not found" {
		t.Errorf("ErrorMessage = %+v", records[0].ErrorMessage)
	}

	got := records[1]
	if got.ChatID.Int64 != 42 || got.PartsSent != 3 || got.Outcome != models.OutcomeAnswered {
		t.Errorf("answered record = %+v", got)
	}
	if got.Lat.Float64 != 55.75 || got.Lon.Float64 != 37.61 {
		t.Errorf("coords = (%v, %v)", got.Lat.Float64, got.Lon.Float64)
	}
	if !got.TargetTime.Equal(base.Add(24 * time.Hour)) {
		t.Errorf("TargetTime = %v, want %v", got.TargetTime, base.Add(24*time.Hour))
	}
}

func TestQueryStats(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	recs := []struct {
		name    string
		outcome string
		at      time.Time
	}{
		{"Москва", models.OutcomeAnswered, base},
		{"Москва", models.OutcomeAnswered, base.Add(time.Minute)},
		{"Казань", models.OutcomeNoResult, base.Add(2 * time.Minute)},
		{"", models.OutcomeNotFound, base.Add(3 * time.Minute)},
		{"Пермь", models.OutcomeAnswered, base.Add(-48 * time.Hour)},
	}
	for _, r := range recs {
		rec := models.QueryRecord{Text: "q", City: "c", TargetTime: r.at, Outcome: r.outcome, CreatedAt: r.at}
		if r.name != "" {
			rec.ResolvedName = sql.NullString{String: r.name, Valid: true}
		}
		if err := store.RecordQuery(rec); err != nil {
			t.Fatalf("RecordQuery: %v", err)
		}
	}

	stats, err := store.GetQueryStats(base.Add(-time.Hour), 5)
	if err != nil {
		t.Fatalf("GetQueryStats: %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("Total = %d, want 4", stats.Total)
	}
	want := map[string]int{
		models.OutcomeAnswered: 2,
		models.OutcomeNoResult: 1,
		models.OutcomeNotFound: 1,
	}
	for outcome, n := range want {
		if stats.ByOutcome[outcome] != n {
			t.Errorf("ByOutcome[%s] = %d, want %d", outcome, stats.ByOutcome[outcome], n)
		}
	}
	if len(stats.TopCities) != 2 {
		t.Fatalf("TopCities = %+v, want 2 entries", stats.TopCities)
	}
	if stats.TopCities[0] != (CityCount{City: "Москва", Count: 2}) {
		t.Errorf("TopCities[0] = %+v", stats.TopCities[0])
	}
}

func TestCleanupOldQueries(t *testing.T) {
	store := setupTestStore(t)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for _, age := range []time.Duration{time.Hour, 40 * 24 * time.Hour} {
		rec := models.QueryRecord{Text: "q", City: "c", TargetTime: now, Outcome: models.OutcomeAnswered, CreatedAt: now.Add(-age)}
		if err := store.RecordQuery(rec); err != nil {
			t.Fatalf("RecordQuery: %v", err)
		}
	}

	n, err := store.CleanupOldQueries(30 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("CleanupOldQueries: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d rows, want 1", n)
	}
}

func TestArchivePayload(t *testing.T) {
	store := setupTestStore(t)
	payload := []byte(`{"forecasts":[{"date":"2026-10-19"}]}`)

	id, err := store.StoreRawPayload("yandex", "forecast", "55.7500,37.6100", payload)
	if err != nil {
		t.Fatalf("StoreRawPayload: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a new payload id")
	}

	dup, err := store.StoreRawPayload("yandex", "forecast", "55.7500,37.6100", payload)
	if err != nil {
		t.Fatalf("StoreRawPayload duplicate: %v", err)
	}
	if dup != 0 {
		t.Errorf("duplicate payload id = %d, want 0", dup)
	}

	if err := store.ArchivePayload("yandex", "geocode", "Москва", []byte(`{"response":{}}`)); err != nil {
		t.Fatalf("ArchivePayload: %v", err)
	}

	got, err := store.GetRawPayload(id)
	if err != nil {
		t.Fatalf("GetRawPayload: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("GetRawPayload = %s, want %s", got, payload)
	}

	latest, err := store.LatestRawPayload("yandex", "geocode")
	if err != nil {
		t.Fatalf("LatestRawPayload: %v", err)
	}
	if latest == nil || latest.LocationID.String != "Москва" {
		t.Errorf("LatestRawPayload = %+v", latest)
	}
	if missing, err := store.LatestRawPayload("poetory", "search"); err != nil || missing != nil {
		t.Errorf("LatestRawPayload(missing) = %+v, %v", missing, err)
	}

	stats, err := store.GetRawPayloadStats()
	if err != nil {
		t.Fatalf("GetRawPayloadStats: %v", err)
	}
	if stats.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", stats.TotalCount)
	}
	if stats.CountBySource["yandex/forecast"] != 1 || stats.CountBySource["yandex/geocode"] != 1 {
		t.Errorf("CountBySource = %v", stats.CountBySource)
	}
}
