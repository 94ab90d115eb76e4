package answer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"log"
	"strconv"
	"time"

	"github.com/karfly/WeatherBletherBot/internal/forecast"
	"github.com/karfly/WeatherBletherBot/internal/metrics"
	"github.com/karfly/WeatherBletherBot/internal/models"
	"github.com/karfly/WeatherBletherBot/internal/morph"
	"github.com/karfly/WeatherBletherBot/internal/query"
)

// ErrDone is returned by Next once the reply has nothing more to produce.
var ErrDone = errors.New("answer: reply finished")

// Stage is the next part a Reply will produce.
type Stage int

const (
	StagePendingText Stage = iota
	StagePendingImage
	StagePendingPoem
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StagePendingText:
		return "text"
	case StagePendingImage:
		return "image"
	case StagePendingPoem:
		return "poem"
	default:
		return "done"
	}
}

// Reply is the answer to one query. Parts are computed one at a time, in
// order, only when asked for. A Reply is not safe for concurrent use.
type Reply struct {
	c       *Composer
	text    string
	chatID  sql.NullInt64
	city    string
	target  time.Time
	created time.Time

	stage    Stage
	location models.Location
	sample   models.ForecastSample
	parts    int
	err      error
	recorded bool
}

// City returns the city candidate extracted from the query.
func (r *Reply) City() string { return r.city }

// Target returns the resolved forecast time.
func (r *Reply) Target() time.Time { return r.target }

func (r *Reply) Stage() Stage { return r.stage }

// Err returns the error that ended the reply early, if any.
func (r *Reply) Err() error { return r.err }

// Next produces the next part. After the last part, or after any error, the
// reply is done and Next returns ErrDone.
func (r *Reply) Next(ctx context.Context) (models.Part, error) {
	var (
		part models.Part
		err  error
	)
	switch r.stage {
	case StagePendingText:
		part, err = r.forecastPart(ctx)
	case StagePendingImage:
		part, err = r.imagePart(ctx)
	case StagePendingPoem:
		part, err = r.poemPart(ctx)
	default:
		return models.Part{}, ErrDone
	}

	if err != nil {
		metrics.StageFailures.WithLabelValues(r.stage.String()).Inc()
		r.err = err
		r.stage = StageDone
		r.finish()
		return models.Part{}, err
	}

	r.parts++
	r.stage++
	if r.stage == StageDone {
		r.finish()
	}
	return part, nil
}

// All yields the remaining parts in order. Iteration stops after the first
// error, which is yielded with a zero Part.
func (r *Reply) All(ctx context.Context) iter.Seq2[models.Part, error] {
	return func(yield func(models.Part, error) bool) {
		for {
			part, err := r.Next(ctx)
			if errors.Is(err, ErrDone) {
				return
			}
			if !yield(part, err) || err != nil {
				return
			}
		}
	}
}

func (r *Reply) forecastPart(ctx context.Context) (models.Part, error) {
	cfg := r.c.cfg
	loc, err := cfg.Geocoder.Geocode(ctx, r.city)
	if err != nil {
		return models.Part{}, fmt.Errorf("resolve %q: %w", r.city, err)
	}
	r.location = loc

	samples, err := cfg.Forecaster.Forecast(ctx, loc.Lat, loc.Lon)
	if err != nil {
		return models.Part{}, fmt.Errorf("forecast for %s: %w", loc.Name, err)
	}
	sample, err := forecast.SelectNearest(samples, r.target)
	if errors.Is(err, forecast.ErrEmptyInput) {
		return models.Part{}, fmt.Errorf("forecast for %s: %w", loc.Name, models.ErrForecastUnavailable)
	}
	if err != nil {
		return models.Part{}, err
	}
	r.sample = sample

	where := query.TitleCase(cfg.Morph.Inflect(loc.Name, morph.Locative))
	return models.Part{
		Kind:    models.PartForecast,
		Content: FormatForecast(where, sample, r.target),
	}, nil
}

func (r *Reply) imagePart(ctx context.Context) (models.Part, error) {
	url, err := r.c.cfg.Images.FindImage(ctx, models.ImageQuery{
		Text:      r.location.Name + " " + r.sample.ConditionText,
		City:      r.location.Name,
		Condition: r.sample.Condition,
		Temp:      r.sample.Temp,
		At:        r.target,
	})
	if err != nil {
		return models.Part{}, fmt.Errorf("find image: %w", err)
	}
	return models.Part{Kind: models.PartImage, Content: url}, nil
}

func (r *Reply) poemPart(ctx context.Context) (models.Part, error) {
	poem, err := r.c.cfg.Poems.FindPoem(ctx, r.sample.ConditionText)
	if err != nil {
		return models.Part{}, fmt.Errorf("find poem: %w", err)
	}
	return models.Part{Kind: models.PartPoem, Content: poem}, nil
}

// FormatForecast renders the forecast text. where is the place name already
// in the locative case.
func FormatForecast(where string, s models.ForecastSample, at time.Time) string {
	return fmt.Sprintf("В %s будет %s (%s).\n", where, s.ConditionText, at.Format("02.01.2006, 15:04")) +
		fmt.Sprintf("Температура %s °C, относительная влажность: %d%%, скорость ветра: %s м/с.\n",
			formatNumber(s.Temp), s.Humidity, formatNumber(s.WindSpeed))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r *Reply) finish() {
	if r.recorded {
		return
	}
	r.recorded = true

	outcome := models.Outcome(r.err)
	metrics.RepliesTotal.WithLabelValues(outcome).Inc()

	journal := r.c.cfg.Journal
	if journal == nil {
		return
	}
	rec := models.QueryRecord{
		ChatID:     r.chatID,
		Text:       r.text,
		City:       r.city,
		TargetTime: r.target,
		PartsSent:  r.parts,
		Outcome:    outcome,
		CreatedAt:  r.created,
	}
	if r.location.Name != "" {
		rec.ResolvedName = sql.NullString{String: r.location.Name, Valid: true}
		rec.Lat = sql.NullFloat64{Float64: r.location.Lat, Valid: true}
		rec.Lon = sql.NullFloat64{Float64: r.location.Lon, Valid: true}
	}
	if r.err != nil {
		rec.ErrorMessage = sql.NullString{String: r.err.Error(), Valid: true}
	}
	if err := journal.RecordQuery(rec); err != nil {
		log.Printf("answer: record query: %v", err)
	}
}
