// Package answer turns a free-text weather question into a three-part reply:
// forecast text, an image URL and a poem.
package answer

import (
	"context"
	"database/sql"
	"time"

	"github.com/karfly/WeatherBletherBot/internal/models"
	"github.com/karfly/WeatherBletherBot/internal/morph"
	"github.com/karfly/WeatherBletherBot/internal/query"
)

type Geocoder interface {
	Geocode(ctx context.Context, name string) (models.Location, error)
}

type Forecaster interface {
	Forecast(ctx context.Context, lat, lon float64) ([]models.ForecastSample, error)
}

type ImageFinder interface {
	FindImage(ctx context.Context, q models.ImageQuery) (string, error)
}

type PoemFinder interface {
	FindPoem(ctx context.Context, query string) (string, error)
}

// Journal records finished queries.
type Journal interface {
	RecordQuery(rec models.QueryRecord) error
}

// Config wires a Composer. Journal and Now are optional.
type Config struct {
	Parser     *query.Parser
	Morph      morph.Normalizer
	Geocoder   Geocoder
	Forecaster Forecaster
	Images     ImageFinder
	Poems      PoemFinder
	Journal    Journal
	Now        func() time.Time
}

// Composer builds replies. It holds no per-query state and is safe for
// concurrent use when its collaborators are.
type Composer struct {
	cfg Config
}

func NewComposer(cfg Config) *Composer {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Composer{cfg: cfg}
}

// Build parses text and returns a reply whose parts are produced on demand
// by Reply.Next.
func (c *Composer) Build(text string) *Reply {
	return c.build(text, sql.NullInt64{})
}

// BuildForChat is Build for a message from a chat, recorded with its id.
func (c *Composer) BuildForChat(chatID int64, text string) *Reply {
	return c.build(text, sql.NullInt64{Int64: chatID, Valid: true})
}

func (c *Composer) build(text string, chatID sql.NullInt64) *Reply {
	now := c.cfg.Now()
	return &Reply{
		c:       c,
		text:    text,
		chatID:  chatID,
		city:    c.cfg.Parser.ExtractCity(text),
		target:  c.cfg.Parser.ResolveTime(text, now),
		created: now,
		stage:   StagePendingText,
	}
}
