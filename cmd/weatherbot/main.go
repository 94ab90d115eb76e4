package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/karfly/WeatherBletherBot/internal/answer"
	"github.com/karfly/WeatherBletherBot/internal/api"
	"github.com/karfly/WeatherBletherBot/internal/dicts"
	"github.com/karfly/WeatherBletherBot/internal/httputil"
	"github.com/karfly/WeatherBletherBot/internal/imagegen"
	"github.com/karfly/WeatherBletherBot/internal/morph"
	"github.com/karfly/WeatherBletherBot/internal/poetory"
	"github.com/karfly/WeatherBletherBot/internal/query"
	"github.com/karfly/WeatherBletherBot/internal/store"
	"github.com/karfly/WeatherBletherBot/internal/telegram"
	"github.com/karfly/WeatherBletherBot/internal/yandex"
)

type Globals struct {
	EnvFile kongdotenv.ENVFileConfig `kong:"optional,name=env-file,default='.env',help='Path to .env file'"`

	DB       string `default:"data/weatherbot.db" env:"WEATHERBOT_DB" help:"Path to SQLite database."`
	Timezone string `default:"Europe/Moscow" env:"WEATHERBOT_TIMEZONE" help:"Timezone questions are asked in."`
	Dicts    string `type:"path" env:"WEATHERBOT_DICTS" help:"Dictionaries JSON file (built-in when empty)."`

	YandexWeatherKey  string `env:"YANDEX_WEATHER_API_KEY" help:"Yandex Weather API key."`
	YandexGeocoderKey string `env:"YANDEX_GEOCODER_API_KEY" help:"Yandex Geocoder API key."`
	ImageProvider     string `enum:"yandex,openai" default:"yandex" env:"WEATHERBOT_IMAGE_PROVIDER" help:"Where pictures come from (${enum})."`
	OpenAIKey         string `name:"openai-key" env:"OPENAI_API_KEY" help:"OpenAI API key for the openai image provider."`
	ArchivePayloads   bool   `env:"WEATHERBOT_ARCHIVE_PAYLOADS" help:"Archive raw Yandex responses in the database."`
}

type CLI struct {
	Globals

	Serve   ServeCmd   `cmd:"" help:"Run the Telegram bot and the ops HTTP server."`
	Ask     AskCmd     `cmd:"" help:"Answer one question on stdout."`
	Migrate MigrateCmd `cmd:"" help:"Apply database migrations and exit."`
}

type ServeCmd struct {
	TelegramToken string        `env:"TELEGRAM_BOT_TOKEN" help:"Telegram bot token."`
	Port          string        `default:"8080" env:"PORT" help:"HTTP server port."`
	NoTelegram    bool          `help:"Serve HTTP only, without the Telegram bot."`
	Retention     time.Duration `default:"720h" help:"How long to keep journal entries and archived payloads."`
}

func (c *ServeCmd) Run(g *Globals) error {
	st, closeDB, err := openStore(g.DB)
	if err != nil {
		return err
	}
	defer closeDB()

	composer, err := newComposer(g, st)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !c.NoTelegram {
		bot, err := telegram.New(c.TelegramToken, composer)
		if err != nil {
			return err
		}
		go bot.Start(ctx)
	} else {
		log.Println("telegram disabled (--no-telegram)")
	}

	go runCleanup(ctx, st, c.Retention)

	server := api.NewServer(composer, st, c.Port)
	return server.Run(ctx)
}

type AskCmd struct {
	Question []string `arg:"" help:"Question text, e.g. \"погода в Москве завтра\"."`
}

func (c *AskCmd) Run(g *Globals) error {
	st, closeDB, err := openStore(g.DB)
	if err != nil {
		return err
	}
	defer closeDB()

	composer, err := newComposer(g, st)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	reply := composer.Build(strings.Join(c.Question, " "))
	for part, err := range reply.All(ctx) {
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", strings.TrimRight(part.Content, "\n"))
	}
	return nil
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(g *Globals) error {
	st, closeDB, err := openStore(g.DB)
	if err != nil {
		return err
	}
	defer closeDB()

	version, err := st.MigrationVersion()
	if err != nil {
		return fmt.Errorf("migration version: %w", err)
	}
	log.Printf("database at migration %d", version)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("weatherbot"),
		kong.Description("Answers weather questions asked in Russian with a forecast, a picture and a poem."),
		kong.UsageOnError(),
		kong.Bind(&cli.Globals),
	)
	ctx.FatalIfErrorf(ctx.Run())
}

func openStore(path string) (*store.Store, func(), error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return st, func() { db.Close() }, nil
}

func newComposer(g *Globals, st *store.Store) (*answer.Composer, error) {
	if g.YandexWeatherKey == "" {
		return nil, errors.New("YANDEX_WEATHER_API_KEY (--yandex-weather-key) is required")
	}

	d, err := loadDicts(g.Dicts)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		log.Printf("Warning: could not load %s timezone, using UTC: %v", g.Timezone, err)
		loc = time.UTC
	}

	var opts []yandex.Option
	if g.ArchivePayloads {
		opts = append(opts, yandex.WithArchive(st))
	}

	var images answer.ImageFinder
	switch g.ImageProvider {
	case "openai":
		gen, err := imagegen.NewGenerator(g.OpenAIKey)
		if err != nil {
			return nil, err
		}
		images = gen
	default:
		images = yandex.NewImageSearch(opts...)
	}

	analyzer := morph.NewAnalyzer()
	return answer.NewComposer(answer.Config{
		Parser:     query.NewParser(d, analyzer),
		Morph:      analyzer,
		Geocoder:   yandex.NewGeocoder(g.YandexGeocoderKey, opts...),
		Forecaster: yandex.NewWeatherClient(g.YandexWeatherKey, opts...),
		Images:     images,
		Poems:      poetory.NewClient(httputil.NewClient()),
		Journal:    st,
		Now:        func() time.Time { return time.Now().In(loc) },
	}), nil
}

func loadDicts(path string) (*dicts.Dictionaries, error) {
	if path == "" {
		return dicts.Default()
	}
	d, err := dicts.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load dictionaries: %w", err)
	}
	log.Printf("dictionaries loaded from %s", path)
	return d, nil
}

// runCleanup prunes the journal and payload archive once a day.
func runCleanup(ctx context.Context, st *store.Store, retention time.Duration) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		if n, err := st.CleanupOldQueries(retention); err != nil {
			log.Printf("cleanup: queries: %v", err)
		} else if n > 0 {
			log.Printf("cleanup: removed %d journal entries", n)
		}
		if n, err := st.CleanupOldRawPayloads(retention); err != nil {
			log.Printf("cleanup: payloads: %v", err)
		} else if n > 0 {
			log.Printf("cleanup: removed %d archived payloads", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
