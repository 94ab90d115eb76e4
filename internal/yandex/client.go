// Package yandex implements the geocoding, forecast and image search
// collaborators on top of Yandex services.
package yandex

import (
	"log"
	"math/rand/v2"
	"net/http"

	"github.com/karfly/WeatherBletherBot/internal/httputil"
)

// Archiver keeps raw upstream responses for later inspection.
type Archiver interface {
	ArchivePayload(source, endpoint, locationID string, payload []byte) error
}

type options struct {
	baseURL string
	client  *http.Client
	archive Archiver
	pick    func(n int) int
}

// Option configures a client.
type Option func(*options)

// WithBaseURL points the client at another endpoint, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithArchive stores every successful raw response in a.
func WithArchive(a Archiver) Option {
	return func(o *options) { o.archive = a }
}

// withPicker replaces the random choice among search results.
func withPicker(pick func(n int) int) Option {
	return func(o *options) { o.pick = pick }
}

func buildOptions(defaultURL string, opts []Option) options {
	o := options{baseURL: defaultURL, pick: rand.IntN}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = httputil.NewClient()
	}
	return o
}

func (o options) archivePayload(source, endpoint, locationID string, body []byte) {
	if o.archive == nil {
		return
	}
	if err := o.archive.ArchivePayload(source, endpoint, locationID, body); err != nil {
		log.Printf("yandex: archive %s payload: %v", endpoint, err)
	}
}
