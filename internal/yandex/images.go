package yandex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/karfly/WeatherBletherBot/internal/htmlutil"
	"github.com/karfly/WeatherBletherBot/internal/httputil"
	"github.com/karfly/WeatherBletherBot/internal/models"
)

const imagesURL = "https://yandex.ru/images/search"

// ImageSearch picks a random picture from a Yandex Images results page.
type ImageSearch struct {
	opts  options
	fetch *httputil.Fetcher
}

func NewImageSearch(opts ...Option) *ImageSearch {
	o := buildOptions(imagesURL, opts)
	return &ImageSearch{
		opts:  o,
		fetch: httputil.NewFetcher("yandex_images", o.client),
	}
}

// FindImage returns the URL of a medium-sized image matching q.Text.
func (s *ImageSearch) FindImage(ctx context.Context, q models.ImageQuery) (string, error) {
	params := url.Values{
		"text":  {q.Text},
		"isize": {"medium"},
	}
	body, err := s.fetch.Get(ctx, s.opts.baseURL+"?"+params.Encode(), http.Header{})
	if err != nil {
		return "", fmt.Errorf("image search: %w", err)
	}

	thumbs, err := htmlutil.FindByClass(body, "img", "serp-item__thumb")
	if err != nil {
		return "", fmt.Errorf("image search: %w", err)
	}

	var srcs []string
	for _, t := range thumbs {
		if src := t.Attr("src"); src != "" {
			srcs = append(srcs, src)
		}
	}
	if len(srcs) == 0 {
		return "", fmt.Errorf("image search %q: %w", q.Text, models.ErrNoResults)
	}

	src := srcs[s.opts.pick(len(srcs))]
	if strings.HasPrefix(src, "//") {
		src = "http:" + src
	}
	return src, nil
}
