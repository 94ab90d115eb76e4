// Package imagegen draws weather illustrations with OpenAI image generation.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/karfly/WeatherBletherBot/internal/forecast"
	"github.com/karfly/WeatherBletherBot/internal/models"
)

// Generator is an image collaborator that generates a picture instead of
// searching for one.
type Generator struct {
	client openai.Client
	model  string
	cache  *Cache
}

// NewGenerator creates a generator authenticated with apiKey.
func NewGenerator(apiKey string, opts ...option.RequestOption) (*Generator, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key not set")
	}

	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)

	return &Generator{
		client: client,
		model:  "dall-e-3",
		// DALL-E result URLs expire after an hour
		cache: NewCache(50 * time.Minute),
	}, nil
}

// FindImage returns the URL of an image for the city's weather at q.At.
// Scenes that look the same share one generated image while it is fresh.
func (g *Generator) FindImage(ctx context.Context, q models.ImageQuery) (string, error) {
	condition := forecast.Categorize(q.Condition, q.Temp)
	key := sceneKey(q.City, condition, q.At)
	if url, ok := g.cache.Get(key); ok {
		return url, nil
	}

	prompt := forecast.BuildPrompt(q.City, condition, q.At)
	log.Printf("imagegen: generating image for %s", key)

	resp, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:          g.model,
		Prompt:         prompt,
		Size:           openai.ImageGenerateParamsSize1024x1024,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatURL,
	})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}

	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("image generation for %s: %w", key, models.ErrNoResults)
	}

	url := resp.Data[0].URL
	g.cache.Set(key, url)
	return url, nil
}

func sceneKey(city string, condition forecast.WeatherCondition, t time.Time) string {
	key := fmt.Sprintf("%s/%s/%s", city, condition, forecast.GetTimeOfDay(t))
	if forecast.GetTimeOfDay(t) == forecast.TimeNight {
		key += "/" + string(forecast.GetMoonPhase(t))
	}
	return key
}
