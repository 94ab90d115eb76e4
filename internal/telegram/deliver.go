package telegram

import (
	"context"
	"errors"
	"iter"
	"log"
	"strings"
	"unicode/utf8"

	tele "gopkg.in/telebot.v3"

	"github.com/karfly/WeatherBletherBot/internal/models"
)

// Sender is the part of tele.Context used to answer a message.
type Sender interface {
	Send(what interface{}, opts ...interface{}) error
	Notify(action tele.ChatAction) error
}

// PartSource yields reply parts in order.
type PartSource interface {
	All(ctx context.Context) iter.Seq2[models.Part, error]
}

const (
	noticeCityNotFound = "Не могу найти такой город. Попробуйте написать иначе, например: «погода в Москве завтра»."
	noticeNoForecast   = "Прогноз для этого места сейчас недоступен, попробуйте позже."
	noticeFailed       = "Что-то пошло не так, попробуйте ещё раз чуть позже."
)

// Deliver sends each part as soon as it is ready: the forecast text, then the
// picture, then the poem. A failed stage ends the reply with a short notice.
func Deliver(ctx context.Context, s Sender, reply PartSource) error {
	notify(s, tele.Typing)

	for part, err := range reply.All(ctx) {
		if err != nil {
			log.Printf("telegram: reply failed: %v", err)
			return s.Send(failureNotice(err))
		}

		switch part.Kind {
		case models.PartImage:
			notify(s, tele.UploadingPhoto)
			err = s.Send(&tele.Photo{File: tele.FromURL(part.Content)})
		default:
			err = sendLongMessage(s, part.Content)
		}
		if err != nil {
			return err
		}
		notify(s, tele.Typing)
	}
	return nil
}

// notify shows a chat action. A failed action does not stop the reply.
func notify(s Sender, action tele.ChatAction) {
	if err := s.Notify(action); err != nil {
		log.Printf("telegram: chat action %s: %v", action, err)
	}
}

func failureNotice(err error) string {
	switch {
	case errors.Is(err, models.ErrCityNotFound):
		return noticeCityNotFound
	case errors.Is(err, models.ErrForecastUnavailable):
		return noticeNoForecast
	default:
		return noticeFailed
	}
}

// maxMessageLen stays under Telegram's 4096 character limit.
const maxMessageLen = 4000

// sendLongMessage splits text into messages, preferring line breaks.
func sendLongMessage(s Sender, text string) error {
	for _, chunk := range splitMessage(text, maxMessageLen) {
		if err := s.Send(chunk); err != nil {
			return err
		}
	}
	return nil
}

func splitMessage(text string, limit int) []string {
	var chunks []string
	for utf8.RuneCountInString(text) > limit {
		cut := byteOffset(text, limit)
		if nl := strings.LastIndexByte(text[:cut], '\n'); nl > 0 {
			cut = nl + 1
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// byteOffset returns the byte index of rune n in s.
func byteOffset(s string, n int) int {
	i := 0
	for pos := range s {
		if i == n {
			return pos
		}
		i++
	}
	return len(s)
}
