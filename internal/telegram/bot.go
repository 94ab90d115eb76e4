// Package telegram runs the bot on Telegram through long polling.
package telegram

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/karfly/WeatherBletherBot/internal/answer"
)

const usageText = `Спросите меня о погоде, например:
«Какая погода в Москве завтра?»
«Что будет в Казани в субботу вечером?»
«Погода в Самаре через 3 дня»

Я пришлю прогноз, картинку и стихотворение.`

// replyTimeout bounds one reply including every stage.
const replyTimeout = 2 * time.Minute

// Bot answers weather questions in Telegram chats. Messages from one chat
// are answered one at a time, in arrival order.
type Bot struct {
	bot      *tele.Bot
	composer *answer.Composer

	locksMu sync.Mutex
	locks   map[int64]*chatLock
}

// chatLock serializes replies in one chat. refs counts the handlers holding
// or waiting for it; the entry is dropped when it reaches zero.
type chatLock struct {
	mu   sync.Mutex
	refs int
}

// New creates a bot authenticated with token.
func New(token string, composer *answer.Composer) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Printf("telegram: handler error: %v", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:      b,
		composer: composer,
		locks:    make(map[int64]*chatLock),
	}
	bot.setupHandlers()
	return bot, nil
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	log.Printf("telegram: starting bot @%s", b.bot.Me.Username)

	go func() {
		<-ctx.Done()
		log.Println("telegram: shutting down")
		b.bot.Stop()
	}()

	b.bot.Start()
	return nil
}

func (b *Bot) setupHandlers() {
	usage := func(c tele.Context) error {
		return c.Send(usageText)
	}
	b.bot.Handle("/start", usage)
	b.bot.Handle("/help", usage)
	b.bot.Handle(tele.OnText, b.handleMessage)
}

func (b *Bot) handleMessage(c tele.Context) error {
	chatID := c.Chat().ID

	b.lockChat(chatID)
	defer b.unlockChat(chatID)

	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	return Deliver(ctx, c, b.composer.BuildForChat(chatID, c.Text()))
}

func (b *Bot) lockChat(chatID int64) {
	b.locksMu.Lock()
	l, ok := b.locks[chatID]
	if !ok {
		l = &chatLock{}
		b.locks[chatID] = l
	}
	l.refs++
	b.locksMu.Unlock()

	l.mu.Lock()
}

func (b *Bot) unlockChat(chatID int64) {
	b.locksMu.Lock()
	defer b.locksMu.Unlock()

	l := b.locks[chatID]
	l.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(b.locks, chatID)
	}
}
