package telegram

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/scribe-bot/scribe/internal/dialog"
	"github.com/scribe-bot/scribe/internal/logging"
)

const defaultPollTimeout = 50 * time.Second

// Submitter accepts a dialogue event for processing and calls deliver
// with the replies once the event has been handled. Implementations
// serialize events per user identity.
type Submitter interface {
	Submit(event dialog.Event, deliver func([]dialog.Reply)) error
}

// Bot runs the long-polling update loop and bridges Telegram traffic
// to the dialogue controller.
type Bot struct {
	client      *Client
	submitter   Submitter
	pollTimeout time.Duration
	logger      zerolog.Logger
}

// NewBot creates the transport loop.
func NewBot(client *Client, submitter Submitter, pollTimeout time.Duration) *Bot {
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}
	return &Bot{
		client:      client,
		submitter:   submitter,
		pollTimeout: pollTimeout,
		logger:      logging.Component("telegram"),
	}
}

// Run polls for updates until the context is canceled. Poll errors
// are logged and retried with a short backoff; they never stop the
// loop.
func (b *Bot) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	b.logger.Info().Msg("telegram long polling started")

	var offset int64
	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("telegram polling stopped")
			return ctx.Err()
		default:
		}

		updates, err := b.client.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				b.logger.Info().Msg("telegram polling stopped")
				return ctx.Err()
			}
			b.logger.Warn().Err(err).Msg("getUpdates failed, backing off")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update Update) {
	if cb := update.CallbackQuery; cb != nil {
		if err := b.client.AnswerCallbackQuery(ctx, cb.ID); err != nil {
			b.logger.Debug().Err(err).Msg("answerCallbackQuery failed")
		}
	}

	event, chatID, ok := EventFromUpdate(update)
	if !ok {
		return
	}

	err := b.submitter.Submit(event, func(replies []dialog.Reply) {
		b.deliver(chatID, replies)
	})
	if err != nil {
		b.logger.Warn().Err(err).
			Str("user_id", event.UserID).
			Msg("event dropped")
	}
}

// deliver sends replies in order; a send failure drops the remaining
// replies for this event rather than delivering them out of sequence.
func (b *Bot) deliver(chatID int64, replies []dialog.Reply) {
	sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, message := range MessagesFromReplies(chatID, replies) {
		if err := b.client.SendMessage(sendCtx, message); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("sendMessage failed")
			return
		}
	}
}
