package bot

import (
	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"
)

// UpdateMarker records handled update IDs. *repository.UpdateLog implements it.
type UpdateMarker interface {
	MarkProcessed(updateID int) (bool, error)
}

// DedupMiddleware drops updates whose ID was already handled, so a
// redelivery after a restart does not pay out or charge twice. If the log
// cannot be written the update is processed anyway.
func DedupMiddleware(marker UpdateMarker) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			id := c.Update().ID
			if id == 0 {
				return next(c)
			}

			fresh, err := marker.MarkProcessed(id)
			if err != nil {
				log.Error().Err(err).Int("update_id", id).Msg("Failed to record update")
				return next(c)
			}
			if !fresh {
				log.Debug().Int("update_id", id).Msg("Skipping duplicate update")
				return nil
			}
			return next(c)
		}
	}
}

// LoggingMiddleware creates a middleware that logs all incoming messages.
func LoggingMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			chat := c.Chat()

			logEvent := log.Debug().Int("update_id", c.Update().ID)
			if sender != nil {
				logEvent = logEvent.
					Int64("user_id", sender.ID).
					Str("username", sender.Username)
			}
			if chat != nil {
				logEvent = logEvent.
					Int64("chat_id", chat.ID).
					Str("chat_type", string(chat.Type))
			}
			logEvent.
				Str("text", c.Text()).
				Msg("Received update")

			err := next(c)
			if err != nil {
				log.Error().Err(err).Str("text", c.Text()).Msg("Handler failed")
			}
			return err
		}
	}
}

// RecoveryMiddleware creates a middleware that recovers from panics.
func RecoveryMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Interface("panic", r).
						Str("text", c.Text()).
						Msg("Recovered from panic in handler")
					err = c.Reply("Произошла внутренняя ошибка, попробуйте позже.")
				}
			}()
			return next(c)
		}
	}
}
