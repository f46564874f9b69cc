package middleware

import (
	"runtime/debug"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Recover catches panics in bot handlers so one bad update cannot stop the poller
func Recover(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Panic recovered in bot handler",
						zap.Any("panic", r),
						zap.Int("update_id", c.Update().ID),
						zap.ByteString("stack", debug.Stack()),
					)
					err = nil
				}
			}()
			return next(c)
		}
	}
}
