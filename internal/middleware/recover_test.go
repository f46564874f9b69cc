package middleware

import (
	"errors"
	"testing"

	"qnabot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

func TestRecover(t *testing.T) {
	bot, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)

	c := bot.NewContext(tele.Update{ID: 7})
	mw := Recover(testutil.NewTestLogger())

	t.Run("panic is swallowed", func(t *testing.T) {
		h := mw(func(tele.Context) error { panic("boom") })
		assert.NotPanics(t, func() {
			assert.NoError(t, h(c))
		})
	})

	t.Run("errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		h := mw(func(tele.Context) error { return boom })
		assert.ErrorIs(t, h(c), boom)
	})
}
