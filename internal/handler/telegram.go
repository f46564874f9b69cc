package handler

import (
	"context"
	"path/filepath"

	"qnabot/internal/domain"
	"qnabot/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// TeleSender sends messages through telebot
type TeleSender struct {
	bot *tele.Bot
}

// NewTeleSender creates a sender bound to bot
func NewTeleSender(bot *tele.Bot) *TeleSender {
	return &TeleSender{bot: bot}
}

// SendText sends text with an optional reply keyboard
func (s *TeleSender) SendText(_ context.Context, chatID int64, text string, kb *domain.Keyboard) error {
	var opts []interface{}
	if kb != nil {
		opts = append(opts, replyMarkup(kb))
	}
	_, err := s.bot.Send(tele.ChatID(chatID), text, opts...)
	return err
}

// SendDocuments sends files as one album, or as a single document when there is only one
func (s *TeleSender) SendDocuments(_ context.Context, chatID int64, paths []string) error {
	if len(paths) == 1 {
		_, err := s.bot.Send(tele.ChatID(chatID), document(paths[0]))
		return err
	}

	album := make(tele.Album, 0, len(paths))
	for _, p := range paths {
		album = append(album, document(p))
	}
	_, err := s.bot.SendAlbum(tele.ChatID(chatID), album)
	return err
}

func document(path string) *tele.Document {
	return &tele.Document{
		File:     tele.FromDisk(path),
		FileName: filepath.Base(path),
	}
}

func replyMarkup(kb *domain.Keyboard) *tele.ReplyMarkup {
	if kb.Remove {
		return &tele.ReplyMarkup{RemoveKeyboard: true}
	}

	rows := make([][]tele.ReplyButton, 0, len(kb.Rows))
	for _, r := range kb.Rows {
		row := make([]tele.ReplyButton, 0, len(r))
		for _, label := range r {
			row = append(row, tele.ReplyButton{Text: label})
		}
		rows = append(rows, row)
	}
	return &tele.ReplyMarkup{ReplyKeyboard: rows, ResizeKeyboard: true}
}

// RegisterHandlers registers all bot handlers.
// Every supported update is converted and queued behind earlier updates of its chat.
func (h *Handler) RegisterHandlers(bot *tele.Bot) {
	bot.Use(middleware.Recover(h.logger))

	enqueue := func(c tele.Context) error {
		upd, ok := FromTele(c.Update())
		if !ok {
			h.logger.Debug("Skipping unsupported update", zap.Int("update_id", c.Update().ID))
			return nil
		}
		_ = h.Enqueue(upd)
		return nil
	}

	// Text messages, including commands
	bot.Handle(tele.OnText, enqueue)

	// Everything without text takes the non-text path of the dialogue
	bot.Handle(tele.OnMedia, enqueue)
	bot.Handle(tele.OnLocation, enqueue)
	bot.Handle(tele.OnContact, enqueue)
	bot.Handle(tele.OnVenue, enqueue)
	bot.Handle(tele.OnDice, enqueue)
	bot.Handle(tele.OnPoll, enqueue)

	// Bot started or blocked by a user
	bot.Handle(tele.OnMyChatMember, enqueue)
}

// FromTele converts a telebot update. It reports false for updates the bot does not handle.
func FromTele(u tele.Update) (*domain.Update, bool) {
	switch {
	case u.Message != nil && u.Message.Chat != nil:
		m := u.Message
		return &domain.Update{
			ID:       u.ID,
			Kind:     domain.UpdateMessage,
			ChatID:   m.Chat.ID,
			ChatKind: chatKind(m.Chat.Type),
			Sender:   sender(m.Sender),
			Text:     m.Text,
		}, true

	case u.MyChatMember != nil && u.MyChatMember.Chat != nil:
		cm := u.MyChatMember
		return &domain.Update{
			ID:           u.ID,
			Kind:         domain.UpdateMemberStatus,
			ChatID:       cm.Chat.ID,
			ChatKind:     chatKind(cm.Chat.Type),
			Sender:       sender(cm.Sender),
			MemberStatus: memberStatus(cm.NewChatMember),
		}, true
	}
	return nil, false
}

func sender(u *tele.User) domain.Sender {
	if u == nil {
		return domain.Sender{}
	}
	return domain.Sender{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func chatKind(t tele.ChatType) domain.ChatKind {
	switch t {
	case tele.ChatPrivate:
		return domain.ChatPrivate
	case tele.ChatGroup:
		return domain.ChatGroup
	case tele.ChatSuperGroup:
		return domain.ChatSupergroup
	case tele.ChatChannel, tele.ChatChannelPrivate:
		return domain.ChatChannel
	}
	return domain.ChatUnknown
}

func memberStatus(m *tele.ChatMember) domain.MemberStatus {
	if m == nil {
		return domain.MemberOther
	}
	switch m.Role {
	case tele.Member:
		return domain.MemberJoined
	case tele.Kicked:
		return domain.MemberBanned
	case tele.Left:
		return domain.MemberLeft
	}
	return domain.MemberOther
}
