package handler

import (
	"testing"

	"qnabot/internal/domain"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v3"
)

func TestFromTele(t *testing.T) {
	user := &tele.User{ID: 42, Username: "alice", FirstName: "Alice", LastName: "Smith"}
	expectedSender := domain.Sender{ID: 42, Username: "alice", FirstName: "Alice", LastName: "Smith"}

	tests := []struct {
		name     string
		update   tele.Update
		expected *domain.Update
		ok       bool
	}{
		{
			name: "private text message",
			update: tele.Update{ID: 1, Message: &tele.Message{
				Sender: user,
				Chat:   &tele.Chat{ID: 42, Type: tele.ChatPrivate},
				Text:   "Rust",
			}},
			expected: &domain.Update{
				ID: 1, Kind: domain.UpdateMessage, ChatID: 42, ChatKind: domain.ChatPrivate,
				Sender: expectedSender, Text: "Rust",
			},
			ok: true,
		},
		{
			name: "photo without text",
			update: tele.Update{ID: 2, Message: &tele.Message{
				Sender: user,
				Chat:   &tele.Chat{ID: 42, Type: tele.ChatPrivate},
				Photo:  &tele.Photo{},
			}},
			expected: &domain.Update{
				ID: 2, Kind: domain.UpdateMessage, ChatID: 42, ChatKind: domain.ChatPrivate,
				Sender: expectedSender,
			},
			ok: true,
		},
		{
			name: "supergroup message",
			update: tele.Update{ID: 3, Message: &tele.Message{
				Sender: user,
				Chat:   &tele.Chat{ID: -100, Type: tele.ChatSuperGroup},
				Text:   "hi",
			}},
			expected: &domain.Update{
				ID: 3, Kind: domain.UpdateMessage, ChatID: -100, ChatKind: domain.ChatSupergroup,
				Sender: expectedSender, Text: "hi",
			},
			ok: true,
		},
		{
			name: "bot blocked by user",
			update: tele.Update{ID: 4, MyChatMember: &tele.ChatMemberUpdate{
				Chat:          &tele.Chat{ID: 42, Type: tele.ChatPrivate},
				Sender:        user,
				NewChatMember: &tele.ChatMember{Role: tele.Kicked},
			}},
			expected: &domain.Update{
				ID: 4, Kind: domain.UpdateMemberStatus, ChatID: 42, ChatKind: domain.ChatPrivate,
				Sender: expectedSender, MemberStatus: domain.MemberBanned,
			},
			ok: true,
		},
		{
			name: "bot started by user",
			update: tele.Update{ID: 5, MyChatMember: &tele.ChatMemberUpdate{
				Chat:          &tele.Chat{ID: 42, Type: tele.ChatPrivate},
				Sender:        user,
				NewChatMember: &tele.ChatMember{Role: tele.Member},
			}},
			expected: &domain.Update{
				ID: 5, Kind: domain.UpdateMemberStatus, ChatID: 42, ChatKind: domain.ChatPrivate,
				Sender: expectedSender, MemberStatus: domain.MemberJoined,
			},
			ok: true,
		},
		{
			name:   "callback query is not supported",
			update: tele.Update{ID: 6, Callback: &tele.Callback{}},
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upd, ok := FromTele(tt.update)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, upd)
		})
	}
}

func TestChatKind(t *testing.T) {
	tests := []struct {
		input    tele.ChatType
		expected domain.ChatKind
	}{
		{tele.ChatPrivate, domain.ChatPrivate},
		{tele.ChatGroup, domain.ChatGroup},
		{tele.ChatSuperGroup, domain.ChatSupergroup},
		{tele.ChatChannel, domain.ChatChannel},
		{tele.ChatChannelPrivate, domain.ChatChannel},
		{tele.ChatType("unexpected"), domain.ChatUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, chatKind(tt.input), string(tt.input))
	}
}

func TestMemberStatus(t *testing.T) {
	assert.Equal(t, domain.MemberJoined, memberStatus(&tele.ChatMember{Role: tele.Member}))
	assert.Equal(t, domain.MemberBanned, memberStatus(&tele.ChatMember{Role: tele.Kicked}))
	assert.Equal(t, domain.MemberLeft, memberStatus(&tele.ChatMember{Role: tele.Left}))
	assert.Equal(t, domain.MemberOther, memberStatus(&tele.ChatMember{Role: tele.Administrator}))
	assert.Equal(t, domain.MemberOther, memberStatus(nil))
}

func TestReplyMarkup(t *testing.T) {
	markup := replyMarkup(&domain.Keyboard{Rows: [][]string{{"Rust", "Go"}, {"C"}}})

	assert.True(t, markup.ResizeKeyboard)
	assert.False(t, markup.RemoveKeyboard)
	assert.Equal(t, [][]tele.ReplyButton{
		{{Text: "Rust"}, {Text: "Go"}},
		{{Text: "C"}},
	}, markup.ReplyKeyboard)

	removed := replyMarkup(domain.RemoveKeyboard())
	assert.True(t, removed.RemoveKeyboard)
	assert.Nil(t, removed.ReplyKeyboard)
}
