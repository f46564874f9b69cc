package domain

import "strings"

// UpdateKind tells which variant of Update is populated
type UpdateKind int

const (
	UpdateMessage UpdateKind = iota
	UpdateMemberStatus
)

// ChatKind classifies the chat an update belongs to
type ChatKind string

const (
	ChatPrivate    ChatKind = "private"
	ChatGroup      ChatKind = "group"
	ChatSupergroup ChatKind = "supergroup"
	ChatChannel    ChatKind = "channel"
	ChatUnknown    ChatKind = "unknown"
)

// MemberStatus is the bot's new membership status in a chat
type MemberStatus string

const (
	MemberJoined MemberStatus = "joined"
	MemberBanned MemberStatus = "banned"
	MemberLeft   MemberStatus = "left"
	MemberOther  MemberStatus = "other"
)

// Update is one inbound chat event.
// For UpdateMessage an empty Text means the message carried no text (photo, sticker, ...).
// For UpdateMemberStatus only MemberStatus is meaningful besides chat and sender.
type Update struct {
	ID           int
	Kind         UpdateKind
	ChatID       int64
	ChatKind     ChatKind
	Sender       Sender
	Text         string
	MemberStatus MemberStatus
}

// IsText reports whether the update is a message with text
func (u *Update) IsText() bool {
	return u.Kind == UpdateMessage && u.Text != ""
}

// Command returns the bot command and its payload if the message is a command.
// "/start@qna_bot now" yields ("/start", "now", true).
func (u *Update) Command() (string, string, bool) {
	if !u.IsText() || !strings.HasPrefix(u.Text, "/") {
		return "", "", false
	}
	fields := strings.SplitN(strings.TrimSpace(u.Text), " ", 2)
	cmd := fields[0]
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	payload := ""
	if len(fields) == 2 {
		payload = strings.TrimSpace(fields[1])
	}
	return strings.ToLower(cmd), payload, true
}
