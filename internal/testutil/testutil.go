package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"qnabot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, active, admin bool) *domain.User {
	return &domain.User{
		ID:        userID,
		FirstName: "Test",
		Active:    active,
		IsAdmin:   admin,
		CreatedAt: time.Now(),
	}
}

// NewTestSender creates a test sender
func NewTestSender(userID int64) domain.Sender {
	return domain.Sender{ID: userID, Username: "tester", FirstName: "Test"}
}

// TextUpdate builds a private chat text message from the chat owner
func TextUpdate(chatID int64, text string) *domain.Update {
	return &domain.Update{
		Kind:     domain.UpdateMessage,
		ChatID:   chatID,
		ChatKind: domain.ChatPrivate,
		Sender:   NewTestSender(chatID),
		Text:     text,
	}
}

// MemberUpdate builds a private chat member status change
func MemberUpdate(chatID int64, status domain.MemberStatus) *domain.Update {
	return &domain.Update{
		Kind:         domain.UpdateMemberStatus,
		ChatID:       chatID,
		ChatKind:     domain.ChatPrivate,
		Sender:       NewTestSender(chatID),
		MemberStatus: status,
	}
}

// FakeKnowledgeBase is an in-memory KnowledgeRepository.
// Categories and questions keep insertion order.
type FakeKnowledgeBase struct {
	mu         sync.Mutex
	categories []domain.Category
	questions  map[string][]domain.Question
	Err        error
}

// NewFakeKnowledgeBase creates an empty knowledge base
func NewFakeKnowledgeBase() *FakeKnowledgeBase {
	return &FakeKnowledgeBase{questions: make(map[string][]domain.Question)}
}

// Add stores a public question, creating its category on first use
func (f *FakeKnowledgeBase) Add(category, question, answer string, attachments ...string) *FakeKnowledgeBase {
	f.mu.Lock()
	defer f.mu.Unlock()

	var cat *domain.Category
	for i := range f.categories {
		if f.categories[i].Name == category {
			cat = &f.categories[i]
		}
	}
	if cat == nil {
		f.categories = append(f.categories, domain.Category{
			ID:       int64(len(f.categories) + 1),
			Name:     category,
			Ordering: int64(len(f.categories)),
		})
		cat = &f.categories[len(f.categories)-1]
	}

	id := int64(1)
	for _, qs := range f.questions {
		id += int64(len(qs))
	}
	f.questions[category] = append(f.questions[category], domain.Question{
		ID:          id,
		CategoryID:  cat.ID,
		Question:    question,
		Answer:      answer,
		Attachments: attachments,
		Ordering:    int64(len(f.questions[category])),
	})
	return f
}

// RemoveCategory drops a category and its questions
func (f *FakeKnowledgeBase) RemoveCategory(category string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.categories[:0]
	for _, c := range f.categories {
		if c.Name != category {
			kept = append(kept, c)
		}
	}
	f.categories = kept
	delete(f.questions, category)
}

func (f *FakeKnowledgeBase) GetPublicCategories(context.Context) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return append([]domain.Category(nil), f.categories...), nil
}

func (f *FakeKnowledgeBase) GetPublicQuestions(_ context.Context, category string) ([]domain.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return append([]domain.Question(nil), f.questions[category]...), nil
}

func (f *FakeKnowledgeBase) GetQuestion(_ context.Context, category, question string) (*domain.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	for _, q := range f.questions[category] {
		if q.Question == question {
			q := q
			return &q, nil
		}
	}
	return nil, nil
}

// SentMessage is one message recorded by RecordingSender
type SentMessage struct {
	ChatID    int64
	Text      string
	Keyboard  *domain.Keyboard
	Documents []string
}

// ErrSendFailed is returned by RecordingSender when Fail is set
var ErrSendFailed = errors.New("send failed")

// RecordingSender records outbound messages instead of sending them
type RecordingSender struct {
	mu   sync.Mutex
	sent []SentMessage
	fail bool
}

// SetFail makes every following send return ErrSendFailed
func (s *RecordingSender) SetFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

func (s *RecordingSender) SendText(_ context.Context, chatID int64, text string, kb *domain.Keyboard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return ErrSendFailed
	}
	s.sent = append(s.sent, SentMessage{ChatID: chatID, Text: text, Keyboard: kb})
	return nil
}

func (s *RecordingSender) SendDocuments(_ context.Context, chatID int64, paths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return ErrSendFailed
	}
	s.sent = append(s.sent, SentMessage{ChatID: chatID, Documents: append([]string(nil), paths...)})
	return nil
}

// Sent returns a copy of everything recorded so far
func (s *RecordingSender) Sent() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SentMessage(nil), s.sent...)
}

// Last returns the most recent message, or the zero value if none
func (s *RecordingSender) Last() SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return SentMessage{}
	}
	return s.sent[len(s.sent)-1]
}

// Reset forgets recorded messages
func (s *RecordingSender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
}
