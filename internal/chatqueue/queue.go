// Package chatqueue serializes work per chat while letting different chats run concurrently.
package chatqueue

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrClosed is returned by Submit after Close
var ErrClosed = errors.New("chatqueue: closed")

// Queue keeps one FIFO of tasks per chat and runs at most one task per chat at a time.
// Tasks of a chat run in the order they were submitted.
type Queue struct {
	logger *zap.Logger

	mu     sync.Mutex
	chats  map[int64]*backlog
	closed bool
	wg     sync.WaitGroup
}

type backlog struct {
	tasks []func()
}

// New creates an empty queue
func New(logger *zap.Logger) *Queue {
	return &Queue{
		logger: logger,
		chats:  make(map[int64]*backlog),
	}
}

// Submit appends task to the chat's backlog, starting a worker if the chat is idle.
// It never blocks on running tasks.
func (q *Queue) Submit(chatID int64, task func()) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	if b, ok := q.chats[chatID]; ok {
		b.tasks = append(b.tasks, task)
		return nil
	}

	b := &backlog{tasks: []func(){task}}
	q.chats[chatID] = b
	q.wg.Add(1)
	go q.drain(chatID, b)
	return nil
}

// Pending returns the number of chats with queued or running tasks
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.chats)
}

// Close stops accepting tasks and waits for queued ones to finish
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.wg.Wait()
}

// Wait blocks until every submitted task has run
func (q *Queue) Wait() {
	q.wg.Wait()
}

func (q *Queue) drain(chatID int64, b *backlog) {
	defer q.wg.Done()

	for {
		q.mu.Lock()
		if len(b.tasks) == 0 {
			delete(q.chats, chatID)
			q.mu.Unlock()
			return
		}
		task := b.tasks[0]
		b.tasks[0] = nil
		b.tasks = b.tasks[1:]
		q.mu.Unlock()

		q.run(chatID, task)
	}
}

func (q *Queue) run(chatID int64, task func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("Recovered panic in chat task",
				zap.Int64("chat_id", chatID),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
		}
	}()
	task()
}
