package actor

import (
	"sync"

	"github.com/aretw0/canopy/pkg/domain"
)

// Queue buffers pending output tokens in FIFO order. The zero value is ready to use.
type Queue struct {
	mu     sync.Mutex
	tokens []*domain.Token
}

func (q *Queue) Push(t *domain.Token) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tokens = append(q.tokens, t)
}

// Pop removes and returns the oldest token, nil when empty.
func (q *Queue) Pop() *domain.Token {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tokens) == 0 {
		return nil
	}
	t := q.tokens[0]
	q.tokens[0] = nil
	q.tokens = q.tokens[1:]
	return t
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tokens)
}

func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tokens = nil
}
