package memory

import (
	"context"
	"sync"

	"carbrand-quiz/internal/domain"
)

// QuestionStore is an in-memory question pool (useful for tests/demos).
type QuestionStore struct {
	mu        sync.RWMutex
	nextID    int64
	questions []domain.Question
	clues     map[domain.ClueRef]struct{}
}

func NewQuestionStore(seed ...domain.Question) *QuestionStore {
	s := &QuestionStore{clues: make(map[domain.ClueRef]struct{})}
	for _, q := range seed {
		_, _ = s.Add(context.Background(), q)
	}
	return s
}

func (s *QuestionStore) LoadAll(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, len(s.questions))
	copy(out, s.questions)
	return out, nil
}

func (s *QuestionStore) Add(_ context.Context, q domain.Question) (int64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clues[q.Clue]; ok {
		return 0, domain.ErrDuplicateClue
	}
	s.nextID++
	q.ID = s.nextID
	q.Answers = domain.NewAnswerSet(q.Answers...)
	s.questions = append(s.questions, q)
	s.clues[q.Clue] = struct{}{}
	return q.ID, nil
}
