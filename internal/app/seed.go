package app

import (
	"context"

	"carbrand-quiz/internal/domain"
)

// SampleQuestions is the starter pool written by `quiz seed`.
func SampleQuestions() []domain.Question {
	return []domain.Question{
		{
			Prompt:  "An England company founded in 1910's that made luxurious cars and later owned by BMW in 2003",
			Clue:    "Rolls Royce.jpg",
			Answers: domain.NewAnswerSet("Rolls Royce"),
		},
		{
			Prompt:  "Which German car manufacturer is known for the 911 model?",
			Clue:    "Porsche.jpg",
			Answers: domain.NewAnswerSet("Porsche"),
		},
		{
			Prompt:  "This Italian car manufacturer is known for its prancing horse logo",
			Clue:    "Ferrari.jpg",
			Answers: domain.NewAnswerSet("Ferrari"),
		},
	}
}

// SeedSamples adds the sample questions when the store is empty and reports how many were added.
func SeedSamples(ctx context.Context, store QuestionStore) (int, error) {
	existing, err := store.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	added := 0
	for _, q := range SampleQuestions() {
		if _, err := store.Add(ctx, q); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
