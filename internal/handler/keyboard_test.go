package handler

import (
	"testing"

	"qnabot/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCategoriesKeyboard(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		expected   [][]string
	}{
		{name: "one", categories: []string{"Rust"}, expected: [][]string{{"Rust"}}},
		{name: "two per row", categories: []string{"Rust", "Go", "C"}, expected: [][]string{{"Rust", "Go"}, {"C"}}},
		{name: "even", categories: []string{"A", "B", "C", "D"}, expected: [][]string{{"A", "B"}, {"C", "D"}}},
		{name: "none", categories: nil, expected: [][]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var categories []domain.Category
			for _, name := range tt.categories {
				categories = append(categories, domain.Category{Name: name})
			}

			kb := categoriesKeyboard(categories)

			assert.Equal(t, tt.expected, kb.Rows)
			assert.False(t, kb.Remove)
		})
	}
}

func TestQuestionsKeyboard(t *testing.T) {
	kb := questionsKeyboard([]domain.Question{{Question: "Q1"}, {Question: "Q2"}})

	assert.Equal(t, [][]string{{"Q1"}, {"Q2"}, {goBackButton}}, kb.Rows)
	assert.Equal(t, []string{"Q1", "Q2", goBackButton}, kb.Buttons())
}
