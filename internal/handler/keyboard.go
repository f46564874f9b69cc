package handler

import "qnabot/internal/domain"

const (
	goBackButton     = "Go Back"
	categoriesPerRow = 2
	questionsPerRow  = 1
)

func categoriesKeyboard(categories []domain.Category) *domain.Keyboard {
	labels := make([]string, 0, len(categories))
	for _, c := range categories {
		labels = append(labels, c.Name)
	}
	return &domain.Keyboard{Rows: rows(labels, categoriesPerRow)}
}

// questionsKeyboard lists the questions followed by the Go Back button
func questionsKeyboard(questions []domain.Question) *domain.Keyboard {
	labels := make([]string, 0, len(questions))
	for _, q := range questions {
		labels = append(labels, q.Question)
	}
	return &domain.Keyboard{Rows: append(rows(labels, questionsPerRow), []string{goBackButton})}
}

func rows(labels []string, perRow int) [][]string {
	out := make([][]string, 0, (len(labels)+perRow-1)/perRow)
	for len(labels) > perRow {
		out = append(out, labels[:perRow:perRow])
		labels = labels[perRow:]
	}
	if len(labels) > 0 {
		out = append(out, labels)
	}
	return out
}
