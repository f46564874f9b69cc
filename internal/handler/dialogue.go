package handler

import (
	"context"
	"fmt"

	"qnabot/internal/domain"

	"go.uber.org/zap"
)

const (
	mainMenuText       = "Main menu"
	noCategoriesText   = "There are no categories yet, please come back later"
	selectCategoryText = "Please select the category"
	selectQuestionText = "Please select the question"
	notAuthorizedText  = "You are not authorized to use this bot, contact the admin for authentication"
	blockedText        = "This chat is blocked, contact the admin to get access"
)

func onNotAuthorized(context.Context, *domain.Update, *Request) (Reply, error) {
	return stay(textMessage(notAuthorizedText, domain.RemoveKeyboard())), nil
}

func onBlocked(context.Context, *domain.Update, *Request) (Reply, error) {
	return stay(textMessage(blockedText, domain.RemoveKeyboard())), nil
}

// mainMenu builds the category keyboard message with the given text
func mainMenu(ctx context.Context, req *Request, text string) (Outbound, error) {
	categories, err := req.Knowledge.GetPublicCategories(ctx)
	if err != nil {
		return Outbound{}, fmt.Errorf("get categories: %w", err)
	}
	if len(categories) == 0 {
		return textMessage(noCategoriesText, domain.RemoveKeyboard()), nil
	}
	return textMessage(text, categoriesKeyboard(categories)), nil
}

func onCategorySelect(ctx context.Context, upd *domain.Update, req *Request) (Reply, error) {
	if !upd.IsText() {
		menu, err := mainMenu(ctx, req, selectCategoryText)
		if err != nil {
			return Reply{}, err
		}
		return stay(menu), nil
	}

	if upd.Text == goBackButton {
		menu, err := mainMenu(ctx, req, mainMenuText)
		if err != nil {
			return Reply{}, err
		}
		return stay(menu), nil
	}

	category := upd.Text
	questions, err := req.Knowledge.GetPublicQuestions(ctx, category)
	if err != nil {
		return Reply{}, fmt.Errorf("get questions of %q: %w", category, err)
	}

	if len(questions) == 0 {
		req.Logger.Info("Unknown category selected",
			zap.Int64("chat_id", upd.ChatID),
			zap.String("category", category),
		)
		menu, err := mainMenu(ctx, req, unknownCategoryText(category))
		if err != nil {
			return Reply{}, err
		}
		return stay(menu), nil
	}

	return moveTo(
		domain.ShowingQuestions(category),
		textMessage(fmt.Sprintf("You chose category %s", category), questionsKeyboard(questions)),
	), nil
}

func onQuestionSelect(ctx context.Context, upd *domain.Update, req *Request) (Reply, error) {
	category := req.State.Category

	if upd.IsText() && upd.Text == goBackButton {
		menu, err := mainMenu(ctx, req, mainMenuText)
		if err != nil {
			return Reply{}, err
		}
		return moveTo(domain.ShowingCategories(), menu), nil
	}

	questions, err := req.Knowledge.GetPublicQuestions(ctx, category)
	if err != nil {
		return Reply{}, fmt.Errorf("get questions of %q: %w", category, err)
	}

	// category was hidden or emptied while the chat was browsing it
	if len(questions) == 0 {
		menu, err := mainMenu(ctx, req, unknownCategoryText(category))
		if err != nil {
			return Reply{}, err
		}
		return moveTo(domain.ShowingCategories(), menu), nil
	}

	if !upd.IsText() {
		return stay(textMessage(selectQuestionText, questionsKeyboard(questions))), nil
	}

	question, err := req.Knowledge.GetQuestion(ctx, category, upd.Text)
	if err != nil {
		return Reply{}, fmt.Errorf("get question %q of %q: %w", upd.Text, category, err)
	}
	if question == nil {
		return stay(textMessage(
			fmt.Sprintf("Question %q does not exist", upd.Text),
			questionsKeyboard(questions),
		)), nil
	}

	reply := stay(answerMessages(req, question)...)
	reply.Answered = &Answered{Category: category, Question: question.Question}
	return reply, nil
}

func unknownCategoryText(category string) string {
	return fmt.Sprintf("Category %s is unknown or has no questions", category)
}
