package service

import (
	"context"
	"fmt"
	"log"

	"quizverse_backend/internal/entity"
	"quizverse_backend/internal/llm"
	"quizverse_backend/internal/repository"
	"quizverse_backend/internal/search"
	"quizverse_backend/pkg/apperror"
)

type CreateQuestionInput struct {
	// Question is the user-submitted text; empty when AskingModel generates it.
	Question       string
	ThemeID        uint
	AskingModel    string
	AnsweringModel string
}

type CreateQuestionResult struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type SubmitAnswerInput struct {
	QuestionID     uint
	Answer         string
	AnsweringModel string
}

// QuestionService is the request-facing side of the question lifecycle:
// creation, answers, ranking rounds, votes and reports. Scoring and mission
// side effects are best-effort: their failure is logged but never blocks the
// primary action.
type QuestionService interface {
	CreateQuestion(ctx context.Context, userID uint, input CreateQuestionInput) (*CreateQuestionResult, error)
	SubmitAnswer(ctx context.Context, userID uint, input SubmitAnswerInput) error
	// SubmitRanking records a user's ordering of up to 5 answers and pays out
	// the ranking points. A second ranking for the same question returns
	// apperror.ErrConflict with no point mutation.
	SubmitRanking(ctx context.Context, userID, questionID uint, ranking map[int]uint) error

	Upvote(ctx context.Context, userID, questionID uint) error
	RemoveUpvote(ctx context.Context, userID, questionID uint) error
	Downvote(ctx context.Context, userID, questionID uint) error
	RemoveDownvote(ctx context.Context, userID, questionID uint) error

	Report(ctx context.Context, userID, questionID uint) error
	RemoveReport(ctx context.Context, userID, questionID uint) error

	ListQuestions(ctx context.Context) ([]entity.Question, error)
	AnswersFor(ctx context.Context, questionID uint) ([]entity.Answer, error)
}

type questionService struct {
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
	models    repository.LLMRepository
	themes    repository.ThemeRepository
	scoring   ScoringService
	missions  MissionService
	provider  llm.Provider
	nlp       *llm.NLPClient
	search    search.SearchService
}

func NewQuestionService(
	questions repository.QuestionRepository,
	answers repository.AnswerRepository,
	models repository.LLMRepository,
	themes repository.ThemeRepository,
	scoring ScoringService,
	missions MissionService,
	provider llm.Provider,
	nlp *llm.NLPClient,
	searchSvc search.SearchService,
) QuestionService {
	return &questionService{
		questions: questions,
		answers:   answers,
		models:    models,
		themes:    themes,
		scoring:   scoring,
		missions:  missions,
		provider:  provider,
		nlp:       nlp,
		search:    searchSvc,
	}
}

func (s *questionService) CreateQuestion(ctx context.Context, userID uint, input CreateQuestionInput) (*CreateQuestionResult, error) {
	var question entity.Question

	if input.AskingModel == "" {
		if input.Question == "" {
			return nil, fmt.Errorf("%w: question text is required", apperror.ErrInvalidInput)
		}
		question = entity.Question{
			Text:            input.Question,
			CreatedByUserID: &userID,
			Status:          entity.QuestionStatusOpen,
		}
		if err := s.questions.Create(ctx, &question); err != nil {
			return nil, err
		}

		if _, err := s.scoring.AwardQuestionCreation(ctx, repository.ScoreTargetUser, userID, input.ThemeID); err != nil {
			log.Printf("failed to award creation points to user %d: %v", userID, err)
		}
		if err := s.missions.OnEvent(ctx, entity.MissionKindQuestion, userID, &input.ThemeID); err != nil {
			log.Printf("mission update after question creation failed for user %d: %v", userID, err)
		}
	} else {
		theme, err := s.themes.FindByID(ctx, input.ThemeID)
		if err != nil {
			return nil, err
		}
		generated, err := s.provider.GenerateText(ctx, fmt.Sprintf("Generate a single trivia question about the topic %q. Output only the question itself, nothing else.", theme.Name))
		if err != nil {
			return nil, fmt.Errorf("%w: generating question: %v", apperror.ErrUpstream, err)
		}
		model, err := s.models.FindByName(ctx, input.AskingModel)
		if err != nil {
			return nil, err
		}
		question = entity.Question{
			Text:           generated,
			CreatedByLLMID: &model.ID,
			Status:         entity.QuestionStatusOpen,
		}
		if err := s.questions.Create(ctx, &question); err != nil {
			return nil, err
		}

		if _, err := s.scoring.AwardQuestionCreation(ctx, repository.ScoreTargetModel, model.ID, input.ThemeID); err != nil {
			log.Printf("failed to award creation points to model %d: %v", model.ID, err)
		}
	}

	if err := s.questions.AttachTheme(ctx, question.ID, input.ThemeID); err != nil {
		log.Printf("failed to attach theme %d to question %d: %v", input.ThemeID, question.ID, err)
	}

	if tags, err := s.nlp.ExtractTags(ctx, question.Text); err != nil {
		log.Printf("tag extraction failed for question %d: %v", question.ID, err)
	} else if err := s.questions.UpdateTags(ctx, question.ID, tags); err != nil {
		log.Printf("failed to store tags for question %d: %v", question.ID, err)
	}

	if s.search != nil {
		if err := s.search.IndexQuestion(&question); err != nil {
			log.Printf("failed to index question %d: %v", question.ID, err)
		}
	}

	// The first answer always comes from a model.
	answerText, err := s.generateModelAnswer(ctx, question.Text, input.AnsweringModel)
	if err != nil {
		return nil, err
	}
	model, err := s.models.FindByName(ctx, input.AnsweringModel)
	if err != nil {
		return nil, err
	}
	answer := entity.Answer{
		QuestionID: question.ID,
		LLMID:      &model.ID,
		Text:       answerText,
	}
	if err := s.answers.Create(ctx, &answer); err != nil {
		return nil, err
	}

	return &CreateQuestionResult{Question: question.Text, Answer: answerText}, nil
}

func (s *questionService) SubmitAnswer(ctx context.Context, userID uint, input SubmitAnswerInput) error {
	if _, err := s.questions.FindByID(ctx, input.QuestionID); err != nil {
		return err
	}

	if input.AnsweringModel == "" {
		if input.Answer == "" {
			return fmt.Errorf("%w: answer text is required", apperror.ErrInvalidInput)
		}
		answer := entity.Answer{
			QuestionID: input.QuestionID,
			UserID:     &userID,
			Text:       input.Answer,
		}
		if err := s.answers.Create(ctx, &answer); err != nil {
			return err
		}

		themeID, err := s.questions.ThemeID(ctx, input.QuestionID)
		if err != nil {
			log.Printf("could not resolve theme of question %d: %v", input.QuestionID, err)
		}
		if err := s.missions.OnEvent(ctx, entity.MissionKindAnswer, userID, themeID); err != nil {
			log.Printf("mission update after answer failed for user %d: %v", userID, err)
		}
		return nil
	}

	question, err := s.questions.FindByID(ctx, input.QuestionID)
	if err != nil {
		return err
	}
	answerText, err := s.generateModelAnswer(ctx, question.Text, input.AnsweringModel)
	if err != nil {
		return err
	}
	model, err := s.models.FindByName(ctx, input.AnsweringModel)
	if err != nil {
		return err
	}
	answer := entity.Answer{
		QuestionID: input.QuestionID,
		LLMID:      &model.ID,
		Text:       answerText,
	}
	return s.answers.Create(ctx, &answer)
}

// generateModelAnswer asks the provider for an answer and runs it through the
// humanizer so it reads less like machine output.
func (s *questionService) generateModelAnswer(ctx context.Context, questionText, modelName string) (string, error) {
	prompt := fmt.Sprintf("%s Answer concisely and briefly, the way a real human would, avoiding filler words. Generate only the answer itself.", questionText)
	raw, err := s.provider.GenerateText(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: generating answer with %s: %v", apperror.ErrUpstream, modelName, err)
	}

	humanized, err := s.nlp.Humanize(ctx, raw)
	if err != nil {
		return "", err
	}
	return humanized, nil
}

func (s *questionService) SubmitRanking(ctx context.Context, userID, questionID uint, ranking map[int]uint) error {
	if len(ranking) == 0 || len(ranking) > MaxRankedAnswers {
		return fmt.Errorf("%w: ranking must contain between 1 and %d positions", apperror.ErrInvalidInput, MaxRankedAnswers)
	}

	// Claim the (user, question) fact first: a duplicate attempt fails here,
	// before any point mutation.
	if err := s.questions.InsertRankedFact(ctx, userID, questionID); err != nil {
		return err
	}

	if err := s.scoring.AwardRanking(ctx, userID, ranking); err != nil {
		return err
	}
	if err := s.questions.IncrementRankings(ctx, questionID); err != nil {
		return err
	}

	themeID, err := s.questions.ThemeID(ctx, questionID)
	if err != nil {
		log.Printf("could not resolve theme of question %d: %v", questionID, err)
	}
	if err := s.missions.OnEvent(ctx, entity.MissionKindRanking, userID, themeID); err != nil {
		log.Printf("mission update after ranking failed for user %d: %v", userID, err)
	}
	return nil
}

func (s *questionService) Upvote(ctx context.Context, userID, questionID uint) error {
	return s.questions.Upvote(ctx, userID, questionID)
}

func (s *questionService) RemoveUpvote(ctx context.Context, userID, questionID uint) error {
	return s.questions.RemoveUpvote(ctx, userID, questionID)
}

func (s *questionService) Downvote(ctx context.Context, userID, questionID uint) error {
	return s.questions.Downvote(ctx, userID, questionID)
}

func (s *questionService) RemoveDownvote(ctx context.Context, userID, questionID uint) error {
	return s.questions.RemoveDownvote(ctx, userID, questionID)
}

func (s *questionService) Report(ctx context.Context, userID, questionID uint) error {
	return s.questions.CreateReport(ctx, userID, questionID)
}

func (s *questionService) RemoveReport(ctx context.Context, userID, questionID uint) error {
	return s.questions.RemoveReport(ctx, userID, questionID)
}

func (s *questionService) ListQuestions(ctx context.Context) ([]entity.Question, error) {
	return s.questions.List(ctx)
}

func (s *questionService) AnswersFor(ctx context.Context, questionID uint) ([]entity.Answer, error) {
	return s.answers.ListByQuestion(ctx, questionID)
}
