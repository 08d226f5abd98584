package handler

import (
	"context"
	"net/http"
	"strconv"

	"quizverse_backend/internal/search"
	"quizverse_backend/internal/service"
	"quizverse_backend/pkg/apperror"
	"quizverse_backend/pkg/response"
	"quizverse_backend/pkg/validator"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questions service.QuestionService
	search    search.SearchService
}

func NewQuestionHandler(questions service.QuestionService, searchSvc search.SearchService) *QuestionHandler {
	return &QuestionHandler{questions: questions, search: searchSvc}
}

type createQuestionRequest struct {
	Question       string `json:"question"`
	ThemeID        uint   `json:"theme_id" binding:"required"`
	AskingModel    string `json:"asking_model"`
	AnsweringModel string `json:"answering_model" binding:"required"`
}

func (h *QuestionHandler) Create(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	result, err := h.questions.CreateQuestion(c.Request.Context(), userID, service.CreateQuestionInput{
		Question:       req.Question,
		ThemeID:        req.ThemeID,
		AskingModel:    req.AskingModel,
		AnsweringModel: req.AnsweringModel,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.questions.ListQuestions(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *QuestionHandler) Answers(c *gin.Context) {
	questionID, err := paramID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	answers, err := h.questions.AnswersFor(c.Request.Context(), questionID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answers": answers})
}

type submitAnswerRequest struct {
	Answer         string `json:"answer"`
	AnsweringModel string `json:"answering_model"`
}

func (h *QuestionHandler) SubmitAnswer(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	questionID, err := paramID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	err = h.questions.SubmitAnswer(c.Request.Context(), userID, service.SubmitAnswerInput{
		QuestionID:     questionID,
		Answer:         req.Answer,
		AnsweringModel: req.AnsweringModel,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "answer submitted"})
}

type submitRankingRequest struct {
	// Ranking lists answer IDs best first.
	Ranking []uint `json:"ranking" binding:"required,min=1,max=5"`
}

func (h *QuestionHandler) SubmitRanking(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	questionID, err := paramID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req submitRankingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	ranking := make(map[int]uint, len(req.Ranking))
	for i, answerID := range req.Ranking {
		ranking[i+1] = answerID
	}

	if err := h.questions.SubmitRanking(c.Request.Context(), userID, questionID, ranking); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ranking submitted"})
}

func (h *QuestionHandler) Upvote(c *gin.Context) {
	h.voteAction(c, h.questions.Upvote)
}

func (h *QuestionHandler) RemoveUpvote(c *gin.Context) {
	h.voteAction(c, h.questions.RemoveUpvote)
}

func (h *QuestionHandler) Downvote(c *gin.Context) {
	h.voteAction(c, h.questions.Downvote)
}

func (h *QuestionHandler) RemoveDownvote(c *gin.Context) {
	h.voteAction(c, h.questions.RemoveDownvote)
}

func (h *QuestionHandler) Report(c *gin.Context) {
	h.voteAction(c, h.questions.Report)
}

func (h *QuestionHandler) RemoveReport(c *gin.Context) {
	h.voteAction(c, h.questions.RemoveReport)
}

func (h *QuestionHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	results, err := h.search.Search(query, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *QuestionHandler) voteAction(c *gin.Context, action func(ctx context.Context, userID, questionID uint) error) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	questionID, err := paramID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := action(c.Request.Context(), userID, questionID); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperror.ErrBadRequest
	}
	return uint(id), nil
}
