package search

import (
	"encoding/json"
	"fmt"
	"log"

	"quizverse_backend/internal/entity"
	"quizverse_backend/pkg/apperror"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const questionIndex = "questions"

// QuestionDocument is the searchable projection of a question.
type QuestionDocument struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	Tags      string `json:"tags"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

type SearchService interface {
	IndexQuestion(question *entity.Question) error
	Search(query string, limit int64) ([]QuestionDocument, error)
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndex()
	return s
}

func (s *searchService) initIndex() {
	filterable := []interface{}{"status"}
	if _, err := s.client.Index(questionIndex).UpdateFilterableAttributes(&filterable); err != nil {
		log.Printf("Failed to update questions filterable attributes: %v", err)
	}

	sortable := []string{"created_at"}
	if _, err := s.client.Index(questionIndex).UpdateSortableAttributes(&sortable); err != nil {
		log.Printf("Failed to update questions sortable attributes: %v", err)
	}
}

func (s *searchService) IndexQuestion(question *entity.Question) error {
	doc := QuestionDocument{
		ID:        question.ID,
		Text:      s.sanitizer.Sanitize(question.Text),
		Status:    question.Status,
		CreatedAt: question.CreatedAt.Unix(),
	}
	if question.Tags != nil {
		doc.Tags = s.sanitizer.Sanitize(*question.Tags)
	}

	if _, err := s.client.Index(questionIndex).AddDocuments([]QuestionDocument{doc}, strPtr("id")); err != nil {
		return fmt.Errorf("%w: indexing question %d: %v", apperror.ErrUpstream, question.ID, err)
	}
	return nil
}

func strPtr(s string) *string { return &s }

func (s *searchService) Search(query string, limit int64) ([]QuestionDocument, error) {
	if limit <= 0 {
		limit = 20
	}

	resp, err := s.client.Index(questionIndex).Search(query, &meilisearch.SearchRequest{
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: searching questions: %v", apperror.ErrUpstream, err)
	}

	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, err
	}
	var docs []QuestionDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
