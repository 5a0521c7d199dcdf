package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"surveyhub/internal/model"
	"surveyhub/internal/repository"
)

// ResultsService aggregates stored response items into chart-ready tallies
// for the survey owner.
type ResultsService struct {
	surveyRepo   repository.SurveyRepo
	questionRepo repository.QuestionRepo
	optionRepo   repository.OptionRepo
	responseRepo repository.ResponseRepo
	itemRepo     repository.ResponseItemRepo
	userRepo     repository.UserRepo
}

// NewResultsService creates a new results service
func NewResultsService(
	surveyRepo repository.SurveyRepo,
	questionRepo repository.QuestionRepo,
	optionRepo repository.OptionRepo,
	responseRepo repository.ResponseRepo,
	itemRepo repository.ResponseItemRepo,
	userRepo repository.UserRepo,
) *ResultsService {
	return &ResultsService{
		surveyRepo:   surveyRepo,
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
		responseRepo: responseRepo,
		itemRepo:     itemRepo,
		userRepo:     userRepo,
	}
}

// ChartPoint is one label/count pair of a choice or likert tally
type ChartPoint struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TextEntry is one verbatim free-text answer with its respondent identity.
// Email is empty for anonymous respondents.
type TextEntry struct {
	ResponseID  string    `json:"responseId"`
	UserID      string    `json:"userId,omitempty"`
	Email       string    `json:"email,omitempty"`
	Value       string    `json:"value"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// QuestionResults holds the tally for one question: Chart for choice and
// likert questions, Texts for text questions.
type QuestionResults struct {
	Question model.QuestionWithOptions `json:"question"`
	Chart    []ChartPoint              `json:"chart,omitempty"`
	Texts    []TextEntry               `json:"texts,omitempty"`
}

// SurveyResults is the aggregated result set for one survey
type SurveyResults struct {
	Survey         *model.Survey     `json:"survey"`
	TotalResponses int               `json:"totalResponses"`
	Questions      []QuestionResults `json:"questions"`
}

// Aggregate tallies every response item of the owner's survey per question
func (s *ResultsService) Aggregate(ctx context.Context, ownerID, surveyID string) (*SurveyResults, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("load survey: %w", err)
	}
	if survey == nil {
		return nil, ErrNotFound
	}
	if survey.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	questions, err := loadQuestionsWithOptions(ctx, s.questionRepo, s.optionRepo, surveyID)
	if err != nil {
		return nil, err
	}
	responses, err := s.responseRepo.GetBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}
	responseIDs := make([]string, len(responses))
	for i, r := range responses {
		responseIDs[i] = r.ID
	}
	items, err := s.itemRepo.GetByResponses(ctx, responseIDs)
	if err != nil {
		return nil, fmt.Errorf("load response items: %w", err)
	}

	byQuestion := make(map[string][]*model.ResponseItem)
	for _, item := range items {
		byQuestion[item.QuestionID] = append(byQuestion[item.QuestionID], item)
	}

	results := &SurveyResults{
		Survey:         survey,
		TotalResponses: len(responses),
		Questions:      make([]QuestionResults, len(questions)),
	}
	for i, q := range questions {
		qr := QuestionResults{Question: q}
		switch q.Type {
		case model.QuestionTypeSingle, model.QuestionTypeMultiple:
			qr.Chart = tallyChoice(q, byQuestion[q.ID])
		case model.QuestionTypeLikert:
			qr.Chart = tallyLikert(q.Question, byQuestion[q.ID])
		case model.QuestionTypeText:
			qr.Texts = s.collectTexts(ctx, responses, byQuestion[q.ID])
		}
		results.Questions[i] = qr
	}
	return results, nil
}

// tallyChoice counts votes per option label. Every defined option appears,
// seeded at zero, in declaration order; stored values matching no option
// are ignored.
func tallyChoice(q model.QuestionWithOptions, items []*model.ResponseItem) []ChartPoint {
	points := make([]ChartPoint, len(q.Options))
	index := make(map[string]int, len(q.Options))
	for i, opt := range q.Options {
		points[i] = ChartPoint{Label: opt.Label}
		index[opt.Value] = i
	}

	for _, item := range items {
		switch q.Type {
		case model.QuestionTypeSingle:
			if item.ValueText == "" {
				continue
			}
			if i, ok := index[item.ValueText]; ok {
				points[i].Count++
			}
		case model.QuestionTypeMultiple:
			for _, value := range item.ValueSelected {
				if i, ok := index[value]; ok {
					points[i].Count++
				}
			}
		}
	}
	return points
}

// tallyLikert counts votes per scale point 1..scale. Stored values outside
// the scale contribute to no bucket. Point labels come from the question
// config, falling back to "Point N".
func tallyLikert(q model.Question, items []*model.ResponseItem) []ChartPoint {
	scale := q.LikertScale()
	labels := q.LikertLabels()

	points := make([]ChartPoint, scale)
	for i := 0; i < scale; i++ {
		label := fmt.Sprintf("Point %d", i+1)
		if i < len(labels) {
			label = labels[i]
		}
		points[i] = ChartPoint{Label: label}
	}

	for _, item := range items {
		if item.ValueNumeric == nil {
			continue
		}
		v := *item.ValueNumeric
		if v >= 1 && v <= scale {
			points[v-1].Count++
		}
	}
	return points
}

// collectTexts lists every non-empty free-text answer with respondent
// identity and submission time, in the responses' stored order (newest
// first); display reordering is left to the caller.
func (s *ResultsService) collectTexts(ctx context.Context, responses []*model.Response, items []*model.ResponseItem) []TextEntry {
	byResponse := make(map[string]*model.ResponseItem, len(items))
	for _, item := range items {
		byResponse[item.ResponseID] = item
	}

	emails := make(map[string]string)
	entries := make([]TextEntry, 0, len(items))
	for _, resp := range responses {
		item, ok := byResponse[resp.ID]
		if !ok || item.ValueText == "" {
			continue
		}
		entry := TextEntry{
			ResponseID:  resp.ID,
			UserID:      resp.UserID,
			Value:       item.ValueText,
			SubmittedAt: resp.SubmittedAt,
		}
		if resp.UserID != "" {
			email, cached := emails[resp.UserID]
			if !cached {
				var err error
				email, err = s.userRepo.EmailByID(ctx, resp.UserID)
				if err != nil {
					log.Printf("resolve email for %s: %v", resp.UserID, err)
				}
				emails[resp.UserID] = email
			}
			entry.Email = email
		}
		entries = append(entries, entry)
	}
	return entries
}
