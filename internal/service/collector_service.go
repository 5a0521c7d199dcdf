package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"surveyhub/internal/cache"
	"surveyhub/internal/model"
	"surveyhub/internal/repository"
)

// CollectorService serves the public survey-taking flow: resolving a
// published survey by its public slug, and persisting submissions.
type CollectorService struct {
	surveyRepo   repository.SurveyRepo
	questionRepo repository.QuestionRepo
	optionRepo   repository.OptionRepo
	responseRepo repository.ResponseRepo
	itemRepo     repository.ResponseItemRepo
	surveyCache  cache.SurveyCache
	statsCache   cache.StatsCache
	auditor      *Auditor
	broadcaster  Broadcaster
	now          func() time.Time
}

// NewCollectorService creates a new collector service
func NewCollectorService(
	surveyRepo repository.SurveyRepo,
	questionRepo repository.QuestionRepo,
	optionRepo repository.OptionRepo,
	responseRepo repository.ResponseRepo,
	itemRepo repository.ResponseItemRepo,
	surveyCache cache.SurveyCache,
	statsCache cache.StatsCache,
	auditor *Auditor,
) *CollectorService {
	return &CollectorService{
		surveyRepo:   surveyRepo,
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
		responseRepo: responseRepo,
		itemRepo:     itemRepo,
		surveyCache:  surveyCache,
		statsCache:   statsCache,
		auditor:      auditor,
		now:          time.Now,
	}
}

// SetBroadcaster sets the broadcaster for live result events
func (s *CollectorService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// GetPublished resolves a survey by public slug, cache first. Only
// published surveys resolve; unknown and unpublished slugs both return
// ErrNotFound so the two cannot be told apart.
func (s *CollectorService) GetPublished(ctx context.Context, publicSlug string) (*cache.PublishedSurvey, error) {
	if s.surveyCache != nil {
		bundle, err := s.surveyCache.Get(ctx, publicSlug)
		if err != nil {
			log.Printf("public cache read for %s: %v", publicSlug, err)
		} else if bundle != nil {
			return bundle, nil
		}
	}

	survey, err := s.surveyRepo.GetByPublicSlug(ctx, publicSlug)
	if err != nil {
		return nil, fmt.Errorf("load survey: %w", err)
	}
	if survey == nil {
		return nil, ErrNotFound
	}
	questions, err := loadQuestionsWithOptions(ctx, s.questionRepo, s.optionRepo, survey.ID)
	if err != nil {
		return nil, err
	}

	bundle := &cache.PublishedSurvey{Survey: survey, Questions: questions}
	if s.surveyCache != nil {
		if err := s.surveyCache.Set(ctx, publicSlug, bundle); err != nil {
			log.Printf("public cache write for %s: %v", publicSlug, err)
		}
	}
	return bundle, nil
}

// EmptyAnswers builds the initial answer map for a question set: one entry
// per question holding the empty value appropriate to its type.
func EmptyAnswers(questions []model.QuestionWithOptions) map[string]model.AnswerInput {
	answers := make(map[string]model.AnswerInput, len(questions))
	for _, q := range questions {
		switch q.Type {
		case model.QuestionTypeMultiple:
			answers[q.ID] = model.AnswerInput{Selected: []string{}}
		default:
			answers[q.ID] = model.AnswerInput{}
		}
	}
	return answers
}

// Submit validates and persists one submission for the survey behind
// publicSlug. userID may be empty for anonymous respondents. Validation is
// fail-fast: the first required question left unanswered aborts the submit
// before anything is written, and the error names that question's text.
// Returns the stored response and the running response count.
func (s *CollectorService) Submit(ctx context.Context, publicSlug, userID string, answers map[string]model.AnswerInput) (*model.Response, int64, error) {
	bundle, err := s.GetPublished(ctx, publicSlug)
	if err != nil {
		return nil, 0, err
	}

	for _, q := range bundle.Questions {
		if q.Required && answers[q.ID].Empty(q.Type) {
			return nil, 0, NewValidationError(fmt.Sprintf("question %q is required", q.Text))
		}
	}

	response := &model.Response{
		ID:          uuid.NewString(),
		SurveyID:    bundle.Survey.ID,
		UserID:      userID,
		SubmittedAt: s.now(),
	}
	if _, err := s.responseRepo.Create(ctx, response); err != nil {
		return nil, 0, fmt.Errorf("create response: %w", err)
	}

	items := make([]*model.ResponseItem, len(bundle.Questions))
	for i, q := range bundle.Questions {
		items[i] = buildItem(response.ID, q.Question, answers[q.ID])
	}
	if err := s.itemRepo.CreateMany(ctx, items); err != nil {
		return nil, 0, fmt.Errorf("create response items: %w", err)
	}

	count := s.bumpCount(ctx, bundle.Survey.ID)
	s.auditor.Record(ctx, userID, model.AuditResponseCreated, "responses", response.ID)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToOwners(bundle.Survey.ID, "response_received", map[string]interface{}{
			"surveyId":   bundle.Survey.ID,
			"responseId": response.ID,
			"count":      count,
		})
	}
	return response, count, nil
}

// buildItem routes the in-memory answer into the column matching the
// question's type. One item is stored per question, answered or not.
func buildItem(responseID string, q model.Question, a model.AnswerInput) *model.ResponseItem {
	item := &model.ResponseItem{
		ResponseID: responseID,
		QuestionID: q.ID,
	}
	switch q.Type {
	case model.QuestionTypeLikert:
		item.ValueNumeric = a.Number
	case model.QuestionTypeMultiple:
		item.ValueSelected = a.Selected
	default: // text, single
		item.ValueText = a.Text
	}
	return item
}

// ResponseCount returns the survey's response total, counter first with a
// Mongo reseed on miss.
func (s *CollectorService) ResponseCount(ctx context.Context, surveyID string) (int64, error) {
	if s.statsCache != nil {
		n, ok, err := s.statsCache.GetResponses(ctx, surveyID)
		if err != nil {
			log.Printf("response counter read for %s: %v", surveyID, err)
		} else if ok {
			return n, nil
		}
	}
	n, err := s.responseRepo.CountBySurvey(ctx, surveyID)
	if err != nil {
		return 0, err
	}
	if s.statsCache != nil {
		if err := s.statsCache.SeedResponses(ctx, surveyID, n); err != nil {
			log.Printf("response counter seed for %s: %v", surveyID, err)
		}
	}
	return n, nil
}

func (s *CollectorService) bumpCount(ctx context.Context, surveyID string) int64 {
	if s.statsCache == nil {
		return 0
	}
	count, err := s.statsCache.IncrementResponses(ctx, surveyID)
	if err != nil {
		log.Printf("response counter bump for %s: %v", surveyID, err)
		return 0
	}
	return count
}

// loadQuestionsWithOptions loads the survey's questions in position order
// and fans out one option fetch per choice question, awaited together; any
// failed fetch fails the whole load.
func loadQuestionsWithOptions(ctx context.Context, questions repository.QuestionRepo, options repository.OptionRepo, surveyID string) ([]model.QuestionWithOptions, error) {
	qs, err := questions.GetBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	result := make([]model.QuestionWithOptions, len(qs))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range qs {
		result[i] = model.QuestionWithOptions{Question: *q}
		if !q.HasOptions() {
			continue
		}
		i, q := i, q
		g.Go(func() error {
			opts, err := options.GetByQuestion(gctx, q.ID)
			if err != nil {
				return fmt.Errorf("load options for question %s: %w", q.ID, err)
			}
			result[i].Options = opts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
