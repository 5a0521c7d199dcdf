package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"surveyhub/internal/cache"
	"surveyhub/internal/model"
	"surveyhub/internal/repository"
	"surveyhub/internal/slug"
)

// SurveyService owns the authoring flow: draft saves, the survey lifecycle,
// owner-scoped reads, and the dashboard figures.
type SurveyService struct {
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

// SetBroadcaster sets the broadcaster for live result events
func (s *SurveyService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// NewSurveyService creates a new survey service
func NewSurveyService(
	surveyRepo repository.SurveyRepo,
	questionRepo repository.QuestionRepo,
	optionRepo repository.OptionRepo,
	responseRepo repository.ResponseRepo,
	itemRepo repository.ResponseItemRepo,
	surveyCache cache.SurveyCache,
	statsCache cache.StatsCache,
	auditor *Auditor,
) *SurveyService {
	return &SurveyService{
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

// Save persists the draft. With an empty surveyID it creates a new draft
// survey and mints its slugs; with a surveyID it rewrites the existing
// draft: the old question/option set is deleted and the current one
// re-inserted. The steps are sequential, not transactional; a failure
// partway leaves a partially written survey.
func (s *SurveyService) Save(ctx context.Context, ownerID, surveyID string, d *Draft) (*model.Survey, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return nil, NewValidationError("title is required")
	}
	if len(d.Questions) == 0 {
		return nil, NewValidationError("at least one question is required")
	}
	valid := d.validQuestions()
	if len(valid) == 0 {
		return nil, NewValidationError("at least one completed question is required")
	}

	var survey *model.Survey
	if surveyID == "" {
		baseSlug := slug.Make(title)
		survey = &model.Survey{
			OwnerID:     ownerID,
			Title:       title,
			Description: strings.TrimSpace(d.Description),
			Status:      model.SurveyStatusDraft,
			Slug:        baseSlug,
			PublicSlug:  fmt.Sprintf("%s-%d", baseSlug, s.now().UnixMilli()),
		}
		id, err := s.surveyRepo.Create(ctx, survey)
		if err != nil {
			return nil, fmt.Errorf("create survey: %w", err)
		}
		survey.ID = id
		s.auditor.Record(ctx, ownerID, model.AuditSurveyCreated, "surveys", id)
	} else {
		existing, err := s.ownedSurvey(ctx, ownerID, surveyID)
		if err != nil {
			return nil, err
		}
		if !existing.Editable() {
			return nil, ErrNotEditable
		}
		existing.Title = title
		existing.Description = strings.TrimSpace(d.Description)
		if err := s.surveyRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update survey: %w", err)
		}
		if err := s.deleteQuestions(ctx, surveyID); err != nil {
			return nil, err
		}
		survey = existing
		s.auditor.Record(ctx, ownerID, model.AuditSurveyUpdated, "surveys", surveyID)
	}

	for i, qd := range valid {
		question := &model.Question{
			SurveyID: survey.ID,
			Type:     qd.Type,
			Text:     strings.TrimSpace(qd.Text),
			Required: qd.Required,
			Position: i,
		}
		if qd.Type == model.QuestionTypeLikert {
			question.Likert = qd.Likert
			if question.Likert == nil {
				question.Likert = &model.LikertConfig{
					Scale:  model.DefaultLikertScale,
					Labels: model.DefaultLikertLabels(),
				}
			}
		}
		questionID, err := s.questionRepo.Create(ctx, question)
		if err != nil {
			return nil, fmt.Errorf("create question %d: %w", i, err)
		}

		if !qd.HasOptions() || len(qd.Options) == 0 {
			continue
		}
		opts := make([]*model.Option, len(qd.Options))
		for j, o := range qd.Options {
			value := o.Value
			if value == "" {
				value = slug.OptionValue(o.Label)
			}
			opts[j] = &model.Option{
				QuestionID: questionID,
				Label:      o.Label,
				Value:      value,
				Position:   j,
			}
		}
		if err := s.optionRepo.CreateMany(ctx, opts); err != nil {
			return nil, fmt.Errorf("create options for question %d: %w", i, err)
		}
	}

	return survey, nil
}

// deleteQuestions removes the survey's persisted questions with their options
func (s *SurveyService) deleteQuestions(ctx context.Context, surveyID string) error {
	old, err := s.questionRepo.GetBySurvey(ctx, surveyID)
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	ids := make([]string, len(old))
	for i, q := range old {
		ids[i] = q.ID
	}
	if err := s.optionRepo.DeleteByQuestions(ctx, ids); err != nil {
		return fmt.Errorf("delete options: %w", err)
	}
	if err := s.questionRepo.DeleteBySurvey(ctx, surveyID); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	return nil
}

// Get returns the survey with its questions and options, owner only.
// Used by the detail and edit pages; editing additionally requires draft
// status, which the caller checks via Editable.
func (s *SurveyService) Get(ctx context.Context, ownerID, surveyID string) (*model.Survey, []model.QuestionWithOptions, error) {
	survey, err := s.ownedSurvey(ctx, ownerID, surveyID)
	if err != nil {
		return nil, nil, err
	}
	questions, err := loadQuestionsWithOptions(ctx, s.questionRepo, s.optionRepo, surveyID)
	if err != nil {
		return nil, nil, err
	}
	return survey, questions, nil
}

// GetForEdit is Get restricted to draft surveys
func (s *SurveyService) GetForEdit(ctx context.Context, ownerID, surveyID string) (*model.Survey, []model.QuestionWithOptions, error) {
	survey, questions, err := s.Get(ctx, ownerID, surveyID)
	if err != nil {
		return nil, nil, err
	}
	if !survey.Editable() {
		return nil, nil, ErrNotEditable
	}
	return survey, questions, nil
}

// List returns the owner's surveys, most recently updated first
func (s *SurveyService) List(ctx context.Context, ownerID string) ([]*model.Survey, error) {
	return s.surveyRepo.GetByOwner(ctx, ownerID)
}

// Publish moves a draft survey to published
func (s *SurveyService) Publish(ctx context.Context, ownerID, surveyID string) (*model.Survey, error) {
	return s.transition(ctx, ownerID, surveyID, model.SurveyStatusPublished, model.AuditSurveyPublished)
}

// Close moves a published survey to closed and drops its public cache entry
func (s *SurveyService) Close(ctx context.Context, ownerID, surveyID string) (*model.Survey, error) {
	return s.transition(ctx, ownerID, surveyID, model.SurveyStatusClosed, model.AuditSurveyClosed)
}

func (s *SurveyService) transition(ctx context.Context, ownerID, surveyID string, to model.SurveyStatus, action string) (*model.Survey, error) {
	survey, err := s.ownedSurvey(ctx, ownerID, surveyID)
	if err != nil {
		return nil, err
	}
	if !survey.CanTransition(to) {
		return nil, ErrInvalidTransition
	}
	if err := s.surveyRepo.UpdateStatus(ctx, surveyID, to); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	survey.Status = to
	if to == model.SurveyStatusClosed {
		if s.surveyCache != nil {
			if err := s.surveyCache.Delete(ctx, survey.PublicSlug); err != nil {
				log.Printf("drop public cache for %s: %v", survey.PublicSlug, err)
			}
		}
		if s.broadcaster != nil {
			s.broadcaster.BroadcastToOwners(surveyID, "survey_closed", map[string]string{"surveyId": surveyID})
		}
	}
	s.auditor.Record(ctx, ownerID, action, "surveys", surveyID)
	return survey, nil
}

// Delete removes the survey and everything hanging off it: questions,
// options, responses, response items, cache entries.
func (s *SurveyService) Delete(ctx context.Context, ownerID, surveyID string) error {
	survey, err := s.ownedSurvey(ctx, ownerID, surveyID)
	if err != nil {
		return err
	}
	if err := s.deleteQuestions(ctx, surveyID); err != nil {
		return err
	}
	responses, err := s.responseRepo.GetBySurvey(ctx, surveyID)
	if err != nil {
		return fmt.Errorf("load responses: %w", err)
	}
	responseIDs := make([]string, len(responses))
	for i, resp := range responses {
		responseIDs[i] = resp.ID
	}
	if err := s.itemRepo.DeleteByResponses(ctx, responseIDs); err != nil {
		return fmt.Errorf("delete response items: %w", err)
	}
	if err := s.responseRepo.DeleteBySurvey(ctx, surveyID); err != nil {
		return fmt.Errorf("delete responses: %w", err)
	}
	if err := s.surveyRepo.Delete(ctx, surveyID); err != nil {
		return fmt.Errorf("delete survey: %w", err)
	}
	if s.surveyCache != nil {
		if err := s.surveyCache.Delete(ctx, survey.PublicSlug); err != nil {
			log.Printf("drop public cache for %s: %v", survey.PublicSlug, err)
		}
	}
	if s.statsCache != nil {
		if err := s.statsCache.DeleteResponses(ctx, surveyID); err != nil {
			log.Printf("drop response counter for %s: %v", surveyID, err)
		}
	}
	s.auditor.Record(ctx, ownerID, model.AuditSurveyDeleted, "surveys", surveyID)
	return nil
}

// DashboardStats are the owner's headline figures
type DashboardStats struct {
	TotalSurveys   int64 `json:"totalSurveys"`
	ActiveSurveys  int64 `json:"activeSurveys"`
	TotalResponses int64 `json:"totalResponses"`
}

// Stats returns the owner's dashboard figures
func (s *SurveyService) Stats(ctx context.Context, ownerID string) (*DashboardStats, error) {
	total, err := s.surveyRepo.CountByOwner(ctx, ownerID, "")
	if err != nil {
		return nil, err
	}
	active, err := s.surveyRepo.CountByOwner(ctx, ownerID, model.SurveyStatusPublished)
	if err != nil {
		return nil, err
	}
	ids, err := s.surveyRepo.IDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	responses, err := s.responseRepo.CountBySurveys(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		TotalSurveys:   total,
		ActiveSurveys:  active,
		TotalResponses: responses,
	}, nil
}

// TimelinePoint is one day of the dashboard response timeline
type TimelinePoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// Timeline returns daily response counts over the last seven days, zero
// days included, oldest first.
func (s *SurveyService) Timeline(ctx context.Context, ownerID string) ([]TimelinePoint, error) {
	ids, err := s.surveyRepo.IDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// Day boundaries are calendar days in the clock's zone; truncating to
	// a UTC day would shift the window during the first hours of the day.
	now := s.now()
	y, mo, d := now.Date()
	today := time.Date(y, mo, d, 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, -6)

	points := make([]TimelinePoint, 7)
	index := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		points[i] = TimelinePoint{Date: date}
		index[date] = i
	}

	responses, err := s.responseRepo.ListBySurveysSince(ctx, ids, start)
	if err != nil {
		return nil, err
	}
	for _, resp := range responses {
		day := resp.SubmittedAt.In(now.Location()).Format("2006-01-02")
		if i, ok := index[day]; ok {
			points[i].Count++
		}
	}
	return points, nil
}

// ownedSurvey loads the survey and enforces ownership
func (s *SurveyService) ownedSurvey(ctx context.Context, ownerID, surveyID string) (*model.Survey, error) {
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
	return survey, nil
}
