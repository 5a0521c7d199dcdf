package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"surveyhub/internal/model"
	"surveyhub/internal/repository"
)

// memStore backs the in-memory repository fakes used by the service tests
type memStore struct {
	surveys   []*model.Survey
	questions []*model.Question
	options   []*model.Option
	responses []*model.Response
	items     []*model.ResponseItem
	users     []*model.User
	profiles  []*model.Profile
	roles     []*model.UserRole
	audits    []*model.AuditEntry
	seq       int
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%d", prefix, m.seq)
}

type fakeSurveys struct{ m *memStore }

func (f *fakeSurveys) Create(_ context.Context, survey *model.Survey) (string, error) {
	if survey.ID == "" {
		survey.ID = f.m.nextID("s")
	}
	survey.CreatedAt = time.Now()
	survey.UpdatedAt = time.Now()
	f.m.surveys = append(f.m.surveys, survey)
	return survey.ID, nil
}

func (f *fakeSurveys) GetByID(_ context.Context, id string) (*model.Survey, error) {
	for _, s := range f.m.surveys {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSurveys) GetByPublicSlug(_ context.Context, publicSlug string) (*model.Survey, error) {
	for _, s := range f.m.surveys {
		if s.PublicSlug == publicSlug && s.Status == model.SurveyStatusPublished {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSurveys) GetByOwner(_ context.Context, ownerID string) ([]*model.Survey, error) {
	var out []*model.Survey
	for _, s := range f.m.surveys {
		if s.OwnerID == ownerID {
			copied := *s
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeSurveys) IDsByOwner(_ context.Context, ownerID string) ([]string, error) {
	var ids []string
	for _, s := range f.m.surveys {
		if s.OwnerID == ownerID {
			ids = append(ids, s.ID)
		}
	}
	return ids, nil
}

func (f *fakeSurveys) CountByOwner(_ context.Context, ownerID string, status model.SurveyStatus) (int64, error) {
	var n int64
	for _, s := range f.m.surveys {
		if s.OwnerID == ownerID && (status == "" || s.Status == status) {
			n++
		}
	}
	return n, nil
}

func (f *fakeSurveys) Update(_ context.Context, survey *model.Survey) error {
	for i, s := range f.m.surveys {
		if s.ID == survey.ID {
			copied := *survey
			copied.UpdatedAt = time.Now()
			f.m.surveys[i] = &copied
			return nil
		}
	}
	return fmt.Errorf("survey %s not found", survey.ID)
}

func (f *fakeSurveys) UpdateStatus(_ context.Context, id string, status model.SurveyStatus) error {
	for _, s := range f.m.surveys {
		if s.ID == id {
			s.Status = status
			return nil
		}
	}
	return fmt.Errorf("survey %s not found", id)
}

func (f *fakeSurveys) Delete(_ context.Context, id string) error {
	for i, s := range f.m.surveys {
		if s.ID == id {
			f.m.surveys = append(f.m.surveys[:i], f.m.surveys[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeQuestions struct{ m *memStore }

func (f *fakeQuestions) Create(_ context.Context, question *model.Question) (string, error) {
	if question.ID == "" {
		question.ID = f.m.nextID("q")
	}
	copied := *question
	f.m.questions = append(f.m.questions, &copied)
	return question.ID, nil
}

func (f *fakeQuestions) GetBySurvey(_ context.Context, surveyID string) ([]*model.Question, error) {
	var out []*model.Question
	for _, q := range f.m.questions {
		if q.SurveyID == surveyID {
			copied := *q
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeQuestions) DeleteBySurvey(_ context.Context, surveyID string) error {
	kept := f.m.questions[:0]
	for _, q := range f.m.questions {
		if q.SurveyID != surveyID {
			kept = append(kept, q)
		}
	}
	f.m.questions = kept
	return nil
}

type fakeOptions struct{ m *memStore }

func (f *fakeOptions) CreateMany(_ context.Context, opts []*model.Option) error {
	for _, opt := range opts {
		if opt.ID == "" {
			opt.ID = f.m.nextID("o")
		}
		copied := *opt
		f.m.options = append(f.m.options, &copied)
	}
	return nil
}

func (f *fakeOptions) GetByQuestion(_ context.Context, questionID string) ([]model.Option, error) {
	var out []model.Option
	for _, opt := range f.m.options {
		if opt.QuestionID == questionID {
			out = append(out, *opt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeOptions) DeleteByQuestions(_ context.Context, questionIDs []string) error {
	drop := make(map[string]bool, len(questionIDs))
	for _, id := range questionIDs {
		drop[id] = true
	}
	kept := f.m.options[:0]
	for _, opt := range f.m.options {
		if !drop[opt.QuestionID] {
			kept = append(kept, opt)
		}
	}
	f.m.options = kept
	return nil
}

type fakeResponses struct{ m *memStore }

func (f *fakeResponses) Create(_ context.Context, response *model.Response) (string, error) {
	if response.ID == "" {
		response.ID = f.m.nextID("r")
	}
	if response.SubmittedAt.IsZero() {
		response.SubmittedAt = time.Now()
	}
	copied := *response
	f.m.responses = append(f.m.responses, &copied)
	return response.ID, nil
}

func (f *fakeResponses) GetBySurvey(_ context.Context, surveyID string) ([]*model.Response, error) {
	var out []*model.Response
	for _, r := range f.m.responses {
		if r.SurveyID == surveyID {
			copied := *r
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (f *fakeResponses) CountBySurvey(_ context.Context, surveyID string) (int64, error) {
	var n int64
	for _, r := range f.m.responses {
		if r.SurveyID == surveyID {
			n++
		}
	}
	return n, nil
}

func (f *fakeResponses) CountBySurveys(_ context.Context, surveyIDs []string) (int64, error) {
	var n int64
	for _, id := range surveyIDs {
		c, _ := f.CountBySurvey(context.Background(), id)
		n += c
	}
	return n, nil
}

func (f *fakeResponses) ListBySurveysSince(_ context.Context, surveyIDs []string, since time.Time) ([]*model.Response, error) {
	want := make(map[string]bool, len(surveyIDs))
	for _, id := range surveyIDs {
		want[id] = true
	}
	var out []*model.Response
	for _, r := range f.m.responses {
		if want[r.SurveyID] && !r.SubmittedAt.Before(since) {
			copied := *r
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

func (f *fakeResponses) DeleteBySurvey(_ context.Context, surveyID string) error {
	kept := f.m.responses[:0]
	for _, r := range f.m.responses {
		if r.SurveyID != surveyID {
			kept = append(kept, r)
		}
	}
	f.m.responses = kept
	return nil
}

type fakeItems struct{ m *memStore }

func (f *fakeItems) CreateMany(_ context.Context, items []*model.ResponseItem) error {
	for _, item := range items {
		if item.ID == "" {
			item.ID = f.m.nextID("i")
		}
		copied := *item
		f.m.items = append(f.m.items, &copied)
	}
	return nil
}

func (f *fakeItems) GetByResponses(_ context.Context, responseIDs []string) ([]*model.ResponseItem, error) {
	want := make(map[string]bool, len(responseIDs))
	for _, id := range responseIDs {
		want[id] = true
	}
	var out []*model.ResponseItem
	for _, item := range f.m.items {
		if want[item.ResponseID] {
			copied := *item
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeItems) DeleteByResponses(_ context.Context, responseIDs []string) error {
	drop := make(map[string]bool, len(responseIDs))
	for _, id := range responseIDs {
		drop[id] = true
	}
	kept := f.m.items[:0]
	for _, item := range f.m.items {
		if !drop[item.ResponseID] {
			kept = append(kept, item)
		}
	}
	f.m.items = kept
	return nil
}

type fakeUsers struct{ m *memStore }

func (f *fakeUsers) Create(_ context.Context, user *model.User) error {
	copied := *user
	f.m.users = append(f.m.users, &copied)
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range f.m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) EmailByID(ctx context.Context, id string) (string, error) {
	user, err := f.GetByID(ctx, id)
	if err != nil || user == nil {
		return "", err
	}
	return user.Email, nil
}

type fakeProfiles struct{ m *memStore }

func (f *fakeProfiles) Create(_ context.Context, profile *model.Profile) error {
	copied := *profile
	f.m.profiles = append(f.m.profiles, &copied)
	return nil
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (*model.Profile, error) {
	for _, p := range f.m.profiles {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeProfiles) List(_ context.Context) ([]*model.Profile, error) {
	out := make([]*model.Profile, len(f.m.profiles))
	for i, p := range f.m.profiles {
		copied := *p
		out[i] = &copied
	}
	return out, nil
}

func (f *fakeProfiles) Update(_ context.Context, id string, patch repository.ProfilePatch) error {
	for _, p := range f.m.profiles {
		if p.ID == id {
			if patch.DisplayName != nil {
				p.DisplayName = *patch.DisplayName
			}
			if patch.Phone != nil {
				p.Phone = *patch.Phone
			}
			if patch.Gender != nil {
				p.Gender = *patch.Gender
			}
			if patch.BirthDate != nil {
				p.BirthDate = *patch.BirthDate
			}
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("profile %s not found", id)
}

type fakeRoles struct{ m *memStore }

func (f *fakeRoles) Get(_ context.Context, userID string) (*model.UserRole, error) {
	for _, r := range f.m.roles {
		if r.UserID == userID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRoles) List(_ context.Context) ([]*model.UserRole, error) {
	out := make([]*model.UserRole, len(f.m.roles))
	for i, r := range f.m.roles {
		copied := *r
		out[i] = &copied
	}
	return out, nil
}

func (f *fakeRoles) Upsert(_ context.Context, userID string, role model.Role) error {
	for _, r := range f.m.roles {
		if r.UserID == userID {
			r.Role = role
			return nil
		}
	}
	f.m.roles = append(f.m.roles, &model.UserRole{UserID: userID, Role: role})
	return nil
}

func (f *fakeRoles) Delete(_ context.Context, userID string) error {
	for i, r := range f.m.roles {
		if r.UserID == userID {
			f.m.roles = append(f.m.roles[:i], f.m.roles[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeAudits struct{ m *memStore }

func (f *fakeAudits) Create(_ context.Context, entry *model.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = f.m.nextID("a")
	}
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	copied := *entry
	f.m.audits = append(f.m.audits, &copied)
	return nil
}

func (f *fakeAudits) filter(keep func(*model.AuditEntry) bool, limit int64) []*model.AuditEntry {
	var out []*model.AuditEntry
	for _, e := range f.m.audits {
		if keep(e) {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fakeAudits) Latest(_ context.Context, limit int64) ([]*model.AuditEntry, error) {
	return f.filter(func(*model.AuditEntry) bool { return true }, limit), nil
}

func (f *fakeAudits) ByActor(_ context.Context, actorID string, limit int64) ([]*model.AuditEntry, error) {
	return f.filter(func(e *model.AuditEntry) bool { return e.ActorID == actorID }, limit), nil
}

func (f *fakeAudits) ByTablePrefix(_ context.Context, tableName string, limit int64) ([]*model.AuditEntry, error) {
	return f.filter(func(e *model.AuditEntry) bool { return strings.HasPrefix(e.Action, tableName+"_") }, limit), nil
}

// fakeBroadcaster records live-feed broadcasts
type fakeBroadcaster struct {
	surveyIDs []string
	types     []string
}

func (b *fakeBroadcaster) BroadcastToOwners(surveyID string, msgType string, _ interface{}) {
	b.surveyIDs = append(b.surveyIDs, surveyID)
	b.types = append(b.types, msgType)
}
