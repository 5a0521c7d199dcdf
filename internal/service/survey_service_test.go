package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"surveyhub/internal/model"
)

func newSurveyService(m *memStore) *SurveyService {
	return NewSurveyService(
		&fakeSurveys{m},
		&fakeQuestions{m},
		&fakeOptions{m},
		&fakeResponses{m},
		&fakeItems{m},
		nil,
		nil,
		NewAuditor(&fakeAudits{m}),
	)
}

func textDraft(title string, texts ...string) *Draft {
	d := &Draft{Title: title}
	for _, text := range texts {
		d.Questions = append(d.Questions, QuestionDraft{
			Type: model.QuestionTypeText,
			Text: text,
		})
	}
	return d
}

func TestSaveCreatesDraftWithSlugs(t *testing.T) {
	m := &memStore{}
	svc := newSurveyService(m)

	survey, err := svc.Save(context.Background(), "owner-1", "", textDraft("Customer Satisfaction", "Any comments?"))
	if err != nil {
		t.Fatal(err)
	}
	if survey.Status != model.SurveyStatusDraft {
		t.Errorf("status = %q, want draft", survey.Status)
	}
	if survey.Slug != "customer-satisfaction" {
		t.Errorf("slug = %q, want customer-satisfaction", survey.Slug)
	}
	if !strings.HasPrefix(survey.PublicSlug, "customer-satisfaction-") || survey.PublicSlug == survey.Slug {
		t.Errorf("public slug = %q, want slug plus suffix", survey.PublicSlug)
	}
	if len(m.questions) != 1 || m.questions[0].Position != 0 {
		t.Fatalf("persisted questions = %+v", m.questions)
	}
}

func TestSaveValidatesDraft(t *testing.T) {
	m := &memStore{}
	svc := newSurveyService(m)
	ctx := context.Background()

	cases := []struct {
		name  string
		draft *Draft
	}{
		{"empty title", textDraft("   ", "q")},
		{"no questions", &Draft{Title: "t"}},
		{"only incomplete questions", &Draft{Title: "t", Questions: []QuestionDraft{{Type: model.QuestionTypeText}}}},
	}
	for _, tc := range cases {
		if _, err := svc.Save(ctx, "owner-1", "", tc.draft); !IsValidation(err) {
			t.Errorf("%s: err = %v, want validation error", tc.name, err)
		}
	}
	if len(m.surveys) != 0 {
		t.Fatalf("rejected drafts were persisted: %+v", m.surveys)
	}
}

func TestSaveDropsIncompleteQuestions(t *testing.T) {
	m := &memStore{}
	svc := newSurveyService(m)

	d := textDraft("t", "complete")
	d.Questions = append(d.Questions, QuestionDraft{Type: model.QuestionTypeText}) // no text
	if _, err := svc.Save(context.Background(), "owner-1", "", d); err != nil {
		t.Fatal(err)
	}
	if len(m.questions) != 1 || m.questions[0].Text != "complete" {
		t.Fatalf("persisted questions = %+v, want only the completed one", m.questions)
	}
}

func TestResaveRewritesQuestionSet(t *testing.T) {
	m := &memStore{}
	svc := newSurveyService(m)
	ctx := context.Background()

	d := &Draft{Title: "t", Questions: []QuestionDraft{
		{Type: model.QuestionTypeSingle, Text: "A", Options: []model.Option{{Label: "Yes"}, {Label: "No"}}},
		{Type: model.QuestionTypeText, Text: "B"},
	}}
	survey, err := svc.Save(ctx, "owner-1", "", d)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.questions) != 2 || len(m.options) != 2 {
		t.Fatalf("after create: %d questions, %d options", len(m.questions), len(m.options))
	}

	if err := d.DeleteQuestion(0); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Save(ctx, "owner-1", survey.ID, d); err != nil {
		t.Fatal(err)
	}
	if len(m.questions) != 1 {
		t.Fatalf("after rewrite: %d questions, want 1", len(m.questions))
	}
	if m.questions[0].Text != "B" || m.questions[0].Position != 0 {
		t.Fatalf("surviving question = %+v", m.questions[0])
	}
	if len(m.options) != 0 {
		t.Fatalf("orphaned options left behind: %+v", m.options)
	}
}

func TestSaveRejectsPublishedSurvey(t *testing.T) {
	m := &memStore{}
	svc := newSurveyService(m)
	ctx := context.Background()

	d := textDraft("t", "q")
	survey, err := svc.Save(ctx, "owner-1", "", d)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Publish(ctx, "owner-1", survey.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Save(ctx, "owner-1", survey.ID, d); !errors.Is(err, ErrNotEditable) {
		t.Fatalf("save after publish: err = %v, want ErrNotEditable", err)
	}
	if _, _, err := svc.GetForEdit(ctx, "owner-1", survey.ID); !errors.Is(err, ErrNotEditable) {
		t.Fatalf("edit after publish: err = %v, want ErrNotEditable", err)
	}
}

func TestSaveAppliesLikertDefaults(t *testing.T) {
	m := &memStore{}
	svc := newSurveyService(m)

	d := &Draft{Title: "t", Questions: []QuestionDraft{
		{Type: model.QuestionTypeLikert, Text: "How satisfied are you?"},
	}}
	if _, err := svc.Save(context.Background(), "owner-1", "", d); err != nil {
		t.Fatal(err)
	}

	q := m.questions[0]
	if q.Likert == nil {
		t.Fatal("likert config not applied")
	}
	if q.Likert.Scale != model.DefaultLikertScale {
		t.Errorf("scale = %d, want %d", q.Likert.Scale, model.DefaultLikertScale)
	}
	if len(q.Likert.Labels) != model.DefaultLikertScale {
		t.Errorf("labels = %v, want %d defaults", q.Likert.Labels, model.DefaultLikertScale)
	}
}

func TestLifecycleTransitions(t *testing.T) {
	m := &memStore{}
	svc := newSurveyService(m)
	b := &fakeBroadcaster{}
	svc.SetBroadcaster(b)
	ctx := context.Background()

	survey, err := svc.Save(ctx, "owner-1", "", textDraft("t", "q"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Close(ctx, "owner-1", survey.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("close draft: err = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.Publish(ctx, "owner-1", survey.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Publish(ctx, "owner-1", survey.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("publish twice: err = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.Close(ctx, "owner-1", survey.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Close(ctx, "owner-1", survey.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("close twice: err = %v, want ErrInvalidTransition", err)
	}
	if m.surveys[0].Status != model.SurveyStatusClosed {
		t.Fatalf("final status = %q, want closed", m.surveys[0].Status)
	}
	if len(b.types) != 1 || b.types[0] != "survey_closed" {
		t.Errorf("broadcasts = %v, want one survey_closed", b.types)
	}
}

func TestOwnershipEnforced(t *testing.T) {
	m := &memStore{}
	svc := newSurveyService(m)
	ctx := context.Background()

	survey, err := svc.Save(ctx, "owner-1", "", textDraft("t", "q"))
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.Get(ctx, "intruder", survey.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("get: err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Publish(ctx, "intruder", survey.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("publish: err = %v, want ErrForbidden", err)
	}
	if _, _, err := svc.Get(ctx, "owner-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing survey: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteCascades(t *testing.T) {
	m := &memStore{}
	svc := newSurveyService(m)
	ctx := context.Background()

	d := &Draft{Title: "t", Questions: []QuestionDraft{
		{Type: model.QuestionTypeSingle, Text: "A", Options: []model.Option{{Label: "Yes"}}},
	}}
	survey, err := svc.Save(ctx, "owner-1", "", d)
	if err != nil {
		t.Fatal(err)
	}
	resp := &model.Response{SurveyID: survey.ID}
	if _, err := (&fakeResponses{m}).Create(ctx, resp); err != nil {
		t.Fatal(err)
	}
	if err := (&fakeItems{m}).CreateMany(ctx, []*model.ResponseItem{{ResponseID: resp.ID, QuestionID: m.questions[0].ID}}); err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, "owner-1", survey.ID); err != nil {
		t.Fatal(err)
	}
	if len(m.surveys)+len(m.questions)+len(m.options)+len(m.responses)+len(m.items) != 0 {
		t.Fatalf("leftovers after delete: surveys=%d questions=%d options=%d responses=%d items=%d",
			len(m.surveys), len(m.questions), len(m.options), len(m.responses), len(m.items))
	}
}

func TestStatsCountsOwnerSurveys(t *testing.T) {
	m := &memStore{}
	svc := newSurveyService(m)
	ctx := context.Background()

	first, err := svc.Save(ctx, "owner-1", "", textDraft("one", "q"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Save(ctx, "owner-1", "", textDraft("two", "q")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Save(ctx, "someone-else", "", textDraft("other", "q")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Publish(ctx, "owner-1", first.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := (&fakeResponses{m}).Create(ctx, &model.Response{SurveyID: first.ID}); err != nil {
		t.Fatal(err)
	}

	stats, err := svc.Stats(ctx, "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSurveys != 2 || stats.ActiveSurveys != 1 || stats.TotalResponses != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestTimelineSeedsSevenDays(t *testing.T) {
	m := &memStore{}
	svc := newSurveyService(m)
	ctx := context.Background()

	fixed := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	survey, err := svc.Save(ctx, "owner-1", "", textDraft("t", "q"))
	if err != nil {
		t.Fatal(err)
	}
	responses := &fakeResponses{m}
	for _, at := range []time.Time{
		fixed,
		fixed.AddDate(0, 0, -2),
		fixed.AddDate(0, 0, -2),
		fixed.AddDate(0, 0, -10), // outside the window
	} {
		if _, err := responses.Create(ctx, &model.Response{SurveyID: survey.ID, SubmittedAt: at}); err != nil {
			t.Fatal(err)
		}
	}

	points, err := svc.Timeline(ctx, "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 7 {
		t.Fatalf("len = %d, want 7", len(points))
	}
	if points[0].Date != "2026-03-04" || points[6].Date != "2026-03-10" {
		t.Fatalf("window = %s..%s", points[0].Date, points[6].Date)
	}
	var total int
	for _, p := range points {
		total += p.Count
	}
	if total != 3 {
		t.Errorf("counted %d responses in window, want 3", total)
	}
	if points[4].Count != 2 || points[6].Count != 1 {
		t.Errorf("per-day counts wrong: %+v", points)
	}
}

func TestTimelineUsesLocalDayBoundaries(t *testing.T) {
	m := &memStore{}
	svc := newSurveyService(m)
	ctx := context.Background()

	// Shortly after midnight in a UTC+2 zone; the same instant is still
	// the previous day in UTC.
	loc := time.FixedZone("UTC+2", 2*60*60)
	fixed := time.Date(2026, 3, 10, 1, 0, 0, 0, loc)
	svc.now = func() time.Time { return fixed }

	survey, err := svc.Save(ctx, "owner-1", "", textDraft("t", "q"))
	if err != nil {
		t.Fatal(err)
	}
	// Stored in UTC, as the database returns it
	if _, err := (&fakeResponses{m}).Create(ctx, &model.Response{SurveyID: survey.ID, SubmittedAt: fixed.UTC()}); err != nil {
		t.Fatal(err)
	}

	points, err := svc.Timeline(ctx, "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if points[6].Date != "2026-03-10" {
		t.Fatalf("window ends on %s, want the local today 2026-03-10", points[6].Date)
	}
	if points[6].Count != 1 {
		t.Errorf("today's count = %d, want 1", points[6].Count)
	}
}
