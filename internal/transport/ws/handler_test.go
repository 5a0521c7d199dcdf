package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"surveyhub/internal/model"
	"surveyhub/internal/service"
)

const testSecret = "test-secret"

// stubSurveys serves the ownership lookup; the other operations are never
// reached by the subscribe error paths under test.
type stubSurveys struct {
	surveys map[string]*model.Survey
}

func (s *stubSurveys) Create(context.Context, *model.Survey) (string, error) { return "", nil }

func (s *stubSurveys) GetByID(_ context.Context, id string) (*model.Survey, error) {
	return s.surveys[id], nil
}

func (s *stubSurveys) GetByPublicSlug(context.Context, string) (*model.Survey, error) {
	return nil, nil
}

func (s *stubSurveys) GetByOwner(context.Context, string) ([]*model.Survey, error) { return nil, nil }

func (s *stubSurveys) IDsByOwner(context.Context, string) ([]string, error) { return nil, nil }

func (s *stubSurveys) CountByOwner(context.Context, string, model.SurveyStatus) (int64, error) {
	return 0, nil
}

func (s *stubSurveys) Update(context.Context, *model.Survey) error { return nil }

func (s *stubSurveys) UpdateStatus(context.Context, string, model.SurveyStatus) error { return nil }

func (s *stubSurveys) Delete(context.Context, string) error { return nil }

func signToken(t *testing.T, userID string) string {
	t.Helper()
	claims := &model.SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func newResultsRouter(surveys map[string]*model.Survey) http.Handler {
	authSvc := service.NewAuthService(nil, nil, nil, nil, testSecret)
	surveySvc := service.NewSurveyService(&stubSurveys{surveys: surveys}, nil, nil, nil, nil, nil, nil, nil)
	h := NewHandler(NewHub(), authSvc, surveySvc, nil)

	r := mux.NewRouter()
	r.HandleFunc("/v1/ws/surveys/{surveyId}/results", h.ResultsWS).Methods("GET")
	return r
}

func TestResultsWSRejectsBadSubscribers(t *testing.T) {
	surveys := map[string]*model.Survey{
		"s1": {ID: "s1", OwnerID: "owner-1", Status: model.SurveyStatusPublished},
	}
	router := newResultsRouter(surveys)

	cases := []struct {
		name string
		url  string
		want int
	}{
		{"missing token", "/v1/ws/surveys/s1/results", http.StatusUnauthorized},
		{"garbage token", "/v1/ws/surveys/s1/results?token=not.a.token", http.StatusUnauthorized},
		{"unknown survey", "/v1/ws/surveys/missing/results?token=" + signToken(t, "owner-1"), http.StatusNotFound},
		{"not the owner", "/v1/ws/surveys/s1/results?token=" + signToken(t, "intruder"), http.StatusForbidden},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", tc.url, nil))
		if rec.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.want)
		}
	}
}
