package model

import "time"

// Response is one survey submission. Anonymous submissions leave UserID
// empty. Immutable once created.
type Response struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	SurveyID    string    `json:"surveyId" bson:"survey_id"`
	UserID      string    `json:"userId,omitempty" bson:"user_id,omitempty"`
	SubmittedAt time.Time `json:"submittedAt" bson:"submitted_at"`
}

// ResponseItem holds the answer to one question within one response.
// Exactly one of the value fields is populated, chosen by the parent
// question's type: text/single fill ValueText (single stores the option's
// machine value), likert fills ValueNumeric, multiple fills ValueSelected.
type ResponseItem struct {
	ID            string   `json:"id" bson:"_id,omitempty"`
	ResponseID    string   `json:"responseId" bson:"response_id"`
	QuestionID    string   `json:"questionId" bson:"question_id"`
	ValueText     string   `json:"valueText,omitempty" bson:"value_text,omitempty"`
	ValueNumeric  *int     `json:"valueNumeric,omitempty" bson:"value_numeric,omitempty"`
	ValueSelected []string `json:"valueSelected,omitempty" bson:"value_selected,omitempty"`
}

// AnswerInput is the in-memory answer value for one question, as collected
// from a respondent before it is routed into a ResponseItem.
type AnswerInput struct {
	Text     string   `json:"text,omitempty"`
	Number   *int     `json:"number,omitempty"`
	Selected []string `json:"selected,omitempty"`
}

// Empty reports whether the input counts as unanswered for the given type
func (a AnswerInput) Empty(t QuestionType) bool {
	switch t {
	case QuestionTypeMultiple:
		return len(a.Selected) == 0
	case QuestionTypeLikert:
		return a.Number == nil
	default:
		return a.Text == ""
	}
}
