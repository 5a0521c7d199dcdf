package model

// QuestionType defines the kind of input a question collects
type QuestionType string

const (
	QuestionTypeText     QuestionType = "text"     // Free text
	QuestionTypeSingle   QuestionType = "single"   // One option from a list
	QuestionTypeMultiple QuestionType = "multiple" // Several options from a list
	QuestionTypeLikert   QuestionType = "likert"   // Agreement scale 1..N
)

// LikertConfig is the per-question configuration for likert questions.
// Only likert questions carry one; the other types have no config.
type LikertConfig struct {
	Scale  int      `json:"scale" bson:"scale"`
	Labels []string `json:"labels" bson:"labels"`
}

// DefaultLikertScale is used when a likert question is saved without config
const DefaultLikertScale = 5

// DefaultLikertLabels labels the default 5-point scale
func DefaultLikertLabels() []string {
	return []string{"Strongly disagree", "Disagree", "Neutral", "Agree", "Strongly agree"}
}

// Question belongs to exactly one survey. Position defines render order and
// is kept contiguous from zero. Single/multiple questions own an ordered
// option list; text/likert do not.
type Question struct {
	ID       string        `json:"id" bson:"_id,omitempty"`
	SurveyID string        `json:"surveyId" bson:"survey_id"`
	Type     QuestionType  `json:"type" bson:"type"`
	Text     string        `json:"text" bson:"question_text"`
	Required bool          `json:"required" bson:"required"`
	Position int           `json:"position" bson:"position"`
	Likert   *LikertConfig `json:"likert,omitempty" bson:"likert,omitempty"`
}

// HasOptions reports whether the question type owns an option list
func (q *Question) HasOptions() bool {
	return q.Type == QuestionTypeSingle || q.Type == QuestionTypeMultiple
}

// LikertScale returns the configured scale size, defaulting when absent
func (q *Question) LikertScale() int {
	if q.Likert != nil && q.Likert.Scale > 0 {
		return q.Likert.Scale
	}
	return DefaultLikertScale
}

// LikertLabels returns the configured point labels, defaulting when absent
func (q *Question) LikertLabels() []string {
	if q.Likert != nil && len(q.Likert.Labels) > 0 {
		return q.Likert.Labels
	}
	return DefaultLikertLabels()
}

// Option is one selectable answer of a single/multiple question. Value is
// the machine form derived from the label; it only needs to be unique
// within its question.
type Option struct {
	ID         string `json:"id" bson:"_id,omitempty"`
	QuestionID string `json:"questionId" bson:"question_id"`
	Label      string `json:"label" bson:"label"`
	Value      string `json:"value" bson:"value"`
	Position   int    `json:"position" bson:"position"`
}

// QuestionWithOptions bundles a question with its ordered option list for
// rendering and aggregation.
type QuestionWithOptions struct {
	Question `bson:",inline"`
	Options  []Option `json:"options,omitempty" bson:"options,omitempty"`
}
