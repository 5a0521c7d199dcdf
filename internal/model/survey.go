package model

import "time"

// SurveyStatus is the lifecycle state of a survey
type SurveyStatus string

const (
	SurveyStatusDraft     SurveyStatus = "draft"
	SurveyStatusPublished SurveyStatus = "published"
	SurveyStatusClosed    SurveyStatus = "closed"
)

// Survey is a questionnaire owned by a creator user.
// The lifecycle is one-directional: draft -> published -> closed.
// Questions are only editable while the survey is in draft.
type Survey struct {
	ID          string       `json:"id" bson:"_id,omitempty"`
	OwnerID     string       `json:"ownerId" bson:"owner_id"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	Status      SurveyStatus `json:"status" bson:"status"`
	Slug        string       `json:"slug" bson:"slug"`
	PublicSlug  string       `json:"publicSlug" bson:"public_slug"`
	CreatedAt   time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" bson:"updated_at"`
}

// Editable reports whether the survey still accepts question rewrites
func (s *Survey) Editable() bool {
	return s.Status == SurveyStatusDraft
}

// CanTransition reports whether the status change is a legal forward step
func (s *Survey) CanTransition(to SurveyStatus) bool {
	switch to {
	case SurveyStatusPublished:
		return s.Status == SurveyStatusDraft
	case SurveyStatusClosed:
		return s.Status == SurveyStatusPublished
	default:
		return false
	}
}
