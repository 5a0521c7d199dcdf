package service

import (
	"fmt"
	"strings"

	"surveyhub/internal/model"
	"surveyhub/internal/slug"
)

// QuestionDraft is one in-memory question under edit. For single/multiple
// questions Options holds the ordered option list; option values are
// recomputed from labels on every label edit.
type QuestionDraft struct {
	Type     model.QuestionType  `json:"type"`
	Text     string              `json:"text"`
	Required bool                `json:"required"`
	Position int                 `json:"position"`
	Likert   *model.LikertConfig `json:"likert,omitempty"`
	Options  []model.Option      `json:"options,omitempty"`
}

// QuestionPatch carries partial question updates; nil fields are left as-is
type QuestionPatch struct {
	Type     *model.QuestionType
	Text     *string
	Required *bool
	Likert   *model.LikertConfig
}

// Draft is the editable in-memory representation of a survey before save.
// Question positions stay contiguous from zero through every mutation.
type Draft struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Questions   []QuestionDraft `json:"questions"`
}

// AddQuestion appends an empty question draft and returns its index
func (d *Draft) AddQuestion() int {
	d.Questions = append(d.Questions, QuestionDraft{Position: len(d.Questions)})
	return len(d.Questions) - 1
}

// UpdateQuestion merges the patch into the question at index i
func (d *Draft) UpdateQuestion(i int, patch QuestionPatch) error {
	if i < 0 || i >= len(d.Questions) {
		return fmt.Errorf("question index %d out of range", i)
	}
	q := &d.Questions[i]
	if patch.Type != nil {
		q.Type = *patch.Type
		if !q.HasOptions() {
			q.Options = nil
		}
	}
	if patch.Text != nil {
		q.Text = *patch.Text
	}
	if patch.Required != nil {
		q.Required = *patch.Required
	}
	if patch.Likert != nil {
		q.Likert = patch.Likert
	}
	q.Position = i
	return nil
}

// DeleteQuestion removes the question at index i and re-indexes the
// remaining questions to occupy contiguous positions from zero.
func (d *Draft) DeleteQuestion(i int) error {
	if i < 0 || i >= len(d.Questions) {
		return fmt.Errorf("question index %d out of range", i)
	}
	d.Questions = append(d.Questions[:i], d.Questions[i+1:]...)
	for j := range d.Questions {
		d.Questions[j].Position = j
	}
	return nil
}

// HasOptions reports whether the draft question type owns an option list
func (q *QuestionDraft) HasOptions() bool {
	return q.Type == model.QuestionTypeSingle || q.Type == model.QuestionTypeMultiple
}

// AddOption appends an option to the question at index qi; the machine
// value is derived from the label.
func (d *Draft) AddOption(qi int, label string) error {
	if qi < 0 || qi >= len(d.Questions) {
		return fmt.Errorf("question index %d out of range", qi)
	}
	q := &d.Questions[qi]
	q.Options = append(q.Options, model.Option{
		Label:    label,
		Value:    slug.OptionValue(label),
		Position: len(q.Options),
	})
	return nil
}

// UpdateOption replaces the label of option oi, recomputing its value
func (d *Draft) UpdateOption(qi, oi int, label string) error {
	if qi < 0 || qi >= len(d.Questions) {
		return fmt.Errorf("question index %d out of range", qi)
	}
	q := &d.Questions[qi]
	if oi < 0 || oi >= len(q.Options) {
		return fmt.Errorf("option index %d out of range", oi)
	}
	q.Options[oi].Label = label
	q.Options[oi].Value = slug.OptionValue(label)
	return nil
}

// RemoveOption deletes option oi and re-indexes the remaining options
func (d *Draft) RemoveOption(qi, oi int) error {
	if qi < 0 || qi >= len(d.Questions) {
		return fmt.Errorf("question index %d out of range", qi)
	}
	q := &d.Questions[qi]
	if oi < 0 || oi >= len(q.Options) {
		return fmt.Errorf("option index %d out of range", oi)
	}
	q.Options = append(q.Options[:oi], q.Options[oi+1:]...)
	for j := range q.Options {
		q.Options[j].Position = j
	}
	return nil
}

// validQuestions filters out questions with no type or no text. Such
// questions are silently dropped from persistence rather than rejected.
func (d *Draft) validQuestions() []QuestionDraft {
	valid := make([]QuestionDraft, 0, len(d.Questions))
	for _, q := range d.Questions {
		if q.Type != "" && strings.TrimSpace(q.Text) != "" {
			valid = append(valid, q)
		}
	}
	return valid
}
