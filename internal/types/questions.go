package types

// QuestionStatus tracks whether a questionnaire entry has been answered.
type QuestionStatus string

const (
	QuestionAnswered   QuestionStatus = "answered"
	QuestionUnanswered QuestionStatus = "unanswered"
)

// Question is one AI-generated questionnaire entry. The server creates the
// question; the answer is filled in locally and synced back. Status is derived
// from whether the answer is non-empty at save time.
type Question struct {
	ID           string         `json:"id"`
	Question     string         `json:"ques"`
	Answer       string         `json:"ans,omitempty"`
	RelatedField string         `json:"relatedField,omitempty"`
	Status       QuestionStatus `json:"status,omitempty"`
}

// DeriveStatus sets Status from the current answer.
func (q *Question) DeriveStatus() {
	if q.Answer == "" {
		q.Status = QuestionUnanswered
		return
	}
	q.Status = QuestionAnswered
}
