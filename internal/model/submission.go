package model

// CheckinSubmission 打卡请求体，不包含日期
// swagger:model CheckinSubmission
type CheckinSubmission struct {
	UserID          string   `json:"user_id" binding:"required"`
	DurationMins    int      `json:"duration_mins" binding:"min=0"`
	ChaptersCovered []string `json:"chapters_covered"`
	QuestionsDone   int      `json:"questions_done" binding:"min=0"`
	MockDone        bool     `json:"mock_done"`
	Notes           *string  `json:"notes"`
}
