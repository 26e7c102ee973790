package model

// UserRecord 单个用户的学习打卡档案，按 user_id 整体读写
// swagger:model UserRecord
type UserRecord struct {
	UserID      string             `json:"user_id"`
	StreakDays  int                `json:"streak_days"`
	LastCheckin *string            `json:"last_checkin"`
	CheckIns    []CheckInEntry     `json:"check_ins"`
	Milestones  MilestoneAggregate `json:"milestones"`
}

// CheckInEntry 一次学习打卡，date 由服务端赋值
// swagger:model CheckInEntry
type CheckInEntry struct {
	Date            string   `json:"date"`
	DurationMins    int      `json:"duration_mins"`
	ChaptersCovered []string `json:"chapters_covered"`
	QuestionsDone   int      `json:"questions_done"`
	MockDone        bool     `json:"mock_done"`
	Notes           *string  `json:"notes"`
}

// MilestoneAggregate 由历史打卡累加得到的统计
// swagger:model MilestoneAggregate
type MilestoneAggregate struct {
	TotalHours        float64  `json:"total_hours"`
	TotalQuestions    int      `json:"total_questions"`
	ChaptersCompleted []string `json:"chapters_completed"`
	MockExamsDone     int      `json:"mock_exams_done"`
	TotalSessions     int      `json:"total_sessions"`
}

// NewUserRecord 新用户的初始档案，所有计数为零
func NewUserRecord(userID string) *UserRecord {
	return &UserRecord{
		UserID:   userID,
		CheckIns: []CheckInEntry{},
		Milestones: MilestoneAggregate{
			ChaptersCompleted: []string{},
		},
	}
}

// Normalize 补齐反序列化后可能为 nil 的切片，保证输出为 [] 而不是 null
func (r *UserRecord) Normalize() {
	if r.CheckIns == nil {
		r.CheckIns = []CheckInEntry{}
	}
	if r.Milestones.ChaptersCompleted == nil {
		r.Milestones.ChaptersCompleted = []string{}
	}
	for i := range r.CheckIns {
		if r.CheckIns[i].ChaptersCovered == nil {
			r.CheckIns[i].ChaptersCovered = []string{}
		}
	}
}

// LatestCheckin 返回最近一次打卡，没有时返回 nil
func (r *UserRecord) LatestCheckin() *CheckInEntry {
	if len(r.CheckIns) == 0 {
		return nil
	}
	return &r.CheckIns[len(r.CheckIns)-1]
}
