package model

import (
	"time"
)

// ActivityType distinguishes schedulable work items. Quiz and revise share
// the concept-count timing heuristic; only reading has its own formula.
type ActivityType string

const (
	ActivityRead   ActivityType = "READ"
	ActivityQuiz   ActivityType = "QUIZ"
	ActivityRevise ActivityType = "REVISE"
)

// Activity is an atomic schedulable unit of work tied to one subchapter.
// Names are denormalized so plans render without re-joining content.
type Activity struct {
	ActivityID     string       `json:"activityId"`
	Type           ActivityType `json:"type"`
	BookID         string       `json:"bookId"`
	BookName       string       `json:"bookName"`
	ChapterID      string       `json:"chapterId"`
	ChapterName    string       `json:"chapterName"`
	SubChapterID   string       `json:"subChapterId"`
	SubChapterName string       `json:"subChapterName"`
	TimeNeeded     int          `json:"timeNeeded"` // minutes
}

// Session is one day's worth of scheduled activities. Label is the 1-based
// day index rendered as a string.
type Session struct {
	Label      string     `json:"sessionLabel"`
	Activities []Activity `json:"activities"`
}

// Plan is the generated study plan document. Immutable after creation.
// swagger:model Plan
type Plan struct {
	UUIDBase
	UserID           uint      `gorm:"index;not null" json:"userId"`
	BookID           string    `gorm:"size:36;index" json:"bookId"`
	Level            string    `gorm:"size:50" json:"level"`
	TargetDate       string    `gorm:"size:20" json:"targetDate"`
	MaxDayCount      int       `json:"maxDayCount"`
	WPM              int       `json:"wpm"`
	DailyReadingTime int       `json:"dailyReadingTime"`
	Sessions         []Session `gorm:"serializer:json" json:"sessions"`
	CreatedAtUTC     time.Time `json:"createdAtUtc"`
}

func (Plan) TableName() string {
	return "plans"
}

// PlanStats is a derived summary written best-effort after the plan itself.
// Losing it never invalidates the plan.
type PlanStats struct {
	BaseModel
	PlanID        string `gorm:"size:36;uniqueIndex" json:"planId"`
	SessionCount  int    `json:"sessionCount"`
	ActivityCount int    `json:"activityCount"`
	TotalMinutes  int    `json:"totalMinutes"`
	ReadMinutes   int    `json:"readMinutes"`
	QuizMinutes   int    `json:"quizMinutes"`
	ReviseMinutes int    `json:"reviseMinutes"`
}

func (PlanStats) TableName() string {
	return "plan_stats"
}
