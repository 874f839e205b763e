package model

import (
	"time"

	"gorm.io/datatypes"
)

// Progress records are append-only facts written by learner interaction.
// The aggregator only ever reads them.

type ReadingCompletion struct {
	BaseModel
	UserID       uint      `gorm:"index:idx_rc_user_plan" json:"userId"`
	PlanID       string    `gorm:"size:36;index:idx_rc_user_plan" json:"planId"`
	SubChapterID string    `gorm:"size:36;index" json:"subChapterId"`
	CompletedAt  time.Time `json:"completedAt"`
}

func (ReadingCompletion) TableName() string {
	return "reading_completions"
}

type ReadingTimeLog struct {
	BaseModel
	UserID       uint   `gorm:"index:idx_rtl_user_plan" json:"userId"`
	PlanID       string `gorm:"size:36;index:idx_rtl_user_plan" json:"planId"`
	SubChapterID string `gorm:"size:36;index" json:"subChapterId"`
	TotalSeconds int    `gorm:"default:0" json:"totalSeconds"`
}

func (ReadingTimeLog) TableName() string {
	return "reading_time_logs"
}

type QuizAttempt struct {
	BaseModel
	UserID        uint           `gorm:"index:idx_qa_user_plan" json:"userId"`
	PlanID        string         `gorm:"size:36;index:idx_qa_user_plan" json:"planId"`
	SubChapterID  string         `gorm:"size:36;index" json:"subChapterId"`
	Stage         Stage          `gorm:"size:20;index" json:"stage"`
	AttemptNumber int            `gorm:"not null" json:"attemptNumber"`
	// Score is stored as written by the quiz frontend, e.g. "80%" or "100".
	// Parsing is lenient and defaults to 0 (util.ParseScorePercent).
	Score          string         `gorm:"size:20" json:"score"`
	ConceptResults datatypes.JSON `json:"conceptResults,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

type RevisionAttempt struct {
	BaseModel
	UserID         uint      `gorm:"index:idx_ra_user_plan" json:"userId"`
	PlanID         string    `gorm:"size:36;index:idx_ra_user_plan" json:"planId"`
	SubChapterID   string    `gorm:"size:36;index" json:"subChapterId"`
	Stage          Stage     `gorm:"size:20;index" json:"stage"`
	RevisionNumber int       `gorm:"not null" json:"revisionNumber"`
	Timestamp      time.Time `json:"timestamp"`
}

func (RevisionAttempt) TableName() string {
	return "revision_attempts"
}

// StageTimeLog accumulates quiz/revision time spent per stage.
type StageTimeLog struct {
	BaseModel
	UserID       uint   `gorm:"index:idx_stl_user_plan" json:"userId"`
	PlanID       string `gorm:"size:36;index:idx_stl_user_plan" json:"planId"`
	SubChapterID string `gorm:"size:36;index" json:"subChapterId"`
	Stage        Stage  `gorm:"size:20;index" json:"stage"`
	TotalSeconds int    `gorm:"default:0" json:"totalSeconds"`
}

func (StageTimeLog) TableName() string {
	return "stage_time_logs"
}
