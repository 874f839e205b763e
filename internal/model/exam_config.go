package model

import (
	"gorm.io/datatypes"
)

// ExamConfig stores the ordered stage list and the plan-type → stage-range
// map used by the aggregator-driven activity generator. There is normally a
// single row, keyed by "default".
type ExamConfig struct {
	BaseModel
	Key string `gorm:"size:50;uniqueIndex;not null" json:"key"`
	// Stages is a JSON array of stage names in progression order.
	Stages datatypes.JSON `json:"stages"`
	// PlanTypes is a JSON object mapping a plan-type label to
	// {"startStage": "...", "finalStage": "..."}.
	PlanTypes datatypes.JSON `json:"planTypes"`
}

func (ExamConfig) TableName() string {
	return "exam_configs"
}

// StageRange is the inclusive slice of MasteryStages a plan type covers.
type StageRange struct {
	StartStage Stage `json:"startStage"`
	FinalStage Stage `json:"finalStage"`
}

const DefaultExamConfigKey = "default"
