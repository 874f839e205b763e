package model

// Stage is one step in the fixed mastery progression of a subchapter.
type Stage string

const (
	StageReading    Stage = "reading"
	StageRemember   Stage = "remember"
	StageUnderstand Stage = "understand"
	StageApply      Stage = "apply"
	StageAnalyze    Stage = "analyze"
)

// StageOrder is the canonical progression. Chain-locking walks this order:
// a stage is available only once its predecessor is done.
var StageOrder = []Stage{
	StageReading,
	StageRemember,
	StageUnderstand,
	StageApply,
	StageAnalyze,
}

// MasteryStages are the quiz-driven stages, i.e. StageOrder without reading.
var MasteryStages = []Stage{
	StageRemember,
	StageUnderstand,
	StageApply,
	StageAnalyze,
}

// StageIndex returns the position of s in StageOrder, or -1.
func StageIndex(s Stage) int {
	for i, st := range StageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// StageStatus is the derived availability of one stage for one subchapter.
type StageStatus string

const (
	StatusLocked     StageStatus = "locked"
	StatusNotStarted StageStatus = "not-started"
	StatusInProgress StageStatus = "in-progress"
	StatusDone       StageStatus = "done"
)

// StageProgress is one row of a subchapter snapshot. NextTask is computed on
// the raw pre-lock status, so a locked stage still previews its eventual
// next task.
type StageProgress struct {
	Stage      Stage       `json:"stage"`
	Status     StageStatus `json:"status"`
	NextTask   string      `json:"nextTask,omitempty"`
	MasteryPct float64     `json:"masteryPct"`
}

// SubchapterSnapshot is the derived, recomputable progress view of one
// subchapter. It is never authoritative state; every aggregation run builds
// it fresh from the raw attempt logs.
type SubchapterSnapshot struct {
	SubChapterID string          `json:"subChapterId"`
	Stages       []StageProgress `json:"stages"`
	ActiveStage  Stage           `json:"activeStage,omitempty"`
}

// StatusOf returns the final (post-lock) status of the given stage.
func (s *SubchapterSnapshot) StatusOf(stage Stage) StageStatus {
	for _, sp := range s.Stages {
		if sp.Stage == stage {
			return sp.Status
		}
	}
	return StatusNotStarted
}
