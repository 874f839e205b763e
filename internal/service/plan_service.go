package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"studyplan_backend/internal/config"
	"studyplan_backend/internal/model"
	"studyplan_backend/internal/util"
	"studyplan_backend/pkg/logger"
	"studyplan_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const targetDateLayout = "2006-01-02"

// defaultReadMinutes is used by the aggregator-driven generator when a
// subchapter has no word count to estimate from.
const defaultReadMinutes = 5

type PersonaStore interface {
	ByUserID(ctx context.Context, userID uint) (*model.Persona, error)
}

type ExamConfigStore interface {
	ByKey(ctx context.Context, key string) (*model.ExamConfig, error)
}

type PlanStore interface {
	Create(ctx context.Context, plan *model.Plan) error
	CreateStats(ctx context.Context, stats *model.PlanStats) error
	ByID(ctx context.Context, id string) (*model.Plan, error)
	ByUser(ctx context.Context, userID uint) ([]model.Plan, error)
	StatsByPlanID(ctx context.Context, planID string) (*model.PlanStats, error)
}

// PlanService assembles study plans: it resolves effective persona
// parameters, walks the sorted content tree, generates activities per
// subchapter and packs them into day-sessions.
type PlanService struct {
	Tree        *ContentService
	Progress    *ProgressService
	Personas    PersonaStore
	ExamConfigs ExamConfigStore
	Plans       PlanStore
	Cfg         config.PlanConfig
}

func NewPlanService(
	tree *ContentService,
	progress *ProgressService,
	personas PersonaStore,
	examConfigs ExamConfigStore,
	plans PlanStore,
	cfg config.PlanConfig,
) *PlanService {
	return &PlanService{
		Tree:        tree,
		Progress:    progress,
		Personas:    personas,
		ExamConfigs: examConfigs,
		Plans:       plans,
		Cfg:         cfg,
	}
}

// PlanOverrides are optional per-request replacements for persona and
// config defaults. Nil means "use the default".
type PlanOverrides struct {
	MaxDays          *int `json:"maxDays"`
	WPM              *int `json:"wpm"`
	DailyReadingTime *int `json:"dailyReadingTime"`
	QuizTime         *int `json:"quizTime"`
	ReviseTime       *int `json:"reviseTime"`
}

type BuildPlanRequest struct {
	TargetDate    string        `json:"targetDate"`
	PlanType      string        `json:"planType"`
	BookIDs       []string      `json:"bookIds"`
	ChapterIDs    []string      `json:"chapterIds"`
	SubChapterIDs []string      `json:"subChapterIds"`
	Overrides     PlanOverrides `json:"overrides"`
}

type AdaptivePlanRequest struct {
	SourcePlanID string        `json:"sourcePlanId"`
	BookID       string        `json:"bookId"`
	TargetDate   string        `json:"targetDate"`
	PlanType     string        `json:"planType"`
	Overrides    PlanOverrides `json:"overrides"`
}

func intOr(override *int, fallback int) int {
	if override != nil {
		return *override
	}
	return fallback
}

// daysUntil counts whole days from today to the target date, clamped to 0.
func daysUntil(target time.Time, now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(target.Sub(today).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// readMinutes estimates reading time from word count: ceil(words/wpm),
// 0 when the word count is missing.
func readMinutes(wordCount, wpm int) int {
	if wordCount <= 0 || wpm <= 0 {
		return 0
	}
	return (wordCount + wpm - 1) / wpm
}

func newActivity(t model.ActivityType, book model.Book, ch model.Chapter, sub model.Subchapter, minutes int) model.Activity {
	return model.Activity{
		ActivityID:     model.GenerateUUID(),
		Type:           t,
		BookID:         book.ID,
		BookName:       book.Name,
		ChapterID:      ch.ID,
		ChapterName:    ch.Name,
		SubChapterID:   sub.ID,
		SubChapterName: sub.Name,
		TimeNeeded:     minutes,
	}
}

// SimpleActivities is the proficiency-flag driven generator: unread gets the
// full READ/QUIZ/REVISE chain, read skips the reading, proficient only
// revises. An unknown flag is treated as unread.
func SimpleActivities(book model.Book, ch model.Chapter, sub model.Subchapter, wpm, quizTime, reviseTime int) []model.Activity {
	switch sub.Proficiency {
	case model.ProficiencyRead:
		return []model.Activity{
			newActivity(model.ActivityQuiz, book, ch, sub, quizTime),
			newActivity(model.ActivityRevise, book, ch, sub, reviseTime),
		}
	case model.ProficiencyProficient:
		return []model.Activity{
			newActivity(model.ActivityRevise, book, ch, sub, reviseTime),
		}
	default:
		return []model.Activity{
			newActivity(model.ActivityRead, book, ch, sub, readMinutes(sub.WordCount, wpm)),
			newActivity(model.ActivityQuiz, book, ch, sub, quizTime),
			newActivity(model.ActivityRevise, book, ch, sub, reviseTime),
		}
	}
}

// SnapshotActivities is the aggregator-driven generator: one reading task
// while reading is not done, and one quiz task per not-done stage inside the
// plan type's stage range. Quiz time reuses the concept-count heuristic.
func SnapshotActivities(book model.Book, ch model.Chapter, sub model.Subchapter, snap *model.SubchapterSnapshot, wpm int, stages []model.Stage) []model.Activity {
	var out []model.Activity

	statusOf := func(stage model.Stage) model.StageStatus {
		if snap == nil {
			return model.StatusNotStarted
		}
		return snap.StatusOf(stage)
	}

	if statusOf(model.StageReading) != model.StatusDone {
		minutes := readMinutes(sub.WordCount, wpm)
		if minutes == 0 {
			minutes = defaultReadMinutes
		}
		out = append(out, newActivity(model.ActivityRead, book, ch, sub, minutes))
	}

	for _, stage := range stages {
		if statusOf(stage) == model.StatusDone {
			continue
		}
		minutes := sub.ConceptCount
		if minutes < 1 {
			minutes = 1
		}
		out = append(out, newActivity(model.ActivityQuiz, book, ch, sub, minutes))
	}

	return out
}

// stageRangeFor resolves [startStage, finalStage] for a plan type from the
// exam config. Unknown plan types fall back to the full mastery range.
func stageRangeFor(cfg *model.ExamConfig, planType string) ([]model.Stage, error) {
	var order []model.Stage
	if err := json.Unmarshal(cfg.Stages, &order); err != nil || len(order) == 0 {
		order = append([]model.Stage(nil), model.StageOrder...)
	}

	// Reading is scheduled separately; the range only covers quiz stages.
	mastery := make([]model.Stage, 0, len(order))
	for _, st := range order {
		if st != model.StageReading {
			mastery = append(mastery, st)
		}
	}

	var ranges map[string]model.StageRange
	if len(cfg.PlanTypes) > 0 {
		if err := json.Unmarshal(cfg.PlanTypes, &ranges); err != nil {
			return nil, err
		}
	}
	r, ok := ranges[planType]
	if !ok {
		return mastery, nil
	}

	start, final := -1, -1
	for i, st := range mastery {
		if st == r.StartStage {
			start = i
		}
		if st == r.FinalStage {
			final = i
		}
	}
	if start == -1 || final == -1 || start > final {
		return mastery, nil
	}
	return mastery[start : final+1], nil
}

func (s *PlanService) effectivePersona(ctx context.Context, userID uint, o PlanOverrides) (wpm, daily, quizTime, reviseTime int, err error) {
	persona, err := s.Personas.ByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, 0, 0, fmt.Errorf("%w: user %d", util.ErrPersonaNotFound, userID)
		}
		return 0, 0, 0, 0, err
	}

	wpm = intOr(o.WPM, persona.WPM)
	daily = intOr(o.DailyReadingTime, persona.DailyReadingTime)
	quizTime = intOr(o.QuizTime, s.Cfg.DefaultQuizTime)
	reviseTime = intOr(o.ReviseTime, s.Cfg.DefaultReviseTime)
	return wpm, daily, quizTime, reviseTime, nil
}

// BuildPlan generates a time-boxed plan over the selected content using the
// simple proficiency-driven generator.
func (s *PlanService) BuildPlan(ctx context.Context, userID uint, req BuildPlanRequest) (*model.Plan, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: userId is required", util.ErrInvalidArgument)
	}
	target, err := time.Parse(targetDateLayout, req.TargetDate)
	if err != nil {
		return nil, fmt.Errorf("%w: targetDate %q", util.ErrInvalidArgument, req.TargetDate)
	}

	wpm, daily, quizTime, reviseTime, err := s.effectivePersona(ctx, userID, req.Overrides)
	if err != nil {
		return nil, err
	}
	maxDays := intOr(req.Overrides.MaxDays, daysUntil(target, time.Now()))

	tree, err := s.Tree.FetchTree(ctx, req.BookIDs, req.ChapterIDs, req.SubChapterIDs)
	if err != nil {
		return nil, err
	}

	var activities []model.Activity
	for _, bn := range tree {
		for _, cn := range bn.Chapters {
			for _, sub := range cn.Subchapters {
				activities = append(activities, SimpleActivities(bn.Book, cn.Chapter, sub, wpm, quizTime, reviseTime)...)
			}
		}
	}

	sessions := PackSessions(activities, daily)

	plan := &model.Plan{
		UserID:           userID,
		BookID:           singleBookID(tree),
		Level:            req.PlanType,
		TargetDate:       req.TargetDate,
		MaxDayCount:      maxDays,
		WPM:              wpm,
		DailyReadingTime: daily,
		Sessions:         sessions,
		CreatedAtUTC:     time.Now().UTC(),
	}
	if err := s.persistPlan(ctx, plan, "simple"); err != nil {
		return nil, err
	}
	return plan, nil
}

// BuildAdaptivePlan regenerates a plan from the learner's aggregated
// progress under an existing plan: already-done stages drop out and only
// outstanding work is scheduled.
func (s *PlanService) BuildAdaptivePlan(ctx context.Context, userID uint, req AdaptivePlanRequest) (*model.Plan, error) {
	if userID == 0 || req.SourcePlanID == "" || req.BookID == "" {
		return nil, fmt.Errorf("%w: userId, sourcePlanId and bookId are required", util.ErrInvalidArgument)
	}
	target, err := time.Parse(targetDateLayout, req.TargetDate)
	if err != nil {
		return nil, fmt.Errorf("%w: targetDate %q", util.ErrInvalidArgument, req.TargetDate)
	}

	wpm, daily, _, _, err := s.effectivePersona(ctx, userID, req.Overrides)
	if err != nil {
		return nil, err
	}
	maxDays := intOr(req.Overrides.MaxDays, daysUntil(target, time.Now()))

	examCfg, err := s.ExamConfigs.ByKey(ctx, model.DefaultExamConfigKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamConfigNotFound
		}
		return nil, err
	}
	stages, err := stageRangeFor(examCfg, req.PlanType)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.Progress.Aggregate(ctx, userID, req.SourcePlanID, req.BookID)
	if err != nil {
		return nil, err
	}

	tree, err := s.Tree.FetchTree(ctx, []string{req.BookID}, nil, nil)
	if err != nil {
		return nil, err
	}

	var activities []model.Activity
	for _, bn := range tree {
		for _, cn := range bn.Chapters {
			for _, sub := range cn.Subchapters {
				activities = append(activities, SnapshotActivities(bn.Book, cn.Chapter, sub, snapshots[sub.ID], wpm, stages)...)
			}
		}
	}

	sessions := PackSessions(activities, daily)

	plan := &model.Plan{
		UserID:           userID,
		BookID:           req.BookID,
		Level:            req.PlanType,
		TargetDate:       req.TargetDate,
		MaxDayCount:      maxDays,
		WPM:              wpm,
		DailyReadingTime: daily,
		Sessions:         sessions,
		CreatedAtUTC:     time.Now().UTC(),
	}
	if err := s.persistPlan(ctx, plan, "adaptive"); err != nil {
		return nil, err
	}
	return plan, nil
}

// BuildBookPlan is the non-adaptive mode: one session per book, no time
// boxing.
func (s *PlanService) BuildBookPlan(ctx context.Context, userID uint, req BuildPlanRequest) (*model.Plan, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: userId is required", util.ErrInvalidArgument)
	}

	wpm, daily, quizTime, reviseTime, err := s.effectivePersona(ctx, userID, req.Overrides)
	if err != nil {
		return nil, err
	}

	tree, err := s.Tree.FetchTree(ctx, req.BookIDs, req.ChapterIDs, req.SubChapterIDs)
	if err != nil {
		return nil, err
	}

	var activities []model.Activity
	for _, bn := range tree {
		for _, cn := range bn.Chapters {
			for _, sub := range cn.Subchapters {
				activities = append(activities, SimpleActivities(bn.Book, cn.Chapter, sub, wpm, quizTime, reviseTime)...)
			}
		}
	}

	sessions := PackByBook(activities)

	plan := &model.Plan{
		UserID:           userID,
		BookID:           singleBookID(tree),
		Level:            req.PlanType,
		TargetDate:       req.TargetDate,
		MaxDayCount:      len(sessions),
		WPM:              wpm,
		DailyReadingTime: daily,
		Sessions:         sessions,
		CreatedAtUTC:     time.Now().UTC(),
	}
	if err := s.persistPlan(ctx, plan, "book"); err != nil {
		return nil, err
	}
	return plan, nil
}

// persistPlan writes the plan, then its stats summary. The stats write is
// best-effort: a failure is logged and the plan stays valid.
func (s *PlanService) persistPlan(ctx context.Context, plan *model.Plan, mode string) error {
	if err := s.Plans.Create(ctx, plan); err != nil {
		return err
	}
	monitoring.PlansGenerated.WithLabelValues(mode).Inc()

	stats := ComputePlanStats(plan)
	if err := s.Plans.CreateStats(ctx, stats); err != nil {
		logger.Log.Error("plan stats write failed",
			zap.String("planId", plan.ID),
			zap.Error(err))
	}
	return nil
}

// ComputePlanStats derives the summary record from a plan's sessions.
func ComputePlanStats(plan *model.Plan) *model.PlanStats {
	stats := &model.PlanStats{
		PlanID:       plan.ID,
		SessionCount: len(plan.Sessions),
	}
	for _, sess := range plan.Sessions {
		for _, a := range sess.Activities {
			stats.ActivityCount++
			stats.TotalMinutes += a.TimeNeeded
			switch a.Type {
			case model.ActivityRead:
				stats.ReadMinutes += a.TimeNeeded
			case model.ActivityQuiz:
				stats.QuizMinutes += a.TimeNeeded
			case model.ActivityRevise:
				stats.ReviseMinutes += a.TimeNeeded
			}
		}
	}
	return stats
}

func singleBookID(tree []model.BookNode) string {
	if len(tree) == 1 {
		return tree[0].Book.ID
	}
	return ""
}

// GetPlan returns a plan owned by the user.
func (s *PlanService) GetPlan(ctx context.Context, userID uint, planID string) (*model.Plan, error) {
	plan, err := s.Plans.ByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, util.ErrPlanNotFound
	}
	return plan, nil
}

// ListPlans returns the user's plans, newest first.
func (s *PlanService) ListPlans(ctx context.Context, userID uint) ([]model.Plan, error) {
	return s.Plans.ByUser(ctx, userID)
}

// GetPlanStats returns the derived summary for a plan owned by the user.
func (s *PlanService) GetPlanStats(ctx context.Context, userID uint, planID string) (*model.PlanStats, error) {
	if _, err := s.GetPlan(ctx, userID, planID); err != nil {
		return nil, err
	}
	stats, err := s.Plans.StatsByPlanID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPlanNotFound
		}
		return nil, err
	}
	return stats, nil
}
