package service

import (
	"context"
	"errors"
	"studyplan_backend/internal/config"
	"studyplan_backend/internal/model"
	"studyplan_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakePersonaStore struct {
	persona *model.Persona
}

func (f *fakePersonaStore) ByUserID(ctx context.Context, userID uint) (*model.Persona, error) {
	if f.persona == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.persona, nil
}

type fakeExamConfigStore struct {
	cfg *model.ExamConfig
}

func (f *fakeExamConfigStore) ByKey(ctx context.Context, key string) (*model.ExamConfig, error) {
	if f.cfg == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.cfg, nil
}

type fakePlanStore struct {
	plans    []*model.Plan
	stats    []*model.PlanStats
	statsErr error
}

func (f *fakePlanStore) Create(ctx context.Context, plan *model.Plan) error {
	if plan.ID == "" {
		plan.ID = model.GenerateUUID()
	}
	f.plans = append(f.plans, plan)
	return nil
}

func (f *fakePlanStore) CreateStats(ctx context.Context, stats *model.PlanStats) error {
	if f.statsErr != nil {
		return f.statsErr
	}
	f.stats = append(f.stats, stats)
	return nil
}

func (f *fakePlanStore) ByID(ctx context.Context, id string) (*model.Plan, error) {
	for _, p := range f.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePlanStore) ByUser(ctx context.Context, userID uint) ([]model.Plan, error) {
	var out []model.Plan
	for _, p := range f.plans {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePlanStore) StatsByPlanID(ctx context.Context, planID string) (*model.PlanStats, error) {
	for _, s := range f.stats {
		if s.PlanID == planID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func defaultExamConfig() *model.ExamConfig {
	return &model.ExamConfig{
		Key:    model.DefaultExamConfigKey,
		Stages: datatypes.JSON(`["reading","remember","understand","apply","analyze"]`),
		PlanTypes: datatypes.JSON(`{
			"none-basic":    {"startStage": "remember", "finalStage": "understand"},
			"none-moderate": {"startStage": "remember", "finalStage": "apply"},
			"none-advanced": {"startStage": "remember", "finalStage": "analyze"}
		}`),
	}
}

type planFixture struct {
	svc      *PlanService
	content  *fakeContentStore
	logs     *fakeProgressStore
	personas *fakePersonaStore
	plans    *fakePlanStore
}

func newPlanFixture() *planFixture {
	sub := subchapter("s1", "c1", "1.1 Forces")
	sub.WordCount = 1000
	sub.Proficiency = model.ProficiencyUnread

	content := &fakeContentStore{
		books:       []model.Book{book("b1", "1 Physics")},
		chapters:    []model.Chapter{chapter("c1", "b1", "1 Mechanics")},
		subchapters: []model.Subchapter{sub},
	}
	logs := &fakeProgressStore{}
	personas := &fakePersonaStore{persona: &model.Persona{UserID: 1, WPM: 200, DailyReadingTime: 30}}
	plans := &fakePlanStore{}

	cfg := config.PlanConfig{
		DefaultWPM:              200,
		DefaultDailyReadingTime: 30,
		DefaultQuizTime:         1,
		DefaultReviseTime:       1,
	}

	svc := NewPlanService(
		NewContentService(content),
		NewProgressService(content, logs, nil),
		personas,
		&fakeExamConfigStore{cfg: defaultExamConfig()},
		plans,
		cfg,
	)
	return &planFixture{svc: svc, content: content, logs: logs, personas: personas, plans: plans}
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(targetDateLayout)
}

func TestReadMinutes(t *testing.T) {
	assert.Equal(t, 5, readMinutes(1000, 200))
	assert.Equal(t, 6, readMinutes(1001, 200))
	assert.Equal(t, 0, readMinutes(0, 200))
	assert.Equal(t, 0, readMinutes(1000, 0))
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, 5, daysUntil(time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 0, daysUntil(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 0, daysUntil(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), now))
}

func activityTypes(acts []model.Activity) []model.ActivityType {
	var out []model.ActivityType
	for _, a := range acts {
		out = append(out, a.Type)
	}
	return out
}

func TestSimpleActivitiesByProficiency(t *testing.T) {
	b := book("b1", "Book")
	ch := chapter("c1", "b1", "Chapter")

	sub := subchapter("s1", "c1", "Sub")
	sub.WordCount = 1000

	sub.Proficiency = model.ProficiencyUnread
	acts := SimpleActivities(b, ch, sub, 200, 1, 2)
	assert.Equal(t, []model.ActivityType{model.ActivityRead, model.ActivityQuiz, model.ActivityRevise}, activityTypes(acts))
	assert.Equal(t, 5, acts[0].TimeNeeded)
	assert.Equal(t, 1, acts[1].TimeNeeded)
	assert.Equal(t, 2, acts[2].TimeNeeded)

	sub.Proficiency = model.ProficiencyRead
	acts = SimpleActivities(b, ch, sub, 200, 1, 2)
	assert.Equal(t, []model.ActivityType{model.ActivityQuiz, model.ActivityRevise}, activityTypes(acts))

	sub.Proficiency = model.ProficiencyProficient
	acts = SimpleActivities(b, ch, sub, 200, 1, 2)
	assert.Equal(t, []model.ActivityType{model.ActivityRevise}, activityTypes(acts))

	// unknown flags fall back to the full chain
	sub.Proficiency = "weird"
	acts = SimpleActivities(b, ch, sub, 200, 1, 2)
	assert.Len(t, acts, 3)
}

func TestSnapshotActivitiesNilSnapshot(t *testing.T) {
	b := book("b1", "Book")
	ch := chapter("c1", "b1", "Chapter")
	sub := subchapter("s1", "c1", "Sub")
	sub.ConceptCount = 3

	acts := SnapshotActivities(b, ch, sub, nil, 200, model.MasteryStages)

	// read (word count missing -> default) plus one quiz per stage
	require.Len(t, acts, 5)
	assert.Equal(t, model.ActivityRead, acts[0].Type)
	assert.Equal(t, defaultReadMinutes, acts[0].TimeNeeded)
	for _, a := range acts[1:] {
		assert.Equal(t, model.ActivityQuiz, a.Type)
		assert.Equal(t, 3, a.TimeNeeded)
	}
}

func TestSnapshotActivitiesSkipsDoneStages(t *testing.T) {
	b := book("b1", "Book")
	ch := chapter("c1", "b1", "Chapter")
	sub := subchapter("s1", "c1", "Sub")
	sub.WordCount = 400

	snap := &model.SubchapterSnapshot{
		SubChapterID: "s1",
		Stages: []model.StageProgress{
			{Stage: model.StageReading, Status: model.StatusDone},
			{Stage: model.StageRemember, Status: model.StatusDone},
			{Stage: model.StageUnderstand, Status: model.StatusInProgress},
			{Stage: model.StageApply, Status: model.StatusLocked},
		},
	}

	acts := SnapshotActivities(b, ch, sub, snap, 200, []model.Stage{model.StageRemember, model.StageUnderstand, model.StageApply})

	require.Len(t, acts, 2)
	assert.Equal(t, model.ActivityQuiz, acts[0].Type)
	assert.Equal(t, model.ActivityQuiz, acts[1].Type)
	// concept count missing -> floor of one minute
	assert.Equal(t, 1, acts[0].TimeNeeded)
}

func TestStageRangeFor(t *testing.T) {
	cfg := defaultExamConfig()

	stages, err := stageRangeFor(cfg, "none-basic")
	require.NoError(t, err)
	assert.Equal(t, []model.Stage{model.StageRemember, model.StageUnderstand}, stages)

	stages, err = stageRangeFor(cfg, "none-advanced")
	require.NoError(t, err)
	assert.Equal(t, model.MasteryStages, stages)

	// unknown plan types cover the full mastery range, reading excluded
	stages, err = stageRangeFor(cfg, "mystery")
	require.NoError(t, err)
	assert.Equal(t, model.MasteryStages, stages)
}

func TestComputePlanStats(t *testing.T) {
	plan := &model.Plan{
		Sessions: []model.Session{
			{Activities: []model.Activity{
				{Type: model.ActivityRead, TimeNeeded: 5},
				{Type: model.ActivityQuiz, TimeNeeded: 1},
			}},
			{Activities: []model.Activity{
				{Type: model.ActivityRevise, TimeNeeded: 2},
			}},
		},
	}
	plan.ID = "p1"

	stats := ComputePlanStats(plan)

	assert.Equal(t, "p1", stats.PlanID)
	assert.Equal(t, 2, stats.SessionCount)
	assert.Equal(t, 3, stats.ActivityCount)
	assert.Equal(t, 8, stats.TotalMinutes)
	assert.Equal(t, 5, stats.ReadMinutes)
	assert.Equal(t, 1, stats.QuizMinutes)
	assert.Equal(t, 2, stats.ReviseMinutes)
}

func TestBuildPlanSingleSubchapterFitsOneSession(t *testing.T) {
	f := newPlanFixture()

	plan, err := f.svc.BuildPlan(context.Background(), 1, BuildPlanRequest{
		TargetDate: futureDate(14),
		PlanType:   "none-basic",
	})
	require.NoError(t, err)

	// 1000 words at 200 wpm plus quiz and revision, well under 30 minutes
	require.Len(t, plan.Sessions, 1)
	acts := plan.Sessions[0].Activities
	require.Len(t, acts, 3)
	assert.Equal(t, []model.ActivityType{model.ActivityRead, model.ActivityQuiz, model.ActivityRevise}, activityTypes(acts))
	assert.Equal(t, 5, acts[0].TimeNeeded)
	assert.Equal(t, 1, acts[1].TimeNeeded)
	assert.Equal(t, 1, acts[2].TimeNeeded)

	assert.Equal(t, "b1", plan.BookID)
	assert.Equal(t, 200, plan.WPM)
	assert.Equal(t, 30, plan.DailyReadingTime)
	assert.NotEmpty(t, plan.ID)

	require.Len(t, f.plans.plans, 1)
	require.Len(t, f.plans.stats, 1)
	assert.Equal(t, plan.ID, f.plans.stats[0].PlanID)
	assert.Equal(t, 7, f.plans.stats[0].TotalMinutes)
}

func TestBuildPlanOverridesBeatPersona(t *testing.T) {
	f := newPlanFixture()
	wpm, maxDays := 100, 3

	plan, err := f.svc.BuildPlan(context.Background(), 1, BuildPlanRequest{
		TargetDate: futureDate(14),
		Overrides:  PlanOverrides{WPM: &wpm, MaxDays: &maxDays},
	})
	require.NoError(t, err)

	assert.Equal(t, 100, plan.WPM)
	assert.Equal(t, 3, plan.MaxDayCount)
	// 1000 words at 100 wpm
	assert.Equal(t, 10, plan.Sessions[0].Activities[0].TimeNeeded)
}

func TestBuildPlanMissingPersona(t *testing.T) {
	f := newPlanFixture()
	f.personas.persona = nil

	_, err := f.svc.BuildPlan(context.Background(), 1, BuildPlanRequest{TargetDate: futureDate(7)})
	assert.True(t, errors.Is(err, util.ErrPersonaNotFound))
}

func TestBuildPlanRejectsBadTargetDate(t *testing.T) {
	f := newPlanFixture()

	_, err := f.svc.BuildPlan(context.Background(), 1, BuildPlanRequest{TargetDate: "next tuesday"})
	assert.True(t, errors.Is(err, util.ErrInvalidArgument))
}

func TestBuildPlanStatsWriteIsBestEffort(t *testing.T) {
	f := newPlanFixture()
	f.plans.statsErr = errors.New("stats table gone")

	plan, err := f.svc.BuildPlan(context.Background(), 1, BuildPlanRequest{TargetDate: futureDate(7)})
	require.NoError(t, err)
	assert.NotEmpty(t, plan.ID)
	assert.Empty(t, f.plans.stats)
}

func TestBuildBookPlanOneSessionPerBook(t *testing.T) {
	f := newPlanFixture()
	f.content.books = append(f.content.books, book("b2", "2 Chemistry"))
	f.content.chapters = append(f.content.chapters, chapter("c2", "b2", "1 Atoms"))
	sub2 := subchapter("s2", "c2", "1.1 Elements")
	sub2.WordCount = 5000
	f.content.subchapters = append(f.content.subchapters, sub2)

	plan, err := f.svc.BuildBookPlan(context.Background(), 1, BuildPlanRequest{})
	require.NoError(t, err)

	require.Len(t, plan.Sessions, 2)
	assert.Equal(t, 2, plan.MaxDayCount)
	assert.Empty(t, plan.BookID)
}

func TestBuildAdaptivePlanSchedulesOnlyOutstandingWork(t *testing.T) {
	f := newPlanFixture()
	// reading done, remember mastered, understand attempted at 80%
	f.logs.completions = []model.ReadingCompletion{{SubChapterID: "s1", CompletedAt: testClock}}
	f.logs.quizzes = []model.QuizAttempt{
		quiz("s1", model.StageRemember, 1, "100%", 0),
		quiz("s1", model.StageUnderstand, 1, "80%", 20),
	}
	f.logs.revisions = []model.RevisionAttempt{revision("s1", model.StageRemember, 1, 10)}

	plan, err := f.svc.BuildAdaptivePlan(context.Background(), 1, AdaptivePlanRequest{
		SourcePlanID: "old-plan",
		BookID:       "b1",
		TargetDate:   futureDate(14),
		PlanType:     "none-moderate",
	})
	require.NoError(t, err)

	// range remember..apply, with reading and remember already done:
	// one quiz each for understand and apply
	require.Len(t, plan.Sessions, 1)
	acts := plan.Sessions[0].Activities
	require.Len(t, acts, 2)
	for _, a := range acts {
		assert.Equal(t, model.ActivityQuiz, a.Type)
		assert.Equal(t, "s1", a.SubChapterID)
	}
	assert.Equal(t, "b1", plan.BookID)
}

func TestBuildAdaptivePlanRequiresSourcePlan(t *testing.T) {
	f := newPlanFixture()

	_, err := f.svc.BuildAdaptivePlan(context.Background(), 1, AdaptivePlanRequest{
		BookID:     "b1",
		TargetDate: futureDate(7),
	})
	assert.True(t, errors.Is(err, util.ErrInvalidArgument))
}

func TestBuildAdaptivePlanMissingExamConfig(t *testing.T) {
	f := newPlanFixture()
	f.svc.ExamConfigs = &fakeExamConfigStore{}

	_, err := f.svc.BuildAdaptivePlan(context.Background(), 1, AdaptivePlanRequest{
		SourcePlanID: "old-plan",
		BookID:       "b1",
		TargetDate:   futureDate(7),
	})
	assert.True(t, errors.Is(err, util.ErrExamConfigNotFound))
}

func TestGetPlanEnforcesOwnership(t *testing.T) {
	f := newPlanFixture()
	plan, err := f.svc.BuildPlan(context.Background(), 1, BuildPlanRequest{TargetDate: futureDate(7)})
	require.NoError(t, err)

	got, err := f.svc.GetPlan(context.Background(), 1, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, got.ID)

	_, err = f.svc.GetPlan(context.Background(), 2, plan.ID)
	assert.True(t, errors.Is(err, util.ErrPlanNotFound))

	_, err = f.svc.GetPlan(context.Background(), 1, "missing")
	assert.True(t, errors.Is(err, util.ErrPlanNotFound))
}

func TestGetPlanStats(t *testing.T) {
	f := newPlanFixture()
	plan, err := f.svc.BuildPlan(context.Background(), 1, BuildPlanRequest{TargetDate: futureDate(7)})
	require.NoError(t, err)

	stats, err := f.svc.GetPlanStats(context.Background(), 1, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, stats.PlanID)
	assert.Equal(t, 3, stats.ActivityCount)

	_, err = f.svc.GetPlanStats(context.Background(), 2, plan.ID)
	assert.True(t, errors.Is(err, util.ErrPlanNotFound))
}
