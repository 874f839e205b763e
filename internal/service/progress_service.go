package service

import (
	"context"
	"fmt"
	"sort"
	"studyplan_backend/internal/model"
	"studyplan_backend/internal/util"
	"studyplan_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProgressStore reads the append-only interaction logs for one (user, plan).
type ProgressStore interface {
	ReadingCompletions(ctx context.Context, userID uint, planID string) ([]model.ReadingCompletion, error)
	ReadingTimeLogs(ctx context.Context, userID uint, planID string) ([]model.ReadingTimeLog, error)
	QuizAttempts(ctx context.Context, userID uint, planID string) ([]model.QuizAttempt, error)
	RevisionAttempts(ctx context.Context, userID uint, planID string) ([]model.RevisionAttempt, error)
	StageTimeLogs(ctx context.Context, userID uint, planID string) ([]model.StageTimeLog, error)
}

// ContentReader is the slice of the content store the aggregator needs.
type ContentReader interface {
	ChaptersByBook(ctx context.Context, bookID string) ([]model.Chapter, error)
	SubchaptersByChapter(ctx context.Context, chapterID string) ([]model.Subchapter, error)
}

// SnapshotWriter caches snapshots downstream for inspection. Optional.
type SnapshotWriter interface {
	StoreSnapshot(ctx context.Context, userID uint, planID, bookID string, snapshot interface{}) error
}

// ProgressService derives per-subchapter mastery snapshots from raw attempt
// logs. It holds no state of its own: every Aggregate call recomputes the
// snapshot from what is currently stored, so calls are idempotent and safe
// to retry.
type ProgressService struct {
	Content ContentReader
	Logs    ProgressStore
	Cache   SnapshotWriter
}

func NewProgressService(content ContentReader, logs ProgressStore, cache SnapshotWriter) *ProgressService {
	return &ProgressService{Content: content, Logs: logs, Cache: cache}
}

// StageAttempts is the raw material for resolving one stage of one
// subchapter.
type StageAttempts struct {
	QuizAttempts     []model.QuizAttempt
	RevisionAttempts []model.RevisionAttempt
	TotalSeconds     int
}

// StageResolution is the outcome of resolving one stage.
type StageResolution struct {
	Status     model.StageStatus
	MasteryPct float64
	NextTask   string
}

// ResolveStage derives the status of one mastery stage. The completion
// protocol is: quiz to 100%, then do the revision matching that attempt
// number. A perfect quiz without its matching revision is still in-progress.
func ResolveStage(a StageAttempts) StageResolution {
	if len(a.QuizAttempts) == 0 {
		return StageResolution{
			Status:   model.StatusNotStarted,
			NextTask: nextTaskFromTimeline(a.QuizAttempts, a.RevisionAttempts),
		}
	}

	// The last quiz is the one with the highest attempt number, not the
	// latest timestamp.
	last := a.QuizAttempts[0]
	for _, q := range a.QuizAttempts[1:] {
		if q.AttemptNumber > last.AttemptNumber {
			last = q
		}
	}

	score := util.ParseScorePercent(last.Score)
	if score < 100 {
		// Partial credit never counts toward mastery.
		return StageResolution{
			Status:   model.StatusInProgress,
			NextTask: nextTaskFromTimeline(a.QuizAttempts, a.RevisionAttempts),
		}
	}

	for _, r := range a.RevisionAttempts {
		if r.RevisionNumber == last.AttemptNumber {
			return StageResolution{
				Status:     model.StatusDone,
				MasteryPct: 100,
			}
		}
	}

	return StageResolution{
		Status:     model.StatusInProgress,
		MasteryPct: 100,
		NextTask:   nextTaskFromTimeline(a.QuizAttempts, a.RevisionAttempts),
	}
}

type timelineEvent struct {
	isQuiz bool
	number int
	at     int64
}

// nextTaskFromTimeline merges quiz and revision attempts into one timeline
// (timestamp order, ties by number ascending) and labels the next task from
// the most recent action: quiz -> its revision, revision -> the next quiz.
func nextTaskFromTimeline(quizzes []model.QuizAttempt, revisions []model.RevisionAttempt) string {
	events := make([]timelineEvent, 0, len(quizzes)+len(revisions))
	for _, q := range quizzes {
		events = append(events, timelineEvent{isQuiz: true, number: q.AttemptNumber, at: q.Timestamp.UnixNano()})
	}
	for _, r := range revisions {
		events = append(events, timelineEvent{isQuiz: false, number: r.RevisionNumber, at: r.Timestamp.UnixNano()})
	}
	if len(events) == 0 {
		return "QUIZ1"
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].number < events[j].number
	})

	latest := events[len(events)-1]
	if latest.isQuiz {
		return fmt.Sprintf("REVISION%d", latest.number)
	}
	return fmt.Sprintf("QUIZ%d", latest.number+1)
}

type stageKey struct {
	subChapterID string
	stage        model.Stage
}

// Aggregate builds a fresh progress snapshot for every subchapter of a book.
// The five log collections are independent reads and are fetched in
// parallel; resolution starts only after all of them complete.
func (s *ProgressService) Aggregate(ctx context.Context, userID uint, planID, bookID string) (map[string]*model.SubchapterSnapshot, error) {
	if userID == 0 || planID == "" || bookID == "" {
		return nil, fmt.Errorf("%w: userId, planId and bookId are required", util.ErrInvalidArgument)
	}

	chapters, err := s.Content.ChaptersByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if len(chapters) == 0 {
		return nil, fmt.Errorf("%w: %s", util.ErrNoChapters, bookID)
	}

	var subchapters []model.Subchapter
	for _, ch := range chapters {
		subs, err := s.Content.SubchaptersByChapter(ctx, ch.ID)
		if err != nil {
			return nil, err
		}
		subchapters = append(subchapters, subs...)
	}

	var (
		completions []model.ReadingCompletion
		timeLogs    []model.ReadingTimeLog
		quizzes     []model.QuizAttempt
		revisions   []model.RevisionAttempt
		stageLogs   []model.StageTimeLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		completions, err = s.Logs.ReadingCompletions(gctx, userID, planID)
		return
	})
	g.Go(func() (err error) {
		timeLogs, err = s.Logs.ReadingTimeLogs(gctx, userID, planID)
		return
	})
	g.Go(func() (err error) {
		quizzes, err = s.Logs.QuizAttempts(gctx, userID, planID)
		return
	})
	g.Go(func() (err error) {
		revisions, err = s.Logs.RevisionAttempts(gctx, userID, planID)
		return
	})
	g.Go(func() (err error) {
		stageLogs, err = s.Logs.StageTimeLogs(gctx, userID, planID)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	completedSubs := make(map[string]bool, len(completions))
	for _, c := range completions {
		completedSubs[c.SubChapterID] = true
	}

	readSeconds := make(map[string]int, len(timeLogs))
	for _, l := range timeLogs {
		readSeconds[l.SubChapterID] += l.TotalSeconds
	}

	quizzesByStage := make(map[stageKey][]model.QuizAttempt)
	for _, q := range quizzes {
		k := stageKey{q.SubChapterID, q.Stage}
		quizzesByStage[k] = append(quizzesByStage[k], q)
	}
	revisionsByStage := make(map[stageKey][]model.RevisionAttempt)
	for _, r := range revisions {
		k := stageKey{r.SubChapterID, r.Stage}
		revisionsByStage[k] = append(revisionsByStage[k], r)
	}
	secondsByStage := make(map[stageKey]int)
	for _, l := range stageLogs {
		secondsByStage[stageKey{l.SubChapterID, l.Stage}] += l.TotalSeconds
	}

	snapshots := make(map[string]*model.SubchapterSnapshot, len(subchapters))
	for _, sub := range subchapters {
		snap := &model.SubchapterSnapshot{SubChapterID: sub.ID}

		// Reading is resolved from completion records and accumulated time,
		// not from quiz attempts.
		reading := model.StageProgress{Stage: model.StageReading, Status: model.StatusNotStarted, NextTask: "READ"}
		switch {
		case completedSubs[sub.ID]:
			reading.Status = model.StatusDone
			reading.NextTask = ""
			reading.MasteryPct = 100
		case readSeconds[sub.ID] > 0:
			reading.Status = model.StatusInProgress
		}
		snap.Stages = append(snap.Stages, reading)

		for _, stage := range model.MasteryStages {
			k := stageKey{sub.ID, stage}
			res := ResolveStage(StageAttempts{
				QuizAttempts:     quizzesByStage[k],
				RevisionAttempts: revisionsByStage[k],
				TotalSeconds:     secondsByStage[k],
			})
			snap.Stages = append(snap.Stages, model.StageProgress{
				Stage:      stage,
				Status:     res.Status,
				NextTask:   res.NextTask,
				MasteryPct: res.MasteryPct,
			})
		}

		// Chain-locking: a stage is locked while its predecessor is not
		// done, and locking cascades. NextTask stays computed on the raw
		// status so locked stages still preview upcoming work.
		for i := 1; i < len(snap.Stages); i++ {
			if snap.Stages[i-1].Status != model.StatusDone {
				snap.Stages[i].Status = model.StatusLocked
			}
		}

		for _, sp := range snap.Stages {
			if sp.Status != model.StatusDone && sp.Status != model.StatusLocked {
				snap.ActiveStage = sp.Stage
				break
			}
		}

		snapshots[sub.ID] = snap
	}

	if s.Cache != nil {
		if err := s.Cache.StoreSnapshot(ctx, userID, planID, bookID, snapshots); err != nil {
			logger.Log.Warn("snapshot cache write failed",
				zap.Uint("userId", userID),
				zap.String("planId", planID),
				zap.Error(err))
		}
	}

	return snapshots, nil
}
