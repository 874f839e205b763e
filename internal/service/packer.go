package service

import (
	"strconv"
	"studyplan_backend/internal/model"
)

// PackSessions greedily bins activities into day-sessions in input order.
// A day is closed once the next activity would push it over the budget, but
// an activity whose time alone exceeds the budget is still placed, alone, in
// a fresh day — every activity gets scheduled. Day labels are 1-based.
func PackSessions(activities []model.Activity, dailyBudgetMinutes int) []model.Session {
	var sessions []model.Session
	var current []model.Activity
	timeUsed := 0

	closeDay := func() {
		if len(current) == 0 {
			return
		}
		sessions = append(sessions, model.Session{
			Label:      strconv.Itoa(len(sessions) + 1),
			Activities: current,
		})
		current = nil
		timeUsed = 0
	}

	for _, a := range activities {
		if timeUsed > 0 && timeUsed+a.TimeNeeded > dailyBudgetMinutes {
			closeDay()
		}
		current = append(current, a)
		timeUsed += a.TimeNeeded
	}
	closeDay()

	return sessions
}

// PackSessionsCapped is the day-capped packing variant: it fills at most
// maxDays sessions and hands any unscheduled activities back to the caller
// instead of dropping them.
func PackSessionsCapped(activities []model.Activity, dailyBudgetMinutes, maxDays int) ([]model.Session, []model.Activity) {
	if maxDays <= 0 {
		return nil, activities
	}

	var sessions []model.Session
	var current []model.Activity
	timeUsed := 0

	for i, a := range activities {
		if timeUsed > 0 && timeUsed+a.TimeNeeded > dailyBudgetMinutes {
			sessions = append(sessions, model.Session{
				Label:      strconv.Itoa(len(sessions) + 1),
				Activities: current,
			})
			current = nil
			timeUsed = 0
			if len(sessions) == maxDays {
				return sessions, activities[i:]
			}
		}
		current = append(current, a)
		timeUsed += a.TimeNeeded
	}
	if len(current) > 0 {
		sessions = append(sessions, model.Session{
			Label:      strconv.Itoa(len(sessions) + 1),
			Activities: current,
		})
	}

	return sessions, nil
}

// PackByBook places all activities of a book into exactly one session,
// ignoring time budgets. Used by the non-adaptive "book plan" mode. Books
// keep their first-seen input order.
func PackByBook(activities []model.Activity) []model.Session {
	index := make(map[string]int)
	var sessions []model.Session

	for _, a := range activities {
		i, ok := index[a.BookID]
		if !ok {
			i = len(sessions)
			index[a.BookID] = i
			sessions = append(sessions, model.Session{
				Label: strconv.Itoa(i + 1),
			})
		}
		sessions[i].Activities = append(sessions[i].Activities, a)
	}

	return sessions
}
