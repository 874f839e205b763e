package service

import (
	"studyplan_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func act(id string, minutes int) model.Activity {
	return model.Activity{ActivityID: id, Type: model.ActivityQuiz, TimeNeeded: minutes, BookID: "b1"}
}

func sessionTimes(s model.Session) (total int) {
	for _, a := range s.Activities {
		total += a.TimeNeeded
	}
	return total
}

func TestPackSessionsGreedy(t *testing.T) {
	sessions := PackSessions([]model.Activity{act("a", 5), act("b", 5), act("c", 5)}, 10)

	require.Len(t, sessions, 2)
	assert.Equal(t, "1", sessions[0].Label)
	assert.Equal(t, "2", sessions[1].Label)
	require.Len(t, sessions[0].Activities, 2)
	require.Len(t, sessions[1].Activities, 1)
	assert.Equal(t, 10, sessionTimes(sessions[0]))
	assert.Equal(t, 5, sessionTimes(sessions[1]))
	assert.Equal(t, "c", sessions[1].Activities[0].ActivityID)
}

func TestPackSessionsOversizedActivityGetsOwnDay(t *testing.T) {
	sessions := PackSessions([]model.Activity{act("a", 3), act("big", 50), act("b", 3)}, 10)

	require.Len(t, sessions, 3)
	require.Len(t, sessions[1].Activities, 1)
	assert.Equal(t, "big", sessions[1].Activities[0].ActivityID)
	assert.Equal(t, 50, sessionTimes(sessions[1]))
}

func TestPackSessionsOversizedFirst(t *testing.T) {
	sessions := PackSessions([]model.Activity{act("big", 50)}, 10)

	require.Len(t, sessions, 1)
	assert.Equal(t, "1", sessions[0].Label)
	require.Len(t, sessions[0].Activities, 1)
}

func TestPackSessionsEmptyInput(t *testing.T) {
	assert.Empty(t, PackSessions(nil, 10))
}

func TestPackSessionsCappedReturnsLeftovers(t *testing.T) {
	acts := []model.Activity{act("a", 5), act("b", 5), act("c", 5), act("d", 5), act("e", 5)}
	sessions, leftovers := PackSessionsCapped(acts, 10, 2)

	require.Len(t, sessions, 2)
	assert.Len(t, sessions[0].Activities, 2)
	assert.Len(t, sessions[1].Activities, 2)
	require.Len(t, leftovers, 1)
	assert.Equal(t, "e", leftovers[0].ActivityID)
}

func TestPackSessionsCappedZeroDays(t *testing.T) {
	acts := []model.Activity{act("a", 5)}
	sessions, leftovers := PackSessionsCapped(acts, 10, 0)

	assert.Empty(t, sessions)
	assert.Equal(t, acts, leftovers)
}

func TestPackSessionsCappedAllFit(t *testing.T) {
	acts := []model.Activity{act("a", 5), act("b", 5)}
	sessions, leftovers := PackSessionsCapped(acts, 10, 5)

	require.Len(t, sessions, 1)
	assert.Empty(t, leftovers)
}

func TestPackByBookOneSessionPerBook(t *testing.T) {
	a1 := act("a1", 5)
	a2 := act("a2", 500) // time is ignored in book mode
	b1 := model.Activity{ActivityID: "b1", TimeNeeded: 1, BookID: "b2"}

	sessions := PackByBook([]model.Activity{a1, b1, a2})

	require.Len(t, sessions, 2)
	assert.Equal(t, "1", sessions[0].Label)
	assert.Len(t, sessions[0].Activities, 2)
	assert.Equal(t, "a1", sessions[0].Activities[0].ActivityID)
	assert.Equal(t, "a2", sessions[0].Activities[1].ActivityID)
	assert.Len(t, sessions[1].Activities, 1)
}
