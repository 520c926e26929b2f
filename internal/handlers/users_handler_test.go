package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donteatkebab/backend/internal/models"
)

func seedProfile(env *testEnv, id, username string) {
	env.profiles.profiles[id] = models.Profile{
		ID:        id,
		Email:     username + "@example.com",
		Username:  username,
		UpdatedAt: time.Now().UTC(),
	}
}

func TestListUsersJoinsWeights(t *testing.T) {
	env := newTestEnv()
	seedProfile(env, "user-1", "ana")
	seedProfile(env, "user-2", "bob")

	_, err := env.weights.Upsert(context.Background(), "user-1", mustDate(t, "2024-01-10"), 80.5)
	require.NoError(t, err)
	// Entries for other dates must not leak into the board.
	_, err = env.weights.Upsert(context.Background(), "user-1", mustDate(t, "2024-01-09"), 81)
	require.NoError(t, err)
	_, err = env.weights.Upsert(context.Background(), "user-2", mustDate(t, "2024-01-11"), 95)
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/users?date=2024-01-10", testToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var users []models.UserWithWeight
	decodeBody(t, rec, &users)
	require.Len(t, users, 2)

	byID := make(map[string]models.UserWithWeight)
	for _, u := range users {
		byID[u.ID] = u
	}

	ana := byID["user-1"]
	require.Len(t, ana.WeightLogs, 1)
	assert.Equal(t, 80.5, ana.WeightLogs[0].Weight)
	assert.Equal(t, "2024-01-10", ana.WeightLogs[0].LogDate.String())

	bob := byID["user-2"]
	assert.Empty(t, bob.WeightLogs)
}

func TestListUsersDefaultsToToday(t *testing.T) {
	env := newTestEnv()
	seedProfile(env, "user-1", "ana")

	_, err := env.weights.Upsert(context.Background(), "user-1", models.Today(), 80)
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/users", testToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var users []models.UserWithWeight
	decodeBody(t, rec, &users)
	require.Len(t, users, 1)
	require.Len(t, users[0].WeightLogs, 1)
	assert.Equal(t, models.Today().String(), users[0].WeightLogs[0].LogDate.String())
}

func TestListUsersBadDate(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/users?date=yesterday", testToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListUsersEmpty(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/users", testToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestListUsersStoreFailure(t *testing.T) {
	env := newTestEnv()
	env.profiles.listErr = assert.AnError

	rec := env.do(t, http.MethodGet, "/api/users", testToken, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
