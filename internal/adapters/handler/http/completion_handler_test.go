package http_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateCompletion(t *testing.T) {
	t.Run("Success: 201 Created with floored date", func(t *testing.T) {
		env := setupRouter()
		habit := env.seedHabit(t, "Run", "Health", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

		w := env.do("POST", "/api/v1/completions",
			`{"habit_id": "`+habit.ID+`", "completion_date": "2025-06-02", "notes": "easy pace"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"habit_id":"`+habit.ID+`"`)
		assert.Contains(t, w.Body.String(), `"value":1`)
		assert.Contains(t, w.Body.String(), `"notes":"easy pace"`)
	})

	t.Run("Fail: 409 duplicate date", func(t *testing.T) {
		env := setupRouter()
		habit := env.seedHabit(t, "Run", "Health", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
		body := `{"habit_id": "` + habit.ID + `", "completion_date": "2025-06-02"}`

		first := env.do("POST", "/api/v1/completions", body)
		assert.Equal(t, http.StatusCreated, first.Code)

		second := env.do("POST", "/api/v1/completions", body)
		assert.Equal(t, http.StatusConflict, second.Code)
	})

	t.Run("Fail: 404 unknown habit", func(t *testing.T) {
		env := setupRouter()

		w := env.do("POST", "/api/v1/completions",
			`{"habit_id": "nope", "completion_date": "2025-06-02"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Fail: 400 malformed date", func(t *testing.T) {
		env := setupRouter()
		habit := env.seedHabit(t, "Run", "Health", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

		w := env.do("POST", "/api/v1/completions",
			`{"habit_id": "`+habit.ID+`", "completion_date": "02/06/2025"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 400 missing completion_date", func(t *testing.T) {
		env := setupRouter()
		habit := env.seedHabit(t, "Run", "Health", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

		w := env.do("POST", "/api/v1/completions", `{"habit_id": "`+habit.ID+`"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListCompletions(t *testing.T) {
	t.Run("Success: full history", func(t *testing.T) {
		env := setupRouter()
		habit := env.seedHabit(t, "Run", "Health", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
		env.seedCompletion(t, habit.ID, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
		env.seedCompletion(t, habit.ID, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))

		w := env.do("GET", "/api/v1/habits/"+habit.ID+"/completions", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "2025-06-02")
		assert.Contains(t, w.Body.String(), "2025-06-03")
	})

	t.Run("Success: range filter", func(t *testing.T) {
		env := setupRouter()
		habit := env.seedHabit(t, "Run", "Health", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
		env.seedCompletion(t, habit.ID, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
		env.seedCompletion(t, habit.ID, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))

		w := env.do("GET", "/api/v1/habits/"+habit.ID+"/completions?from=2025-06-01&to=2025-06-05", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "2025-06-02")
		assert.NotContains(t, w.Body.String(), "2025-06-10")
	})

	t.Run("Fail: 400 malformed range", func(t *testing.T) {
		env := setupRouter()
		habit := env.seedHabit(t, "Run", "Health", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

		w := env.do("GET", "/api/v1/habits/"+habit.ID+"/completions?from=junk", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 404 unknown habit", func(t *testing.T) {
		env := setupRouter()

		w := env.do("GET", "/api/v1/habits/nope/completions", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateCompletion(t *testing.T) {
	t.Run("Success: 200 with new value", func(t *testing.T) {
		env := setupRouter()
		habit := env.seedHabit(t, "Run", "Health", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
		completion := env.seedCompletion(t, habit.ID, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))

		w := env.do("PUT", "/api/v1/completions/"+completion.ID, `{"value": 3, "notes": "double session"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"value":3`)
	})

	t.Run("Fail: 404 unknown completion", func(t *testing.T) {
		env := setupRouter()

		w := env.do("PUT", "/api/v1/completions/nope", `{"value": 2}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteCompletion(t *testing.T) {
	t.Run("Success: 204", func(t *testing.T) {
		env := setupRouter()
		habit := env.seedHabit(t, "Run", "Health", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
		completion := env.seedCompletion(t, habit.ID, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))

		w := env.do("DELETE", "/api/v1/completions/"+completion.ID, "")

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Fail: 404 unknown completion", func(t *testing.T) {
		env := setupRouter()

		w := env.do("DELETE", "/api/v1/completions/nope", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
