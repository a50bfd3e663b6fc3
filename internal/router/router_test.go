package router

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/fitness-tracker/internal/config"
	"github.com/iliyamo/fitness-tracker/internal/database"
	"github.com/iliyamo/fitness-tracker/internal/handler"
	"github.com/iliyamo/fitness-tracker/internal/middleware"
	"github.com/iliyamo/fitness-tracker/internal/passreset"
	"github.com/iliyamo/fitness-tracker/internal/queue"
	"github.com/iliyamo/fitness-tracker/internal/repository"
	"github.com/iliyamo/fitness-tracker/internal/session"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.WorkoutLoggedEvent
}

func (p *recordingPublisher) PublishWorkoutLogged(_ context.Context, ev queue.WorkoutLoggedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

type testApp struct {
	t        *testing.T
	e        *echo.Echo
	db       *sql.DB
	pub      *recordingPublisher
	sessions session.Store
}

func newTestApp(t *testing.T, tweak ...func(*config.Config)) *testApp {
	t.Helper()
	cfg := config.Config{
		Env:           "test",
		BcryptCost:    bcrypt.MinCost,
		SessionCookie: "session_id",
		SessionTTL:    24 * time.Hour,
		ResetCodeTTL:  15 * time.Minute,
		CORSOrigins:   []string{"http://localhost:3000"},
	}
	for _, f := range tweak {
		f(&cfg)
	}

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "api.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, "sqlite", zap.NewNop()))

	log := zap.NewNop()
	sessions := session.NewMemoryStore(cfg.SessionTTL)
	users := repository.NewUserRepo(db)
	exercises := repository.NewExerciseRepo(db)
	pub := &recordingPublisher{}

	e := NewEcho(cfg, log)
	RegisterRoutes(e, db)
	RegisterAuth(e, handler.NewAuthHandler(cfg, users, sessions, passreset.NewMemoryStore(), log),
		middleware.NewTokenBucket(cfg.RateLimit, nil, log))
	RegisterAPI(e, Handlers{
		Profile:   handler.NewProfileHandler(cfg, users, sessions, log),
		Exercises: handler.NewExerciseHandler(exercises, log),
		Feedback:  handler.NewFeedbackHandler(repository.NewFeedbackRepo(db), exercises, log),
		Workouts:  handler.NewWorkoutHandler(repository.NewWorkoutRepo(db), pub, log),
		Stats:     handler.NewStatsHandler(repository.NewStatsRepo(db), log),
	}, middleware.RequireSession(sessions, cfg.SessionCookie, log))

	return &testApp{t: t, e: e, db: db, pub: pub, sessions: sessions}
}

func (a *testApp) do(method, path string, body any, ck *http.Cookie) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if ck != nil {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) register(email, password string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/register", echo.Map{"name": "N", "surname": "S", "email": email, "password": password}, nil)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (a *testApp) login(email, password string) *http.Cookie {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/login", echo.Map{"email": email, "password": password}, nil)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	ck := sessionCookie(rec)
	require.NotNil(a.t, ck)
	return ck
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "session_id" {
			return ck
		}
	}
	return nil
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (a *testApp) createExercise(ck *http.Cookie, body echo.Map) uint64 {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/exercises", body, ck)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[struct {
		ID uint64 `json:"id"`
	}](a.t, rec).ID
}

type exerciseRow struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	IsPublic    bool   `json:"is_public"`
	CreatorName string `json:"creator_name"`
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	app := newTestApp(t)
	app.register("a@x.com", "pw")

	rec := app.do(http.MethodPost, "/api/register", echo.Map{"email": " A@X.com", "password": "other"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var n int
	require.NoError(t, app.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n))
	assert.Equal(t, 1, n)

	rec = app.do(http.MethodPost, "/api/register", echo.Map{"email": "b@x.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginFailuresSetNoCookie(t *testing.T) {
	app := newTestApp(t)
	app.register("a@x.com", "right")

	for _, body := range []echo.Map{
		{"email": "a@x.com", "password": "wrong"},
		{"email": "nobody@x.com", "password": "right"},
	} {
		rec := app.do(http.MethodPost, "/api/login", body, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())
		assert.Nil(t, sessionCookie(rec))
	}

	rec := app.do(http.MethodPost, "/api/login", echo.Map{"email": "A@x.com", "password": "right"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	ck := sessionCookie(rec)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, 86400, ck.MaxAge)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/api/me", "/api/exercises", "/api/workouts", "/api/stats?type=general", "/api/feedback?exercise_id=1"} {
		rec := app.do(http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec := app.do(http.MethodGet, "/api/me", nil, &http.Cookie{Name: "session_id", Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublicExerciseVisibleButNotEditableByOthers(t *testing.T) {
	app := newTestApp(t)
	app.register("a@x.com", "pw")
	ckA := app.login("a@x.com", "pw")
	benchID := app.createExercise(ckA, echo.Map{"name": "Bench Press", "muscle_group": "Petto", "is_public": true})
	app.createExercise(ckA, echo.Map{"name": "Secret Row", "muscle_group": "Schiena"})

	rec := app.do(http.MethodGet, "/api/exercises", nil, ckA)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]exerciseRow](t, rec), 2)

	app.register("b@x.com", "pw")
	ckB := app.login("b@x.com", "pw")
	rec = app.do(http.MethodGet, "/api/exercises", nil, ckB)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]exerciseRow](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, benchID, rows[0].ID)
	assert.Equal(t, "N", rows[0].CreatorName)

	rec = app.do(http.MethodGet, "/api/exercises?q=petto", nil, ckB)
	assert.Len(t, decode[[]exerciseRow](t, rec), 1)
	rec = app.do(http.MethodGet, "/api/exercises?q=row", nil, ckB)
	assert.Empty(t, decode[[]exerciseRow](t, rec))

	path := "/api/exercises/" + itoa(benchID)
	rec = app.do(http.MethodPut, path, echo.Map{"name": "Hijacked"}, ckB)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = app.do(http.MethodDelete, path, nil, ckB)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodGet, path, nil, ckB)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bench Press", decode[exerciseRow](t, rec).Name)

	rec = app.do(http.MethodDelete, path, nil, ckA)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(http.MethodGet, path, nil, ckB)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	app := newTestApp(t)
	app.register("a@x.com", "old")

	rec := app.do(http.MethodPost, "/api/reset-password", echo.Map{"action": "request", "email": "ghost@x.com"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodPost, "/api/reset-password", echo.Map{"action": "request", "email": "a@x.com"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	code := decode[struct {
		DebugCode string `json:"debug_code"`
	}](t, rec).DebugCode
	assert.Regexp(t, `^[0-9]{6}$`, code)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	rec = app.do(http.MethodPost, "/api/reset-password", echo.Map{"action": "reset", "email": "a@x.com", "token": wrong, "new_password": "new"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodPost, "/api/reset-password", echo.Map{"action": "reset", "email": "a@x.com", "token": code, "new_password": "new"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	app.login("a@x.com", "new")
	rec = app.do(http.MethodPost, "/api/login", echo.Map{"email": "a@x.com", "password": "old"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// the code is single use
	rec = app.do(http.MethodPost, "/api/reset-password", echo.Map{"action": "reset", "email": "a@x.com", "token": code, "new_password": "again"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodPost, "/api/reset-password", echo.Map{"action": "bogus", "email": "a@x.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPasswordResetRejectsExpiredCode(t *testing.T) {
	app := newTestApp(t, func(c *config.Config) { c.ResetCodeTTL = -time.Minute })
	app.register("a@x.com", "old")

	rec := app.do(http.MethodPost, "/api/reset-password", echo.Map{"action": "request", "email": "a@x.com"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	code := decode[struct {
		DebugCode string `json:"debug_code"`
	}](t, rec).DebugCode

	rec = app.do(http.MethodPost, "/api/reset-password", echo.Map{"action": "reset", "email": "a@x.com", "token": code, "new_password": "new"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"code expired"}`, rec.Body.String())
	app.login("a@x.com", "old")
}

func TestWorkoutUpdateReplacesEntries(t *testing.T) {
	app := newTestApp(t)
	app.register("a@x.com", "pw")
	ck := app.login("a@x.com", "pw")
	e1 := app.createExercise(ck, echo.Map{"name": "Squat", "muscle_group": "Gambe"})
	e2 := app.createExercise(ck, echo.Map{"name": "Lunge", "muscle_group": "Gambe"})

	rec := app.do(http.MethodPost, "/api/workouts", echo.Map{
		"name": "Legs", "date": "2025-04-01",
		"exercises": []echo.Map{
			{"exercise_id": e1, "sets": 5, "reps": 5, "weight": 100},
			{"exercise_id": e2, "sets": 3, "reps": 12, "weight": 20.5},
			{"sets": 1, "reps": 1},
		},
	}, ck)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[struct {
		ID uint64 `json:"id"`
	}](t, rec).ID

	require.Len(t, app.pub.events, 1)
	assert.Equal(t, 2, app.pub.events[0].Entries)
	assert.Equal(t, 8, app.pub.events[0].TotalSets)

	type detail struct {
		Workout struct {
			Name string `json:"name"`
		} `json:"workout"`
		Exercises []struct {
			ExerciseID uint64 `json:"exercise_id"`
			Name       string `json:"name"`
			RestTime   int    `json:"rest_time"`
		} `json:"exercises"`
	}
	path := "/api/workouts/" + itoa(id)
	rec = app.do(http.MethodGet, path, nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[detail](t, rec)
	require.Len(t, d.Exercises, 2)
	assert.Equal(t, 60, d.Exercises[0].RestTime)

	rec = app.do(http.MethodPut, path, echo.Map{
		"name": "Legs B", "date": "2025-04-02",
		"exercises": []echo.Map{{"exercise_id": e2, "sets": 4}},
	}, ck)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(http.MethodGet, path, nil, ck)
	d = decode[detail](t, rec)
	assert.Equal(t, "Legs B", d.Workout.Name)
	require.Len(t, d.Exercises, 1)
	assert.Equal(t, e2, d.Exercises[0].ExerciseID)
	assert.Equal(t, "Lunge", d.Exercises[0].Name)

	rec = app.do(http.MethodPut, path, echo.Map{"name": "Legs C", "date": "yesterday"}, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = app.do(http.MethodPut, path, echo.Map{"name": "  ", "date": "2025-04-03"}, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = app.do(http.MethodPost, "/api/workouts", echo.Map{"date": "2025-04-03"}, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"name and date are required"}`, rec.Body.String())
	require.Len(t, app.pub.events, 1)

	app.register("b@x.com", "pw")
	ckB := app.login("b@x.com", "pw")
	rec = app.do(http.MethodPut, path, echo.Map{"name": "Mine", "date": "2025-04-03"}, ckB)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.do(http.MethodDelete, path, nil, ckB)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodDelete, path, nil, ck)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(http.MethodGet, path, nil, ck)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStats(t *testing.T) {
	app := newTestApp(t)
	app.register("a@x.com", "pw")
	ck := app.login("a@x.com", "pw")

	rec := app.do(http.MethodGet, "/api/stats?type=progression&exercise_id=999", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = app.do(http.MethodGet, "/api/stats?type=general", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"workoutsByMonth":[],"muscleDist":[]}`, rec.Body.String())

	ex := app.createExercise(ck, echo.Map{"name": "Deadlift", "muscle_group": "Schiena"})
	for _, w := range []echo.Map{
		{"name": "Pull A", "date": "2025-01-10", "exercises": []echo.Map{{"exercise_id": ex, "weight": 120}, {"exercise_id": ex, "weight": 140}}},
		{"name": "Pull B", "date": "2025-02-10", "exercises": []echo.Map{{"exercise_id": ex, "weight": 150}}},
	} {
		require.Equal(t, http.StatusCreated, app.do(http.MethodPost, "/api/workouts", w, ck).Code)
	}

	rec = app.do(http.MethodGet, "/api/stats?type=progression&exercise_id="+itoa(ex), nil, ck)
	assert.JSONEq(t, `[{"date":"2025-01-10","max_weight":140},{"date":"2025-02-10","max_weight":150}]`, rec.Body.String())

	rec = app.do(http.MethodGet, "/api/stats?type=general", nil, ck)
	assert.JSONEq(t, `{"workoutsByMonth":[{"month":"2025-01","count":1},{"month":"2025-02","count":1}],
		"muscleDist":[{"muscle_group":"Schiena","count":3}]}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodGet, "/api/stats?type=progression", nil, ck).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodGet, "/api/stats", nil, ck).Code)
}

func TestFeedbackDeleteIsAuthorOnly(t *testing.T) {
	app := newTestApp(t)
	app.register("a@x.com", "pw")
	app.register("b@x.com", "pw")
	ckA := app.login("a@x.com", "pw")
	ckB := app.login("b@x.com", "pw")
	pub := app.createExercise(ckA, echo.Map{"name": "Plank", "is_public": true})
	priv := app.createExercise(ckA, echo.Map{"name": "Hidden"})

	rec := app.do(http.MethodPost, "/api/feedback", echo.Map{"exercise_id": priv, "rating": 5}, ckB)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.do(http.MethodPost, "/api/feedback", echo.Map{"exercise_id": pub, "rating": 9}, ckB)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodPost, "/api/feedback", echo.Map{"exercise_id": pub, "rating": 4, "comment": "solid"}, ckB)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	fid := decode[struct {
		ID uint64 `json:"id"`
	}](t, rec).ID

	listPath := "/api/feedback?exercise_id=" + itoa(pub)
	rec = app.do(http.MethodDelete, "/api/feedback/"+itoa(fid), nil, ckA)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.do(http.MethodGet, listPath, nil, ckA)
	assert.Len(t, decode[[]json.RawMessage](t, rec), 1)

	rec = app.do(http.MethodDelete, "/api/feedback/"+itoa(fid), nil, ckB)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(http.MethodGet, listPath, nil, ckA)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestLogoutEndsSession(t *testing.T) {
	app := newTestApp(t)
	app.register("a@x.com", "pw")
	ck := app.login("a@x.com", "pw")

	rec := app.do(http.MethodPost, "/api/logout", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := sessionCookie(rec)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)

	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodGet, "/api/me", nil, ck).Code)
}

func TestProfileUpdateAndAccountDeletion(t *testing.T) {
	app := newTestApp(t)
	app.register("a@x.com", "pw")
	ck := app.login("a@x.com", "pw")
	app.createExercise(ck, echo.Map{"name": "Pushup"})

	rec := app.do(http.MethodPut, "/api/me", echo.Map{"name": "Ada", "country": "IT", "new_password": "pw2"}, ck)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(http.MethodGet, "/api/me", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	type profile struct {
		User struct {
			Name    string `json:"name"`
			Surname string `json:"surname"`
			Country string `json:"country"`
			Stats   struct {
				Workouts  int64 `json:"workouts"`
				Exercises int64 `json:"exercises"`
			} `json:"stats"`
		} `json:"user"`
	}
	p := decode[profile](t, rec)
	assert.Equal(t, "Ada", p.User.Name)
	assert.Equal(t, "S", p.User.Surname)
	assert.Equal(t, "IT", p.User.Country)
	assert.Equal(t, int64(1), p.User.Stats.Exercises)
	assert.Equal(t, int64(0), p.User.Stats.Workouts)
	assert.NotContains(t, rec.Body.String(), "password")

	snap, err := app.sessions.Get(context.Background(), ck.Value)
	require.NoError(t, err)
	assert.Equal(t, "Ada", snap.Name)
	assert.Equal(t, "IT", snap.Country)

	app.login("a@x.com", "pw2")

	rec = app.do(http.MethodDelete, "/api/me", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Less(t, sessionCookie(rec).MaxAge, 0)
	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodGet, "/api/me", nil, ck).Code)

	rec = app.do(http.MethodPost, "/api/login", echo.Map{"email": "a@x.com", "password": "pw2"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var n int
	require.NoError(t, app.db.QueryRow("SELECT COUNT(*) FROM exercises").Scan(&n))
	assert.Zero(t, n)
}

func TestPasswordsOverBcryptLimitAreRejected(t *testing.T) {
	app := newTestApp(t)
	long := strings.Repeat("p", 80)

	rec := app.do(http.MethodPost, "/api/register", echo.Map{"email": "a@x.com", "password": long}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"password must be at most 72 bytes"}`, rec.Body.String())

	app.register("a@x.com", strings.Repeat("p", 72))
	ck := app.login("a@x.com", strings.Repeat("p", 72))

	rec = app.do(http.MethodPut, "/api/me", echo.Map{"name": "Changed", "new_password": long}, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = app.do(http.MethodGet, "/api/me", nil, ck)
	assert.Equal(t, "N", decode[struct {
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	}](t, rec).User.Name)

	rec = app.do(http.MethodPost, "/api/reset-password", echo.Map{"action": "request", "email": "a@x.com"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	code := decode[struct {
		DebugCode string `json:"debug_code"`
	}](t, rec).DebugCode
	rec = app.do(http.MethodPost, "/api/reset-password", echo.Map{"action": "reset", "email": "a@x.com", "token": code, "new_password": long}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	app.login("a@x.com", strings.Repeat("p", 72))
}

func TestBlankNewPasswordKeepsPassword(t *testing.T) {
	app := newTestApp(t)
	app.register("a@x.com", "pw")
	ck := app.login("a@x.com", "pw")

	rec := app.do(http.MethodPut, "/api/me", echo.Map{"new_password": "   "}, ck)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(http.MethodPost, "/api/login", echo.Map{"email": "a@x.com", "password": "   "}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	app.login("a@x.com", "pw")
}

func TestOutOfRangeIDsAreBadRequests(t *testing.T) {
	app := newTestApp(t)
	app.register("a@x.com", "pw")
	ck := app.login("a@x.com", "pw")
	const huge = "18446744073709551615"

	for _, path := range []string{
		"/api/workouts/" + huge,
		"/api/exercises/" + huge,
		"/api/feedback?exercise_id=" + huge,
		"/api/stats?type=progression&exercise_id=" + huge,
	} {
		rec := app.do(http.MethodGet, path, nil, ck)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}

	rec := app.do(http.MethodDelete, "/api/feedback/"+huge, nil, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = app.do(http.MethodPost, "/api/feedback", echo.Map{"exercise_id": uint64(1 << 63), "rating": 3}, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = app.do(http.MethodPost, "/api/workouts", echo.Map{
		"name": "W", "date": "2025-01-01",
		"exercises": []echo.Map{{"exercise_id": uint64(1 << 63), "sets": 1}},
	}, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExerciseWithoutMuscleGroupGetsDefault(t *testing.T) {
	app := newTestApp(t)
	app.register("a@x.com", "pw")
	ck := app.login("a@x.com", "pw")
	id := app.createExercise(ck, echo.Map{"name": "Burpee"})

	rec := app.do(http.MethodGet, "/api/exercises/"+itoa(id), nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Altro", decode[struct {
		MuscleGroup string `json:"muscle_group"`
	}](t, rec).MuscleGroup)

	rec = app.do(http.MethodPost, "/api/workouts", echo.Map{
		"name": "Cardio", "date": "2025-03-01",
		"exercises": []echo.Map{{"exercise_id": id, "sets": 3}},
	}, ck)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = app.do(http.MethodGet, "/api/stats?type=general", nil, ck)
	assert.Contains(t, rec.Body.String(), `{"muscle_group":"Altro","count":1}`)
}

func itoa(v uint64) string { return strconv.FormatUint(v, 10) }
