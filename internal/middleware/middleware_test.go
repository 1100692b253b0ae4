package middleware

import (
	"context"
	"ledgerly/internal/config"
	"ledgerly/internal/db"
	"ledgerly/internal/domain"
	"ledgerly/internal/utils"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const secret = "test-secret"

type fixture struct {
	db     *gorm.DB
	rdb    *redis.Client
	router *gin.Engine
	user   *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.Open(&config.Config{DBDriver: config.DriverSQLite, DBName: ":memory:", DBMaxOpenConns: 1, DBMaxIdleConns: 1})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	user := &domain.User{Name: "Alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, gdb.Create(user).Error)

	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(secret, rdb), ActiveUserMiddleware(gdb), func(c *gin.Context) {
		user := c.MustGet(ContextUser).(*domain.User)
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "session": c.GetString(ContextSessionID)})
	})
	return &fixture{db: gdb, rdb: rdb, router: r, user: user}
}

func (f *fixture) login(t *testing.T) (string, string) {
	t.Helper()
	sid, err := utils.CreateSession(context.Background(), f.rdb, f.user.ID, time.Hour)
	require.NoError(t, err)
	token, _, err := utils.GenerateJWT(f.user.ID, sid, secret, time.Hour)
	require.NoError(t, err)
	return token, sid
}

func (f *fixture) get(header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	f.router.ServeHTTP(w, req)
	return w
}

func TestAuthAcceptsLiveSession(t *testing.T) {
	f := newFixture(t)
	token, sid := f.login(t)

	w := f.get("Bearer " + token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), f.user.ID)
	assert.Contains(t, w.Body.String(), sid)
}

func TestAuthRejectsBadHeaders(t *testing.T) {
	f := newFixture(t)
	token, _ := f.login(t)

	for _, header := range []string{"", token, "Basic abc", "Bearer not-a-jwt"} {
		w := f.get(header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.Contains(t, w.Body.String(), `"error"`)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	f := newFixture(t)
	token, sid := f.login(t)
	require.NoError(t, utils.DeleteSession(context.Background(), f.rdb, f.user.ID, sid))

	w := f.get("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsSessionOfAnotherUser(t *testing.T) {
	f := newFixture(t)
	sid, err := utils.CreateSession(context.Background(), f.rdb, "someone-else", time.Hour)
	require.NoError(t, err)
	token, _, err := utils.GenerateJWT(f.user.ID, sid, secret, time.Hour)
	require.NoError(t, err)

	w := f.get("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestActiveUserRejectsDeletedUser(t *testing.T) {
	f := newFixture(t)
	token, _ := f.login(t)
	require.NoError(t, f.db.Delete(&domain.User{}, "id = ?", f.user.ID).Error)

	w := f.get("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestLoggerLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hook := logtest.NewGlobal()
	defer hook.Reset()

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	tests := []struct {
		path  string
		level logrus.Level
	}{
		{"/ok", logrus.InfoLevel},
		{"/bad", logrus.WarnLevel},
		{"/boom", logrus.ErrorLevel},
	}
	for _, tt := range tests {
		hook.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))
		entry := hook.LastEntry()
		require.NotNil(t, entry, tt.path)
		assert.Equal(t, tt.level, entry.Level, tt.path)
		assert.Equal(t, tt.path, entry.Data["path"])
	}
}
