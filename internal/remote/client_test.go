package remote_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	errorvalues "github.com/limbo/hydrobuddy/internal/error_values"
	"github.com/limbo/hydrobuddy/internal/remote"
	"github.com/limbo/hydrobuddy/internal/repository"
	jwtservice "github.com/limbo/hydrobuddy/pkg/jwt_service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI mimics the hosted API: it issues tokens and rejects requests
// without a valid one.
func fakeAPI(t *testing.T, jwt *jwtservice.JWTService) *httptest.Server {
	t.Helper()
	mx := chi.NewMux()
	mx.Post("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"email":"asha@example.com","password":"pw"}` {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token, err := jwt.GenerateToken("1", "asha")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"token":"` + token + `"}`))
	})
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if len(auth) < 8 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if _, err := jwt.ParseToken(auth[len("Bearer "):]); err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			h(w, r)
		}
	}
	mx.Post("/api/water-intake", authed(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"amount":250}`, string(body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"date":"2026-03-10","amount":250}`))
	}))
	mx.Get("/api/water-intake/today", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"date":"2026-03-10","amount":1750}`))
	}))
	mx.Get("/api/water-intake/history", authed(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026-03-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2026-03-07", r.URL.Query().Get("end_date"))
		w.Write([]byte(`[{"date":"2026-03-01","amount":2000},{"date":"2026-03-02","amount":900}]`))
	}))
	mx.Get("/api/badges", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"three-day-streak","name":"3-Day Streak","unlocked":true}]`))
	}))
	srv := httptest.NewServer(mx)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientFlow(t *testing.T) {
	ctx := context.Background()
	srv := fakeAPI(t, jwtservice.New("server-secret", time.Hour))
	kv := repository.NewMemoryStore()
	client := remote.New(srv.URL+"/api/", kv).WithHTTPClient(srv.Client())

	_, err := client.TodayIntake(ctx)
	assert.True(t, errors.Is(err, errorvalues.ErrRemote))

	_, err = client.Login(ctx, remote.Credentials{Email: "asha@example.com", Password: "wrong"})
	assert.True(t, errors.Is(err, errorvalues.ErrRemote))

	_, err = client.Login(ctx, remote.Credentials{Email: "asha@example.com", Password: "pw"})
	require.NoError(t, err)
	_, ok, _ := kv.Get(ctx, repository.KeyRemoteToken)
	assert.True(t, ok)

	added, err := client.AddIntake(ctx, 250)
	require.NoError(t, err)
	assert.Equal(t, 250, added.AmountMl)

	today, err := client.TodayIntake(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1750, today.AmountMl)

	hist, err := client.History(ctx, "2026-03-01", "2026-03-07")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, 900, hist[1].AmountMl)

	badges, err := client.Badges(ctx)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.True(t, badges[0].Unlocked)

	require.NoError(t, client.Logout(ctx))
	_, err = client.Badges(ctx)
	assert.True(t, errors.Is(err, errorvalues.ErrRemote))
}

func TestClientDropsExpiredToken(t *testing.T) {
	ctx := context.Background()
	srv := fakeAPI(t, jwtservice.New("server-secret", time.Hour))
	kv := repository.NewMemoryStore()
	stale, err := jwtservice.New("server-secret", -time.Minute).GenerateToken("1", "asha")
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, repository.KeyRemoteToken, stale))

	client := remote.New(srv.URL+"/api", kv).WithHTTPClient(srv.Client())
	_, err = client.Badges(ctx)
	assert.True(t, errors.Is(err, errorvalues.ErrRemote))
	_, ok, _ := kv.Get(ctx, repository.KeyRemoteToken)
	assert.False(t, ok)
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	_, err := remote.New(url, repository.NewMemoryStore()).TodayIntake(context.Background())
	assert.True(t, errors.Is(err, errorvalues.ErrNetwork))
}
