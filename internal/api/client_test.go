package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dearie-app/deariebot/internal/api"
	"github.com/dearie-app/deariebot/internal/domain"
	"github.com/dearie-app/deariebot/internal/store"
	"github.com/dearie-app/deariebot/internal/store/storefakes"
)

const testUserID int64 = 42

func writeEnvelope(t *testing.T, w http.ResponseWriter, code, message string, result any) {
	t.Helper()
	var raw json.RawMessage
	if result != nil {
		b, err := json.Marshal(result)
		require.NoError(t, err)
		raw = b
	}
	err := json.NewEncoder(w).Encode(map[string]any{
		"code":    code,
		"message": message,
		"result":  raw,
	})
	require.NoError(t, err)
}

func newLoggedInStore(t *testing.T, access, refresh string) (*store.SessionStore, *storefakes.FakeStorage) {
	t.Helper()
	storage := storefakes.New()
	sessions := store.NewSessionStore(storage)
	err := sessions.Login(context.Background(), testUserID, access, refresh, &domain.Member{
		ID:       7,
		Email:    "sun@example.com",
		Nickname: "sun",
	})
	require.NoError(t, err)
	return sessions, storage
}

func TestLoginDecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "sun@example.com", req["email"])

		writeEnvelope(t, w, "S000", "", api.LoginResult{
			AccessToken:  "AT1",
			RefreshToken: "RT1",
			Member:       domain.Member{ID: 7, Nickname: "sun", BuddyType: domain.BuddyCat, BuddyName: "Mochi"},
		})
	}))
	defer srv.Close()

	client := api.New(srv.URL, 2*time.Second)
	res, err := client.Login(context.Background(), "sun@example.com", "secret-pass")
	require.NoError(t, err)
	require.Equal(t, "AT1", res.AccessToken)
	require.Equal(t, "RT1", res.RefreshToken)
	require.Equal(t, "Mochi", res.Member.BuddyName)
}

func TestLoginFailureCarriesBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeEnvelope(t, w, "A001", "Wrong email or password.", nil)
	}))
	defer srv.Close()

	client := api.New(srv.URL, 2*time.Second)
	_, err := client.Login(context.Background(), "sun@example.com", "nope")
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "A001", apiErr.Code)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "Wrong email or password.", api.UserMessage(err))
}

func TestUserMessageFallback(t *testing.T) {
	require.Equal(t, "Something went wrong. Please try again.", api.UserMessage(fmt.Errorf("dial tcp: refused")))
}

func TestAuthedRequestAttachesBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(t, w, "S000", "", domain.Member{ID: 7, Nickname: "sun"})
	}))
	defer srv.Close()

	sessions, _ := newLoggedInStore(t, "AT1", "RT1")
	authed := api.NewAuthClient(api.New(srv.URL, 2*time.Second), sessions)

	member, err := authed.Me(context.Background(), testUserID)
	require.NoError(t, err)
	require.Equal(t, "sun", member.Nickname)
	require.Equal(t, "Bearer AT1", gotAuth)
}

func TestAuthedRequestWithoutLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be sent when logged out")
	}))
	defer srv.Close()

	sessions := store.NewSessionStore(storefakes.New())
	authed := api.NewAuthClient(api.New(srv.URL, 2*time.Second), sessions)

	_, err := authed.Me(context.Background(), testUserID)
	require.ErrorIs(t, err, domain.ErrNotLoggedIn)
}

func TestExpiredTokenIsReissuedAndRetriedOnce(t *testing.T) {
	var meCalls, reissueCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/members/me":
			meCalls.Add(1)
			if r.Header.Get("Authorization") == "Bearer AT1" {
				w.WriteHeader(http.StatusUnauthorized)
				writeEnvelope(t, w, "T002", "Access token expired.", nil)
				return
			}
			require.Equal(t, "Bearer AT2", r.Header.Get("Authorization"))
			writeEnvelope(t, w, "S000", "", domain.Member{ID: 7, Nickname: "sun"})
		case "/api/auth/reissue":
			reissueCalls.Add(1)
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "RT1", req["refreshToken"])
			writeEnvelope(t, w, "S000", "", api.TokenPair{AccessToken: "AT2", RefreshToken: "RT2"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	sessions, storage := newLoggedInStore(t, "AT1", "RT1")
	authed := api.NewAuthClient(api.New(srv.URL, 2*time.Second), sessions)

	member, err := authed.Me(context.Background(), testUserID)
	require.NoError(t, err)
	require.Equal(t, "sun", member.Nickname)
	require.EqualValues(t, 2, meCalls.Load())
	require.EqualValues(t, 1, reissueCalls.Load())

	// The rotated pair replaced the old one, in memory and on disk.
	access, err := sessions.AccessToken(context.Background(), testUserID)
	require.NoError(t, err)
	require.Equal(t, "AT2", access)
	stored := storage.StoredSession(testUserID)
	require.NotNil(t, stored)
	require.Equal(t, "AT2", stored.AccessToken)
	require.Equal(t, "RT2", stored.RefreshToken)
}

func TestFailedReissueTerminatesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/members/me":
			w.WriteHeader(http.StatusUnauthorized)
			writeEnvelope(t, w, "T001", "Invalid token.", nil)
		case "/api/auth/reissue":
			w.WriteHeader(http.StatusUnauthorized)
			writeEnvelope(t, w, "A002", "Refresh token revoked.", nil)
		}
	}))
	defer srv.Close()

	sessions, storage := newLoggedInStore(t, "AT1", "RT1")
	var terminated atomic.Int64
	sessions.SetTerminatedHandler(func(telegramID int64) { terminated.Store(telegramID) })

	authed := api.NewAuthClient(api.New(srv.URL, 2*time.Second), sessions)

	_, err := authed.Me(context.Background(), testUserID)
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "A002", apiErr.Code)

	require.False(t, sessions.IsLoggedIn(context.Background(), testUserID))
	require.False(t, storage.HasSession(testUserID))
	require.Equal(t, testUserID, terminated.Load())
}

func TestExpiryAfterReissueIsNotRetriedAgain(t *testing.T) {
	var meCalls, reissueCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/members/me":
			meCalls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			writeEnvelope(t, w, "T002", "Access token expired.", nil)
		case "/api/auth/reissue":
			reissueCalls.Add(1)
			writeEnvelope(t, w, "S000", "", api.TokenPair{AccessToken: "AT2", RefreshToken: "RT2"})
		}
	}))
	defer srv.Close()

	sessions, _ := newLoggedInStore(t, "AT1", "RT1")
	authed := api.NewAuthClient(api.New(srv.URL, 2*time.Second), sessions)

	_, err := authed.Me(context.Background(), testUserID)
	require.Error(t, err)
	require.True(t, api.IsTokenExpired(err))

	// One original send, one reissue, one retry. Never a second loop.
	require.EqualValues(t, 2, meCalls.Load())
	require.EqualValues(t, 1, reissueCalls.Load())
}

func TestConcurrentExpiriesShareOneReissue(t *testing.T) {
	const workers = 8

	var reissueCalls atomic.Int32
	var expired sync.WaitGroup
	expired.Add(workers)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/members/me":
			if r.Header.Get("Authorization") == "Bearer AT1" {
				w.WriteHeader(http.StatusUnauthorized)
				writeEnvelope(t, w, "T002", "Access token expired.", nil)
				expired.Done()
				return
			}
			writeEnvelope(t, w, "S000", "", domain.Member{ID: 7, Nickname: "sun"})
		case "/api/auth/reissue":
			// Hold the reissue until every worker has seen the expiry
			// and had time to join the in-flight call.
			expired.Wait()
			time.Sleep(100 * time.Millisecond)
			reissueCalls.Add(1)
			writeEnvelope(t, w, "S000", "", api.TokenPair{AccessToken: "AT2", RefreshToken: "RT2"})
		}
	}))
	defer srv.Close()

	sessions, _ := newLoggedInStore(t, "AT1", "RT1")
	authed := api.NewAuthClient(api.New(srv.URL, 10*time.Second), sessions)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = authed.Me(context.Background(), testUserID)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}
	require.EqualValues(t, 1, reissueCalls.Load())
}

func TestCancelledCallerDoesNotFailSharedReissue(t *testing.T) {
	var reissueCalls atomic.Int32
	reissueEntered := make(chan struct{})
	release := make(chan struct{})

	var expired sync.WaitGroup
	expired.Add(2)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/members/me":
			if r.Header.Get("Authorization") == "Bearer AT1" {
				w.WriteHeader(http.StatusUnauthorized)
				writeEnvelope(t, w, "T002", "Access token expired.", nil)
				expired.Done()
				return
			}
			writeEnvelope(t, w, "S000", "", domain.Member{ID: 7, Nickname: "sun"})
		case "/api/auth/reissue":
			if reissueCalls.Add(1) == 1 {
				close(reissueEntered)
			}
			<-release
			writeEnvelope(t, w, "S000", "", api.TokenPair{AccessToken: "AT2", RefreshToken: "RT2"})
		}
	}))
	defer srv.Close()

	sessions, storage := newLoggedInStore(t, "AT1", "RT1")
	authed := api.NewAuthClient(api.New(srv.URL, 10*time.Second), sessions)

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	var wg sync.WaitGroup
	var errA, errB error
	var memberB *domain.Member

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errA = authed.Me(ctxA, testUserID)
	}()
	<-reissueEntered

	wg.Add(1)
	go func() {
		defer wg.Done()
		memberB, errB = authed.Me(context.Background(), testUserID)
	}()
	expired.Wait()
	time.Sleep(100 * time.Millisecond)

	// The first caller dies mid-reissue; the shared call must survive it.
	cancelA()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.ErrorIs(t, errA, context.Canceled)
	require.NoError(t, errB)
	require.Equal(t, "sun", memberB.Nickname)
	require.EqualValues(t, 1, reissueCalls.Load())

	stored := storage.StoredSession(testUserID)
	require.NotNil(t, stored)
	require.Equal(t, "AT2", stored.AccessToken)
	require.Equal(t, "RT2", stored.RefreshToken)
}
