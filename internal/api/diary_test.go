package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dearie-app/deariebot/internal/api"
	"github.com/dearie-app/deariebot/internal/domain"
)

func TestCreateEntrySendsMultipartForm(t *testing.T) {
	image := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/diaries", r.URL.Path)
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary="))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "2026-08-29", r.FormValue("date"))
		require.Equal(t, "HAPPY", r.FormValue("mood"))
		require.Equal(t, "walked by the river", r.FormValue("content"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "river.jpg", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, image, data)

		writeEnvelope(t, w, "S000", "", domain.DiaryEntry{
			ID:      101,
			Date:    "2026-08-29",
			Mood:    domain.MoodHappy,
			Content: "walked by the river",
		})
	}))
	defer srv.Close()

	sessions, _ := newLoggedInStore(t, "AT1", "RT1")
	authed := api.NewAuthClient(api.New(srv.URL, 2*time.Second), sessions)

	entry, err := authed.CreateEntry(context.Background(), testUserID, api.DiaryDraft{
		Date:    "2026-08-29",
		Mood:    domain.MoodHappy,
		Content: "walked by the river",
		Image:   &api.ImageUpload{Filename: "river.jpg", Data: image},
	})
	require.NoError(t, err)
	require.EqualValues(t, 101, entry.ID)
	require.Equal(t, domain.MoodHappy, entry.Mood)
}

func TestCreateEntryWithoutImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("image")
		require.Error(t, err)
		writeEnvelope(t, w, "S000", "", domain.DiaryEntry{ID: 102, Date: "2026-08-29", Mood: domain.MoodCalm})
	}))
	defer srv.Close()

	sessions, _ := newLoggedInStore(t, "AT1", "RT1")
	authed := api.NewAuthClient(api.New(srv.URL, 2*time.Second), sessions)

	entry, err := authed.CreateEntry(context.Background(), testUserID, api.DiaryDraft{
		Date: "2026-08-29",
		Mood: domain.MoodCalm,
	})
	require.NoError(t, err)
	require.EqualValues(t, 102, entry.ID)
}

func TestDayCountsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/diaries/calendar", r.URL.Path)
		require.Equal(t, "2026-08", r.URL.Query().Get("yearMonth"))
		writeEnvelope(t, w, "S000", "", []domain.DayCount{
			{Date: "2026-08-01", Count: 2},
			{Date: "2026-08-15", Count: 1},
		})
	}))
	defer srv.Close()

	sessions, _ := newLoggedInStore(t, "AT1", "RT1")
	authed := api.NewAuthClient(api.New(srv.URL, 2*time.Second), sessions)

	counts, err := authed.DayCounts(context.Background(), testUserID, "2026-08")
	require.NoError(t, err)
	require.Len(t, counts, 2)
	require.Equal(t, 2, counts[0].Count)
}
