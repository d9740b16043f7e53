package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/dearie-app/deariebot/internal/domain"
)

// ByDate lists diary entries for one calendar day.
func (c *AuthClient) ByDate(ctx context.Context, userID int64, date string) ([]domain.DiaryEntry, error) {
	q := url.Values{"date": {date}}
	var entries []domain.DiaryEntry
	if err := c.doJSON(ctx, userID, http.MethodGet, "/api/diaries?"+q.Encode(), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ByMonth lists diary entries for one month (yearMonth in MonthLayout).
func (c *AuthClient) ByMonth(ctx context.Context, userID int64, yearMonth string) ([]domain.DiaryEntry, error) {
	q := url.Values{"yearMonth": {yearMonth}}
	var entries []domain.DiaryEntry
	if err := c.doJSON(ctx, userID, http.MethodGet, "/api/diaries?"+q.Encode(), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// DayCounts returns the per-day entry counts used to mark the calendar.
func (c *AuthClient) DayCounts(ctx context.Context, userID int64, yearMonth string) ([]domain.DayCount, error) {
	q := url.Values{"yearMonth": {yearMonth}}
	var counts []domain.DayCount
	if err := c.doJSON(ctx, userID, http.MethodGet, "/api/diaries/calendar?"+q.Encode(), nil, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// MoodCounts returns the monthly mood distribution for analytics.
func (c *AuthClient) MoodCounts(ctx context.Context, userID int64, yearMonth string) ([]domain.MoodCount, error) {
	q := url.Values{"yearMonth": {yearMonth}}
	var counts []domain.MoodCount
	if err := c.doJSON(ctx, userID, http.MethodGet, "/api/diaries/stats?"+q.Encode(), nil, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// Entry fetches one diary entry by id.
func (c *AuthClient) Entry(ctx context.Context, userID, entryID int64) (*domain.DiaryEntry, error) {
	var entry domain.DiaryEntry
	path := fmt.Sprintf("/api/diaries/%d", entryID)
	if err := c.doJSON(ctx, userID, http.MethodGet, path, nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ImageUpload is an optional photo attachment for a diary entry.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// DiaryDraft is the writable part of an entry. Image may be nil.
type DiaryDraft struct {
	Date    string
	Mood    domain.Mood
	Content string
	Image   *ImageUpload
}

// CreateEntry writes a new diary entry. The body is a multipart form so an
// image can ride along; the multipart boundary content type replaces the
// default JSON header.
func (c *AuthClient) CreateEntry(ctx context.Context, userID int64, draft DiaryDraft) (*domain.DiaryEntry, error) {
	contentType, payload, err := encodeDraft(draft)
	if err != nil {
		return nil, err
	}
	var entry domain.DiaryEntry
	if err := c.do(ctx, userID, http.MethodPost, "/api/diaries", contentType, payload, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateEntry rewrites an existing entry.
func (c *AuthClient) UpdateEntry(ctx context.Context, userID, entryID int64, draft DiaryDraft) (*domain.DiaryEntry, error) {
	contentType, payload, err := encodeDraft(draft)
	if err != nil {
		return nil, err
	}
	var entry domain.DiaryEntry
	path := fmt.Sprintf("/api/diaries/%d", entryID)
	if err := c.do(ctx, userID, http.MethodPatch, path, contentType, payload, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry removes an entry permanently.
func (c *AuthClient) DeleteEntry(ctx context.Context, userID, entryID int64) error {
	path := fmt.Sprintf("/api/diaries/%d", entryID)
	return c.doJSON(ctx, userID, http.MethodDelete, path, nil, nil)
}

func encodeDraft(draft DiaryDraft) (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("date", draft.Date); err != nil {
		return "", nil, fmt.Errorf("encode date: %w", err)
	}
	if err := w.WriteField("mood", string(draft.Mood)); err != nil {
		return "", nil, fmt.Errorf("encode mood: %w", err)
	}
	if err := w.WriteField("content", draft.Content); err != nil {
		return "", nil, fmt.Errorf("encode content: %w", err)
	}

	if draft.Image != nil {
		part, err := w.CreateFormFile("image", draft.Image.Filename)
		if err != nil {
			return "", nil, fmt.Errorf("encode image: %w", err)
		}
		if _, err := part.Write(draft.Image.Data); err != nil {
			return "", nil, fmt.Errorf("encode image: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("close form: %w", err)
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}
