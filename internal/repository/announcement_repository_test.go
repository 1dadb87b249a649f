package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-sports/site-api/internal/models"
)

var announcementCols = []string{"id", "title", "slug", "content", "excerpt", "image_url", "program_id", "is_published", "is_pinned",
	"publish_at", "expires_at", "created_at", "updated_at", "program_ref_id", "program_name", "program_slug"}

func TestAnnouncementRepositoryListVisible(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(announcementCols).
		AddRow("a1", "Registration opens", "registration-opens", "**Soon**", nil, nil, nil, true, true, nil, nil, now, now, nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.is_published = TRUE AND (a.publish_at IS NULL OR a.publish_at <= $1) AND (a.expires_at IS NULL OR a.expires_at > $1) ORDER BY a.is_pinned DESC, a.created_at DESC, a.id ASC LIMIT 3")).
		WithArgs(now).
		WillReturnRows(rows)

	items, err := repo.List(context.Background(), models.AnnouncementFilter{VisibleAt: &now, Limit: 3})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsPinned)
	assert.Nil(t, items[0].Program)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryListPublished(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)
	rows := sqlmock.NewRows(announcementCols).
		AddRow("a1", "Camp", "camp", "x", nil, nil, nil, true, false, later, nil, now, now, nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.is_published = TRUE ORDER BY a.is_pinned DESC, a.created_at DESC, a.id ASC")).
		WillReturnRows(rows)

	items, err := repo.List(context.Background(), models.AnnouncementFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].PublishAt)
	assert.True(t, items[0].PublishAt.Equal(later))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(announcementCols).
		AddRow("a1", "Draft", "draft", "x", nil, nil, "p1", false, false, nil, nil, now, now, "p1", "Soccer", "soccer")
	mock.ExpectQuery(regexp.QuoteMeta("ON p.id = a.program_id ORDER BY a.created_at DESC, a.id ASC")).WillReturnRows(rows)

	items, err := repo.List(context.Background(), models.AnnouncementFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Program)
	assert.Equal(t, "Soccer", items[0].Program.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryCreateAndDelete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectExec("INSERT INTO announcements").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM announcements").WithArgs("a1").WillReturnResult(sqlmock.NewResult(0, 1))

	ann := &models.Announcement{Title: "t", Slug: "t", Content: "c"}
	require.NoError(t, repo.Create(context.Background(), ann))
	require.NoError(t, repo.Delete(context.Background(), "a1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
