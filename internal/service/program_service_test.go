package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-sports/site-api/internal/dto"
	"github.com/atlas-sports/site-api/internal/models"
	appErrors "github.com/atlas-sports/site-api/pkg/errors"
)

type staticBanner models.RegistrationStatus

func (b staticBanner) RegistrationStatus(ctx context.Context) models.RegistrationStatus {
	return models.RegistrationStatus(b)
}

func seedPrograms() *mockProgramRepo {
	return newMockProgramRepo(
		models.Program{ID: "a", Name: "Flag Football", Slug: "flag-football", DisplayOrder: 0, IsPublished: true, RegistrationOpen: true},
		models.Program{ID: "b", Name: "Basketball", Slug: "basketball", DisplayOrder: 1, IsPublished: false},
		models.Program{ID: "c", Name: "Soccer", Slug: "soccer", DisplayOrder: 2, IsPublished: true},
	)
}

func newTestProgramService(repo *mockProgramRepo, cfg ProgramServiceConfig) *ProgramService {
	if cfg.Clock.Now == nil {
		cfg.Clock = fixedClock("2026-03-11T10:00:00Z")
	}
	return NewProgramService(repo, cfg, nil, nil)
}

func validProgramRequest() dto.ProgramRequest {
	return dto.ProgramRequest{
		Name:        "Skyhawks Flag Football",
		Slug:        "skyhawks-flag-football",
		Features:    []string{" Coaching ", "", "Jerseys"},
		WhatToBring: []string{"  "},
		Tagline:     strPtr("   "),
		IsPublished: true,
	}
}

func TestProgramServiceListPublished(t *testing.T) {
	svc := newTestProgramService(seedPrograms(), ProgramServiceConfig{})

	programs := svc.ListPublished(context.Background())
	require.Len(t, programs, 2)
	assert.Equal(t, "a", programs[0].ID)
	assert.Equal(t, "c", programs[1].ID)
}

func TestProgramServiceListPublishedDegradesOnStoreError(t *testing.T) {
	repo := seedPrograms()
	repo.listErr = errors.New("connection refused")
	svc := newTestProgramService(repo, ProgramServiceConfig{})

	programs := svc.ListPublished(context.Background())
	assert.NotNil(t, programs)
	assert.Empty(t, programs)
}

func TestProgramServiceListPublishedUsesCache(t *testing.T) {
	repo := seedPrograms()
	cache := NewCacheService(newMemoryCache(), nil, 0, nil, true)
	svc := newTestProgramService(repo, ProgramServiceConfig{Cache: cache})

	first := svc.ListPublished(context.Background())
	second := svc.ListPublished(context.Background())

	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, len(first), len(second))
}

func TestProgramServiceCreateAppendsAndCleans(t *testing.T) {
	repo := seedPrograms()
	mem := newMemoryCache()
	cache := NewCacheService(mem, nil, 0, nil, true)
	svc := newTestProgramService(repo, ProgramServiceConfig{Cache: cache, Revalidator: NewRevalidationService(cache, nil, nil)})

	program, err := svc.Create(context.Background(), validProgramRequest())
	require.NoError(t, err)
	assert.Equal(t, 3, program.DisplayOrder)
	assert.Equal(t, pq.StringArray{"Coaching", "Jerseys"}, program.Features)
	assert.Equal(t, pq.StringArray{}, program.WhatToBring)
	assert.Nil(t, program.Tagline)
	assert.Equal(t, []string{"site:"}, mem.purged)
}

func TestProgramServiceCreateRejectsBadSlug(t *testing.T) {
	svc := newTestProgramService(seedPrograms(), ProgramServiceConfig{})
	req := validProgramRequest()
	req.Slug = "Bad Slug"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "Slug must contain only lowercase letters, numbers, and hyphens", appErr.Message)
}

func TestProgramServiceCreateDuplicateSlug(t *testing.T) {
	repo := seedPrograms()
	repo.createErr = &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
	svc := newTestProgramService(repo, ProgramServiceConfig{})

	_, err := svc.Create(context.Background(), validProgramRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestProgramServiceCreateStoreFailureKeepsMessage(t *testing.T) {
	repo := seedPrograms()
	repo.createErr = errors.New("connection reset")
	svc := newTestProgramService(repo, ProgramServiceConfig{})

	_, err := svc.Create(context.Background(), validProgramRequest())
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrStore.Code, appErr.Code)
	assert.Equal(t, "failed to create program: connection reset. Please retry.", appErr.Message)
}

func TestProgramServiceUpdateKeepsDisplayOrder(t *testing.T) {
	repo := seedPrograms()
	svc := newTestProgramService(repo, ProgramServiceConfig{})
	req := validProgramRequest()

	program, err := svc.Update(context.Background(), "c", req)
	require.NoError(t, err)
	assert.Equal(t, 2, program.DisplayOrder)

	order := 0
	req.DisplayOrder = &order
	program, err = svc.Update(context.Background(), "c", req)
	require.NoError(t, err)
	assert.Equal(t, 0, program.DisplayOrder)

	_, err = svc.Update(context.Background(), "missing", req)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProgramServiceReorderWritesSequentially(t *testing.T) {
	repo := seedPrograms()
	svc := newTestProgramService(repo, ProgramServiceConfig{Metrics: NewMetricsService()})

	err := svc.Reorder(context.Background(), dto.ReorderProgramsRequest{IDs: []string{"c", "a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, repo.orderWrites)
	assert.Equal(t, 0, repo.programs["c"].DisplayOrder)
	assert.Equal(t, 1, repo.programs["a"].DisplayOrder)
	assert.Equal(t, 2, repo.programs["b"].DisplayOrder)
}

func TestProgramServiceReorderStopsAtFirstFailure(t *testing.T) {
	repo := seedPrograms()
	repo.failOrderAt = 2
	svc := newTestProgramService(repo, ProgramServiceConfig{})

	err := svc.Reorder(context.Background(), dto.ReorderProgramsRequest{IDs: []string{"c", "a", "b"}})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrStore.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Please retry")
	assert.Equal(t, []string{"c"}, repo.orderWrites)
	assert.Equal(t, 0, repo.programs["a"].DisplayOrder)
}

func TestProgramServiceReorderValidatesIDs(t *testing.T) {
	svc := newTestProgramService(seedPrograms(), ProgramServiceConfig{})

	err := svc.Reorder(context.Background(), dto.ReorderProgramsRequest{IDs: []string{"a", "a"}})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	err = svc.Reorder(context.Background(), dto.ReorderProgramsRequest{IDs: []string{"a", "ghost"}})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestProgramServiceReorderRequiresEveryProgram(t *testing.T) {
	cases := map[string][]string{
		"subset":        {"c"},
		"unknown id":    {"c", "a", "ghost"},
		"extra id":      {"c", "a", "b", "ghost"},
		"missing a row": {"b", "a"},
	}
	for name, ids := range cases {
		t.Run(name, func(t *testing.T) {
			repo := seedPrograms()
			svc := newTestProgramService(repo, ProgramServiceConfig{})

			err := svc.Reorder(context.Background(), dto.ReorderProgramsRequest{IDs: ids})
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
			assert.Equal(t, "ids must list every program exactly once", appErr.Message)
			assert.Empty(t, repo.orderWrites)
			assert.Equal(t, 0, repo.programs["a"].DisplayOrder)
			assert.Equal(t, 1, repo.programs["b"].DisplayOrder)
			assert.Equal(t, 2, repo.programs["c"].DisplayOrder)
		})
	}
}

func TestProgramServiceReorderStoreErrorLoadingOrder(t *testing.T) {
	repo := seedPrograms()
	repo.listErr = errors.New("connection refused")
	svc := newTestProgramService(repo, ProgramServiceConfig{})

	err := svc.Reorder(context.Background(), dto.ReorderProgramsRequest{IDs: []string{"c", "a", "b"}})
	assert.Equal(t, appErrors.ErrStore.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.orderWrites)
}

func TestProgramServiceConcurrentUpdatesLastWriteWins(t *testing.T) {
	repo := seedPrograms()
	svc := newTestProgramService(repo, ProgramServiceConfig{})

	first := validProgramRequest()
	first.Tagline = strPtr("Fall season")
	second := validProgramRequest()
	second.Name = "Skyhawks Flag Football League"
	second.Tagline = strPtr("Spring season")

	// two admins saved the same form; no version check, the later save wins
	_, err := svc.Update(context.Background(), "a", first)
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), "a", second)
	require.NoError(t, err)

	stored, err := svc.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Skyhawks Flag Football League", stored.Name)
	require.NotNil(t, stored.Tagline)
	assert.Equal(t, "Spring season", *stored.Tagline)
}

func TestProgramServiceMove(t *testing.T) {
	repo := seedPrograms()
	svc := newTestProgramService(repo, ProgramServiceConfig{})
	to := 2

	resp, err := svc.Move(context.Background(), dto.MoveProgramRequest{From: 0, To: &to})
	require.NoError(t, err)
	assert.Equal(t, "dropped", resp.Phase)
	assert.True(t, resp.Persisted)
	assert.Equal(t, []string{"b", "c", "a"}, resp.Order)
	assert.Equal(t, []string{"b", "c", "a"}, repo.orderWrites)
	assert.Equal(t, 2, repo.programs["a"].DisplayOrder)
}

func TestProgramServiceMoveOutsideListWritesNothing(t *testing.T) {
	repo := seedPrograms()
	svc := newTestProgramService(repo, ProgramServiceConfig{})

	resp, err := svc.Move(context.Background(), dto.MoveProgramRequest{From: 1})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Phase)
	assert.Equal(t, []string{"a", "b", "c"}, resp.Order)
	assert.Empty(t, repo.orderWrites)

	same := 1
	resp, err = svc.Move(context.Background(), dto.MoveProgramRequest{From: 1, To: &same})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Phase)
	assert.Empty(t, repo.orderWrites)
}

func TestProgramServiceMoveRollsBackOnFailure(t *testing.T) {
	repo := seedPrograms()
	repo.failOrderAt = 2
	svc := newTestProgramService(repo, ProgramServiceConfig{})
	to := 2

	resp, err := svc.Move(context.Background(), dto.MoveProgramRequest{From: 0, To: &to})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStore.Code, appErrors.FromError(err).Code)
	require.NotNil(t, resp)
	assert.True(t, resp.RolledBack)
	assert.Equal(t, []string{"a", "b", "c"}, resp.Order)
	assert.Equal(t, []string{"b"}, repo.orderWrites)
}

func TestProgramServiceMoveOutOfRange(t *testing.T) {
	svc := newTestProgramService(seedPrograms(), ProgramServiceConfig{})
	to := 9

	_, err := svc.Move(context.Background(), dto.MoveProgramRequest{From: 0, To: &to})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestProgramServiceGetPublishedBySlug(t *testing.T) {
	events := &mockEventRepo{events: []models.EventWithProgram{
		{Event: models.Event{ID: "past", StartDate: date("2026-03-01"), IsPublished: true}},
		{Event: models.Event{ID: "soon", StartDate: date("2026-03-20"), IsPublished: true, IsAllDay: true}},
	}}
	svc := newTestProgramService(seedPrograms(), ProgramServiceConfig{Events: events})

	detail, err := svc.GetPublishedBySlug(context.Background(), "flag-football")
	require.NoError(t, err)
	assert.Equal(t, "a", detail.ID)
	require.Len(t, detail.Events, 1)
	assert.Equal(t, "soon", detail.Events[0].ID)
	assert.Equal(t, "All Day", detail.Events[0].DisplayTime)
	require.NotNil(t, events.lastFilter.ProgramID)
	assert.Equal(t, "a", *events.lastFilter.ProgramID)
	assert.Equal(t, date("2026-03-11"), *events.lastFilter.WindowStart)

	_, err = svc.GetPublishedBySlug(context.Background(), "basketball")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProgramServiceRegistrationOverview(t *testing.T) {
	banner := staticBanner{IsOpen: true, OpenDate: "Now", Message: "Sign up today"}
	svc := newTestProgramService(seedPrograms(), ProgramServiceConfig{Banner: banner})

	overview := svc.RegistrationOverview(context.Background())
	assert.True(t, overview.Banner.IsOpen)
	require.Len(t, overview.Programs, 2)
	assert.True(t, overview.Programs[0].RegistrationOpen)
	assert.False(t, overview.Programs[1].RegistrationOpen)
}
