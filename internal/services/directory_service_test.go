package services

import (
	"context"
	"errors"
	"testing"

	"relax_backend/internal/dto"
	"relax_backend/internal/models"
	"relax_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDirectoryRepo struct {
	repositories.DirectoryRepository

	employees []models.EmployeeProfile
}

func (s *stubDirectoryRepo) ListEmployees(city string, limit, offset int) ([]models.EmployeeProfile, error) {
	return append([]models.EmployeeProfile(nil), s.employees...), nil
}

type stubBoostedLister struct {
	ids []string
	err error
}

func (s *stubBoostedLister) BoostedEntityIDs(context.Context, models.VIPTier) ([]string, error) {
	return s.ids, s.err
}

func employee(id string) models.EmployeeProfile {
	p := models.EmployeeProfile{Name: "profile " + id, City: "Алматы"}
	p.ID = id
	return p
}

func TestListEmployeesBoostedFirst(t *testing.T) {
	repo := &stubDirectoryRepo{employees: []models.EmployeeProfile{
		employee("a"), employee("b"), employee("c"), employee("d"),
	}}
	svc := NewDirectoryService(repo, &stubBoostedLister{ids: []string{"c", "a"}})

	out, err := svc.ListEmployees(context.Background(), dto.DirectoryListCriteria{})
	require.NoError(t, err)
	require.Len(t, out, 4)

	// VIP поднимаются наверх, порядок внутри групп сохраняется
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
	assert.Equal(t, "b", out[2].ID)
	assert.Equal(t, "d", out[3].ID)
}

func TestListEmployeesSurvivesBoostFailure(t *testing.T) {
	repo := &stubDirectoryRepo{employees: []models.EmployeeProfile{
		employee("a"), employee("b"),
	}}
	svc := NewDirectoryService(repo, &stubBoostedLister{err: errors.New("redis down")})

	out, err := svc.ListEmployees(context.Background(), dto.DirectoryListCriteria{})
	require.NoError(t, err)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
}

func TestListEmployeesNoBoostSource(t *testing.T) {
	repo := &stubDirectoryRepo{employees: []models.EmployeeProfile{employee("a")}}
	svc := NewDirectoryService(repo, nil)

	out, err := svc.ListEmployees(context.Background(), dto.DirectoryListCriteria{})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
