package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namstudio/NAM-AppointmentService/internal/domain"
	svcRepo "github.com/namstudio/NAM-AppointmentService/internal/infra/storage/service"
)

type fakeRepo struct {
	services []*domain.Service
	err      error
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.services {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, svcRepo.ErrServiceNotFound
}

func (f *fakeRepo) ListActive(_ context.Context) ([]*domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.services, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestGetByID(t *testing.T) {
	repo := &fakeRepo{services: []*domain.Service{
		{ID: 3, Name: "Limpeza de Pele", Price: 120, DurationMinutes: 60, Active: true},
	}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Limpeza de Pele", resp.Name)
	assert.Equal(t, 120.0, resp.Price)

	_, err = svc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestGetByID_RepositoryError(t *testing.T) {
	svc := NewService(&fakeRepo{err: errors.New("connection refused")}, nopLogger{})

	_, err := svc.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestListActive(t *testing.T) {
	repo := &fakeRepo{services: []*domain.Service{
		{ID: 1, Name: "Peeling Químico", Category: "Renovação", Active: true},
		{ID: 7, Name: "Skinbooster", Category: "Hidratação", Active: true},
	}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Services, 2)
}
