package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"salonbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStaffService_List(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)
	directory := []models.StaffDirectoryEntry{{ID: "s1", StaffName: "Priya"}}

	t.Run("CacheHit", func(t *testing.T) {
		repo := new(mockStaffRepo)
		cache := new(mockCache)
		cache.On("GetDirectory", ctx).Return(directory, true, nil).Once()

		got, err := NewStaffService(repo, cache, &logger).List(ctx)
		require.NoError(t, err)
		assert.Equal(t, directory, got)
		repo.AssertNotCalled(t, "ListStaff", mock.Anything)
	})

	t.Run("CacheMissFillsCache", func(t *testing.T) {
		repo := new(mockStaffRepo)
		cache := new(mockCache)
		cache.On("GetDirectory", ctx).Return(nil, false, nil).Once()
		repo.On("ListStaff", ctx).Return(directory, nil).Once()
		cache.On("SetDirectory", ctx, directory).Return(nil).Once()

		got, err := NewStaffService(repo, cache, &logger).List(ctx)
		require.NoError(t, err)
		assert.Equal(t, directory, got)
		cache.AssertExpectations(t)
	})

	t.Run("CacheErrorFallsThrough", func(t *testing.T) {
		repo := new(mockStaffRepo)
		cache := new(mockCache)
		cache.On("GetDirectory", ctx).Return(nil, false, errors.New("redis down")).Once()
		repo.On("ListStaff", ctx).Return(directory, nil).Once()
		cache.On("SetDirectory", ctx, directory).Return(errors.New("redis down")).Once()

		got, err := NewStaffService(repo, cache, &logger).List(ctx)
		require.NoError(t, err)
		assert.Equal(t, directory, got)
	})

	t.Run("NoCache", func(t *testing.T) {
		repo := new(mockStaffRepo)
		repo.On("ListStaff", ctx).Return(nil, errors.New("db down")).Once()

		_, err := NewStaffService(repo, nil, &logger).List(ctx)
		assert.Error(t, err)
	})
}

func TestStaffService_Upsert(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	t.Run("Success", func(t *testing.T) {
		repo := new(mockStaffRepo)
		cache := new(mockCache)
		repo.On("UpsertStaff", ctx, mock.AnythingOfType("*models.StaffDirectoryEntry")).Return(nil).Once()
		cache.On("InvalidateDirectory", ctx).Return(nil).Once()

		entry := &models.StaffDirectoryEntry{StaffName: " Priya ", Email: "priya@salon.test", Status: "Busy"}
		require.NoError(t, NewStaffService(repo, cache, &logger).Upsert(ctx, entry))
		assert.Equal(t, "Priya", entry.StaffName)
		assert.Equal(t, models.StaffBusy, entry.Status)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("Validation", func(t *testing.T) {
		repo := new(mockStaffRepo)
		svc := NewStaffService(repo, nil, &logger)

		cases := []*models.StaffDirectoryEntry{
			nil,
			{Email: "priya@salon.test"},
			{StaffName: "Priya", Email: "not-an-email"},
			{StaffName: "Priya", Status: "on-leave"},
		}
		for _, entry := range cases {
			assert.ErrorIs(t, svc.Upsert(ctx, entry), ErrInvalidStaff)
		}
		repo.AssertNotCalled(t, "UpsertStaff", mock.Anything, mock.Anything)
	})
}
