package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"salonbook/internal/domain"
	"salonbook/internal/models"

	"github.com/rs/zerolog"
)

// StaffService fronts the staff directory with an optional cache.
type StaffService struct {
	repo   domain.StaffRepository
	cache  domain.DirectoryCache
	logger *zerolog.Logger
}

func NewStaffService(repo domain.StaffRepository, cache domain.DirectoryCache, logger *zerolog.Logger) *StaffService {
	return &StaffService{repo: repo, cache: cache, logger: logger}
}

// List returns the directory, served from the cache when possible. Cache
// failures are logged and fall through to the store.
func (s *StaffService) List(ctx context.Context) ([]models.StaffDirectoryEntry, error) {
	if s.cache != nil {
		entries, found, err := s.cache.GetDirectory(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("staff directory cache read failed")
		} else if found {
			return entries, nil
		}
	}

	entries, err := s.repo.ListStaff(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetDirectory(ctx, entries); err != nil {
			s.logger.Warn().Err(err).Msg("staff directory cache write failed")
		}
	}
	return entries, nil
}

// Upsert validates and stores entry, then drops the cached directory.
func (s *StaffService) Upsert(ctx context.Context, entry *models.StaffDirectoryEntry) error {
	if err := validateStaff(entry); err != nil {
		return err
	}
	if err := s.repo.UpsertStaff(ctx, entry); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateDirectory(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("staff directory cache invalidation failed")
		}
	}
	s.logger.Info().Str("staff_id", entry.ID).Str("email", entry.Email).Msg("staff entry saved")
	return nil
}

func validateStaff(entry *models.StaffDirectoryEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: empty", ErrInvalidStaff)
	}
	entry.ID = strings.TrimSpace(entry.ID)
	entry.Email = strings.TrimSpace(entry.Email)
	entry.StaffName = strings.TrimSpace(entry.StaffName)
	entry.Status = strings.ToLower(strings.TrimSpace(entry.Status))

	if entry.StaffName == "" {
		return fmt.Errorf("%w: staff name is required", ErrInvalidStaff)
	}
	if entry.Email != "" {
		if _, err := mail.ParseAddress(entry.Email); err != nil {
			return fmt.Errorf("%w: invalid email %q", ErrInvalidStaff, entry.Email)
		}
	}
	switch entry.Status {
	case "", models.StaffActive, models.StaffBusy:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidStaff, entry.Status)
	}
	return nil
}
