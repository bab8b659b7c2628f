package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vinsolit/lendenbook/internal/core"
	"github.com/vinsolit/lendenbook/internal/model"
	"github.com/vinsolit/lendenbook/internal/repository"
)

type adminService struct {
	userRepo   repository.UserRepository
	recordRepo repository.RecordRepository
	logger     *zap.Logger
}

func NewAdminService(userRepo repository.UserRepository, recordRepo repository.RecordRepository, logger *zap.Logger) core.AdminService {
	return &adminService{
		userRepo:   userRepo,
		recordRepo: recordRepo,
		logger:     logger,
	}
}

func (s *adminService) AllRecords(ctx context.Context) ([]*model.Record, error) {
	return s.recordRepo.ListAll(ctx)
}

func (s *adminService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.List(ctx)
}

// DeleteUser removes the account and every record it owns. Protecting the
// bootstrap admin from deletion is the caller's responsibility; the store
// deletes whatever it is told to.
func (s *adminService) DeleteUser(ctx context.Context, username string) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.userRepo.Delete(ctx, username); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User deleted", zap.String("username", username))
	return nil
}
