package service

import (
	"context"
	"study_tracker/internal/model"
	"study_tracker/internal/repository"
	"study_tracker/internal/util"
	"study_tracker/pkg/lock"
	"study_tracker/pkg/logger"

	"go.uber.org/zap"
)

// UserService 注册、列表与摘要查询
type UserService struct {
	UserRepo *repository.UserRepository
	Locker   lock.Locker
}

func NewUserService(userRepo *repository.UserRepository, locker lock.Locker) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Locker:   locker,
	}
}

// Register 创建初始档案，已存在返回 util.ErrUserExists
func (s *UserService) Register(ctx context.Context, userID string) (*model.UserRecord, error) {
	if err := util.ValidateUserID(userID); err != nil {
		return nil, err
	}

	unlock, err := s.Locker.Lock(ctx, userID)
	if err != nil {
		return nil, util.WrapCollaborator(util.CollaboratorLockStore, err)
	}
	defer unlock()

	record, err := s.UserRepo.Create(ctx, userID)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("User registered", zap.String("user_id", userID))
	return record, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]string, error) {
	return s.UserRepo.ListIDs(ctx)
}

// GetSummary 用户不存在返回 util.ErrUserNotFound，非法 user_id 不可能有档案，同样视为不存在
func (s *UserService) GetSummary(ctx context.Context, userID string) (*model.SummaryView, error) {
	if err := util.ValidateUserID(userID); err != nil {
		return nil, util.ErrUserNotFound
	}

	record, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildSummary(record), nil
}
