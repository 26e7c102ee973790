package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"study_tracker/internal/model"
	"study_tracker/internal/util"
)

// UserRepository 读写用户档案，只做整份文档的存取
type UserRepository struct {
	Backend RecordBackend
}

func NewUserRepository(backend RecordBackend) *UserRepository {
	return &UserRepository{Backend: backend}
}

func (r *UserRepository) Exists(ctx context.Context, userID string) (bool, error) {
	ok, err := r.Backend.Exists(ctx, userID)
	if err != nil {
		return false, util.WrapCollaborator(util.CollaboratorStorage, err)
	}
	return ok, nil
}

// FindByID 用户不存在时返回 util.ErrUserNotFound
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*model.UserRecord, error) {
	data, err := r.Backend.Read(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, util.WrapCollaborator(util.CollaboratorStorage, err)
	}

	var record model.UserRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, util.WrapCollaborator(util.CollaboratorStorage, fmt.Errorf("decode record %s: %w", userID, err))
	}
	if record.UserID == "" {
		record.UserID = userID
	}
	record.Normalize()
	return &record, nil
}

// Save 整份覆盖写入
func (r *UserRepository) Save(ctx context.Context, record *model.UserRecord) error {
	record.Normalize()
	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return err
	}
	if err := r.Backend.Write(ctx, record.UserID, data); err != nil {
		return util.WrapCollaborator(util.CollaboratorStorage, err)
	}
	return nil
}

// Create 注册新用户，已存在时返回 util.ErrUserExists
func (r *UserRepository) Create(ctx context.Context, userID string) (*model.UserRecord, error) {
	exists, err := r.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrUserExists
	}

	record := model.NewUserRecord(userID)
	if err := r.Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// GetOrCreate 读取用户档案，不存在时写入一份初始档案。created 表示本次是否新建
func (r *UserRepository) GetOrCreate(ctx context.Context, userID string) (record *model.UserRecord, created bool, err error) {
	record, err = r.FindByID(ctx, userID)
	if err == nil {
		return record, false, nil
	}
	if !errors.Is(err, util.ErrUserNotFound) {
		return nil, false, err
	}

	record = model.NewUserRecord(userID)
	if err := r.Save(ctx, record); err != nil {
		return nil, false, err
	}
	return record, true, nil
}

func (r *UserRepository) ListIDs(ctx context.Context) ([]string, error) {
	ids, err := r.Backend.Keys(ctx)
	if err != nil {
		return nil, util.WrapCollaborator(util.CollaboratorStorage, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.Backend.Ping(ctx)
}
