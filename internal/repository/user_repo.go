package repository

import (
	"context"

	"VidTube/internal/model"

	"gorm.io/gorm"
)

// 用户仓库：账号资料 + 凭证字段的读写
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID uint64) (*model.User, error)
	FindByIDs(ctx context.Context, userIDs []uint64) ([]model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// 用户名或邮箱任意一个匹配即可，空字符串的条件会被忽略
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)

	UpdateRefreshToken(ctx context.Context, userID uint64, refreshToken string) error
	UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error
	UpdateAccount(ctx context.Context, userID uint64, fullName, email string) error
	UpdateAvatar(ctx context.Context, userID uint64, avatar model.Asset) error
	UpdateCoverImage(ctx context.Context, userID uint64, cover model.Asset) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "用户不存在")
}

func (r *userRepository) FindByID(ctx context.Context, userID uint64) (*model.User, error) {
	var result model.User
	if err := r.db.WithContext(ctx).First(&result, userID).Error; err != nil {
		return nil, translate(err, "用户不存在")
	}
	return &result, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, userIDs []uint64) ([]model.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error
	return users, translate(err, "用户不存在")
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var result model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&result).Error; err != nil {
		return nil, translate(err, "用户不存在")
	}
	return &result, nil
}

func (r *userRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	q := r.db.WithContext(ctx)
	switch {
	case username != "" && email != "":
		q = q.Where("username = ? OR email = ?", username, email)
	case username != "":
		q = q.Where("username = ?", username)
	case email != "":
		q = q.Where("email = ?", email)
	default:
		return nil, translate(gorm.ErrRecordNotFound, "用户不存在")
	}
	var result model.User
	if err := q.First(&result).Error; err != nil {
		return nil, translate(err, "用户不存在")
	}
	return &result, nil
}

// UpdateColumn 不触发钩子也不更新updated_at，只改这一列
func (r *userRepository) UpdateRefreshToken(ctx context.Context, userID uint64, refreshToken string) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("refresh_token", refreshToken).Error
	return translate(err, "用户不存在")
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error {
	return r.updates(ctx, userID, map[string]interface{}{"password": passwordHash})
}

func (r *userRepository) UpdateAccount(ctx context.Context, userID uint64, fullName, email string) error {
	return r.updates(ctx, userID, map[string]interface{}{"full_name": fullName, "email": email})
}

func (r *userRepository) UpdateAvatar(ctx context.Context, userID uint64, avatar model.Asset) error {
	return r.updates(ctx, userID, map[string]interface{}{
		"avatar_public_id": avatar.PublicID,
		"avatar_url":       avatar.URL,
	})
}

func (r *userRepository) UpdateCoverImage(ctx context.Context, userID uint64, cover model.Asset) error {
	return r.updates(ctx, userID, map[string]interface{}{
		"cover_image_public_id": cover.PublicID,
		"cover_image_url":       cover.URL,
	})
}

func (r *userRepository) updates(ctx context.Context, userID uint64, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(fields)
	if result.Error != nil {
		return translate(result.Error, "用户不存在")
	}
	return nil
}
