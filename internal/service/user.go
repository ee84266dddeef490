package service

import (
	"context"
	"errors"
	"strings"

	"VidTube/internal/apperr"
	"VidTube/internal/auth"
	"VidTube/internal/model"
	"VidTube/internal/repository"
	"VidTube/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	FullName string
	Email    string
	Username string
	Password string
	// 本地临时文件路径，可以为空
	AvatarPath     string
	CoverImagePath string
}

type LoginResult struct {
	User   *model.User
	Tokens auth.TokenPair
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	// username和email提供一个即可
	Login(ctx context.Context, username, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, identity auth.Identity) error
	RefreshToken(ctx context.Context, refreshToken string) (auth.TokenPair, error)
	ChangePassword(ctx context.Context, identity auth.Identity, oldPassword, newPassword string) error

	GetCurrentUser(ctx context.Context, identity auth.Identity) (*model.User, error)
	UpdateAccount(ctx context.Context, identity auth.Identity, fullName, email string) (*model.User, error)
	UpdateAvatar(ctx context.Context, identity auth.Identity, localPath string) (*model.User, error)
	UpdateCoverImage(ctx context.Context, identity auth.Identity, localPath string) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	tokens   auth.TokenService
	storage  AssetStorage

	hashCost int
}

func NewUserService(userRepo repository.UserRepository, tokens auth.TokenService, storage AssetStorage) UserService {
	return &userService{
		userRepo: userRepo,
		tokens:   tokens,
		storage:  storage,
		hashCost: bcrypt.DefaultCost,
	}
}

// 注册：1、校验必填字段 2、用户名/邮箱查重 3、上传头像和封面 4、哈希密码并入库
func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FullName == "" || in.Username == "" || in.Email == "" || strings.TrimSpace(in.Password) == "" {
		return nil, apperr.Validation("所有字段都必须填写")
	}

	existing, err := s.userRepo.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	if err == nil && existing != nil {
		return nil, apperr.Conflict("用户名或邮箱已被注册")
	}
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, apperr.Internal("密码加密失败", err)
	}

	user := &model.User{
		Username: in.Username,
		Email:    in.Email,
		FullName: in.FullName,
		Password: string(hash),
	}
	if user.Avatar, err = s.upload(ctx, in.AvatarPath); err != nil {
		return nil, err
	}
	if user.CoverImage, err = s.upload(ctx, in.CoverImagePath); err != nil {
		deleteAssetQuietly(ctx, s.storage, user.Avatar)
		return nil, err
	}

	// 并发注册时查重可能漏掉，唯一索引兜底，repository会翻译成Conflict
	if err := s.userRepo.Create(ctx, user); err != nil {
		deleteAssetQuietly(ctx, s.storage, user.Avatar)
		deleteAssetQuietly(ctx, s.storage, user.CoverImage)
		return nil, err
	}
	return user, nil
}

// 登录：1、按用户名或邮箱找到用户 2、校验密码 3、签发一对token（覆盖掉旧的会话）
func (s *userService) Login(ctx context.Context, username, email, password string) (*LoginResult, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" && email == "" {
		return nil, apperr.Validation("用户名或邮箱不能为空")
	}
	if password == "" {
		return nil, apperr.Validation("密码不能为空")
	}

	user, err := s.userRepo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.Unauthenticated("用户名或密码错误")
	}

	tokens, err := s.tokens.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Tokens: tokens}, nil
}

func (s *userService) Logout(ctx context.Context, identity auth.Identity) error {
	return s.tokens.Revoke(ctx, identity.UserID)
}

func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	if refreshToken == "" {
		return auth.TokenPair{}, apperr.Unauthenticated("缺少refresh token")
	}
	return s.tokens.Rotate(ctx, refreshToken)
}

func (s *userService) ChangePassword(ctx context.Context, identity auth.Identity, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return apperr.Validation("新密码不能为空")
	}
	user, err := s.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperr.Unauthenticated("原密码错误")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.hashCost)
	if err != nil {
		return apperr.Internal("密码加密失败", err)
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, string(hash))
}

func (s *userService) GetCurrentUser(ctx context.Context, identity auth.Identity) (*model.User, error) {
	return s.userRepo.FindByID(ctx, identity.UserID)
}

func (s *userService) UpdateAccount(ctx context.Context, identity auth.Identity, fullName, email string) (*model.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" {
		return nil, apperr.Validation("姓名和邮箱都必须填写")
	}
	if err := s.userRepo.UpdateAccount(ctx, identity.UserID, fullName, email); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, identity.UserID)
}

func (s *userService) UpdateAvatar(ctx context.Context, identity auth.Identity, localPath string) (*model.User, error) {
	return s.replaceAsset(ctx, identity, localPath, "头像文件不能为空",
		func(u *model.User) model.Asset { return u.Avatar },
		s.userRepo.UpdateAvatar)
}

func (s *userService) UpdateCoverImage(ctx context.Context, identity auth.Identity, localPath string) (*model.User, error) {
	return s.replaceAsset(ctx, identity, localPath, "封面文件不能为空",
		func(u *model.User) model.Asset { return u.CoverImage },
		s.userRepo.UpdateCoverImage)
}

// 替换头像/封面：1、上传新文件 2、写库 3、写库成功后再尽力删除旧文件，删除失败不影响结果
func (s *userService) replaceAsset(
	ctx context.Context,
	identity auth.Identity,
	localPath, missingMsg string,
	current func(*model.User) model.Asset,
	save func(ctx context.Context, userID uint64, asset model.Asset) error,
) (*model.User, error) {
	if localPath == "" {
		return nil, apperr.Validation(missingMsg)
	}
	user, err := s.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	old := current(user)

	asset, err := s.upload(ctx, localPath)
	if err != nil {
		return nil, err
	}
	if err := save(ctx, user.ID, asset); err != nil {
		deleteAssetQuietly(ctx, s.storage, asset)
		return nil, err
	}
	deleteAssetQuietly(ctx, s.storage, old)

	updated, err := s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	logger.Log.WithField("user_id", user.ID).Info("用户文件已替换")
	return updated, nil
}

// 空路径表示没有上传，返回空Asset
func (s *userService) upload(ctx context.Context, localPath string) (model.Asset, error) {
	if localPath == "" {
		return model.Asset{}, nil
	}
	if s.storage == nil {
		return model.Asset{}, apperr.Internal("对象存储未配置", nil)
	}
	asset, err := s.storage.Upload(ctx, localPath)
	if err != nil {
		return model.Asset{}, apperr.Internal("文件上传失败", err)
	}
	return asset, nil
}
