package auth

import (
	"VidTube/internal/apperr"
	"VidTube/internal/model"
)

// Identity 是通过认证的调用者，由中间件解析出来，再显式传给每一个service方法
type Identity struct {
	UserID   uint64
	Username string
	Email    string
	FullName string
}

func IdentityFromUser(u *model.User) Identity {
	return Identity{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
	}
}

// RequireOwner 资源的所有者必须是调用者本人，任何修改操作之前都要先检查
func RequireOwner(ownerID uint64, identity Identity) error {
	if identity.UserID == 0 || ownerID != identity.UserID {
		return apperr.Forbidden("无权操作该资源，只有所有者可以修改")
	}
	return nil
}
