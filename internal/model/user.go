package model

// User同时承载账号资料和凭证字段（密码哈希、当前的refresh token）
type User struct {
	BaseModel        // 包括 ID, CreatedAt, UpdatedAt, DeleteAt
	Username  string `gorm:"size:64;uniqueIndex;not null"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	FullName  string `gorm:"size:128;index;not null"`
	Password  string `gorm:"not null" json:"-"`

	Avatar     Asset `gorm:"embedded;embeddedPrefix:avatar_"`
	CoverImage Asset `gorm:"embedded;embeddedPrefix:cover_image_"`

	// 单会话：同一时刻最多一个有效的refresh token，空字符串表示没有会话
	RefreshToken string `gorm:"type:text" json:"-"`
}

func (User) TableName() string {
	return "users"
}
