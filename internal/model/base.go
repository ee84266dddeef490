package model

import (
	"time"

	"gorm.io/gorm"
)

// gorm自带的Model中ID是uint类型，统一成uint64，所以自己定义了base结构体
type BaseModel struct {
	ID        uint64 `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Asset 是存放在对象存储中的一个文件，PublicID用于删除，URL用于展示
type Asset struct {
	PublicID string `gorm:"size:255"`
	URL      string `gorm:"size:1024"`
}

// IsZero 没有上传过任何文件
func (a Asset) IsZero() bool {
	return a.PublicID == "" && a.URL == ""
}
