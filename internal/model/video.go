package model

// Video结构：作者、标题、简介、视频文件、封面、时长、播放量
type Video struct {
	BaseModel
	OwnerID     uint64 `gorm:"not null;index"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`

	VideoFile Asset `gorm:"embedded;embeddedPrefix:video_file_"`
	Thumbnail Asset `gorm:"embedded;embeddedPrefix:thumbnail_"`

	Duration    float64 // 秒
	Views       uint64  `gorm:"default:0"`
	LikeCount   uint64  `gorm:"default:0"`
	IsPublished bool    `gorm:"not null;default:false"` // 零值不会写入INSERT，所以默认值必须和零值一致

	// 外键OwnerID和User表的ID
	Owner User `gorm:"foreignKey:OwnerID;references:ID"`
}

func (Video) TableName() string {
	return "videos"
}
