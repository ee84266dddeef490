package model

type Comment struct {
	BaseModel
	VideoID uint64 `gorm:"not null;index"` // index索引，加速按视频查评论
	OwnerID uint64 `gorm:"not null;index"`
	// TEXT是MySQL中的一种文本类型，最大长度65,535个字符
	Content   string `gorm:"type:text;not null"`
	LikeCount uint64 `gorm:"default:0"`

	Owner User `gorm:"foreignKey:OwnerID"`
}

func (Comment) TableName() string {
	return "comments"
}
