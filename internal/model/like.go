package model

import "fmt"

// TargetKind 点赞对象的种类，一条点赞记录只能指向一种对象
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
)

func (k TargetKind) Valid() bool {
	switch k {
	case TargetVideo, TargetComment, TargetTweet:
		return true
	}
	return false
}

// LikeTarget 用 (Kind, ID) 表示点赞对象，不存在“同时指向多个对象”或“什么都不指向”的记录
type LikeTarget struct {
	Kind TargetKind
	ID   uint64
}

func VideoTarget(id uint64) LikeTarget   { return LikeTarget{Kind: TargetVideo, ID: id} }
func CommentTarget(id uint64) LikeTarget { return LikeTarget{Kind: TargetComment, ID: id} }
func TweetTarget(id uint64) LikeTarget   { return LikeTarget{Kind: TargetTweet, ID: id} }

func (t LikeTarget) String() string {
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}

// 联合唯一索引，确保一个用户对同一个对象只有一条点赞记录
type Like struct {
	BaseModel
	LikedBy    uint64     `gorm:"not null;uniqueIndex:idx_like_user_target"`
	TargetKind TargetKind `gorm:"size:16;not null;uniqueIndex:idx_like_user_target;index:idx_like_target"`
	TargetID   uint64     `gorm:"not null;uniqueIndex:idx_like_user_target;index:idx_like_target"`
}

func (Like) TableName() string {
	return "likes"
}

func (l Like) Target() LikeTarget {
	return LikeTarget{Kind: l.TargetKind, ID: l.TargetID}
}
