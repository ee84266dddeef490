package model

// WatchHistoryEntry 观看历史中的一项，同一个视频只保留一条，按ID升序就是观看顺序（最近看的在最后）
type WatchHistoryEntry struct {
	BaseModel
	UserID  uint64 `gorm:"not null;uniqueIndex:idx_history_user_video"`
	VideoID uint64 `gorm:"not null;uniqueIndex:idx_history_user_video"`
}

func (WatchHistoryEntry) TableName() string {
	return "watch_history_entries"
}
