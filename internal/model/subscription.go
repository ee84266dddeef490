package model

// Subscription 订阅关系：SubscriberID 订阅了 ChannelID 这个频道（频道就是一个User）
type Subscription struct {
	BaseModel
	ChannelID    uint64 `gorm:"not null;uniqueIndex:idx_channel_subscriber"`
	SubscriberID uint64 `gorm:"not null;uniqueIndex:idx_channel_subscriber;index"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
