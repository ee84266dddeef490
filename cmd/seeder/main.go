package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"VidTube/internal/config"
	"VidTube/internal/model"

	"github.com/go-faker/faker/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	userCount         = 100
	videoCount        = 500
	tweetCount        = 300
	subscriptionCount = 800
	likeCount         = 2000
)

func main() {
	fmt.Println("🚀 开始填充测试数据...")

	// --- 1. 连接数据库 ---
	// 和server使用同一份配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}
	db, err := gorm.Open(mysql.Open(cfg.MySQLDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ 无法连接到数据库: %v", err)
	}
	fmt.Println("✅ 数据库连接成功!")

	// --- 2. 清理旧数据 ---
	// 注意：这将删除所有数据！
	fmt.Println("🧹 正在清理旧数据...")
	tables := []interface{}{
		&model.WatchHistoryEntry{},
		&model.Subscription{},
		&model.Like{},
		&model.Comment{},
		&model.Tweet{},
		&model.Video{},
		&model.User{},
	}
	if err := db.Migrator().DropTable(tables...); err != nil {
		log.Fatalf("❌ 删除旧表失败: %v", err)
	}
	if err := db.AutoMigrate(tables...); err != nil {
		log.Fatalf("❌ 数据库迁移失败: %v", err)
	}
	fmt.Println("✅ 数据库迁移成功!")

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- 3. 创建用户 ---
	fmt.Println("👥 正在创建用户...")
	// 所有用户的密码都是 "password"，只需要哈希一次
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ 密码加密失败: %v", err)
	}
	users := make([]model.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		// faker生成的用户名可能重复，加上序号保证唯一
		username := fmt.Sprintf("%s%d", faker.Username(), i)
		users = append(users, model.User{
			Username: username,
			Email:    fmt.Sprintf("%s@example.com", username),
			FullName: faker.Name(),
			Password: string(hashedPassword),
			Avatar:   model.Asset{URL: "https://test.com/avatar.png"},
		})
	}
	if err := db.CreateInBatches(users, 100).Error; err != nil {
		log.Fatalf("❌ 创建用户失败: %v", err)
	}
	fmt.Printf("✅ 成功创建 %d 个用户!\n", userCount)

	// --- 4. 创建视频和动态 ---
	fmt.Println("🎬 正在创建视频...")
	videos := make([]model.Video, 0, videoCount)
	for i := 0; i < videoCount; i++ {
		videos = append(videos, model.Video{
			// rand.Intn(userCount) 会生成 [0, 99] 之间的随机数, +1 后变为 [1, 100]
			OwnerID:     uint64(rng.Intn(userCount) + 1),
			Title:       faker.Sentence(),
			Description: faker.Paragraph(),
			VideoFile:   model.Asset{URL: "https://test.com/video.mp4"},
			Thumbnail:   model.Asset{URL: "https://test.com/cover.jpg"},
			Duration:    float64(rng.Intn(600) + 10),
			Views:       uint64(rng.Intn(10000)),
			IsPublished: rng.Intn(10) != 0, // 大约一成的视频未发布
		})
	}
	if err := db.CreateInBatches(videos, 100).Error; err != nil {
		log.Fatalf("❌ 创建视频失败: %v", err)
	}
	tweets := make([]model.Tweet, 0, tweetCount)
	for i := 0; i < tweetCount; i++ {
		tweets = append(tweets, model.Tweet{
			OwnerID: uint64(rng.Intn(userCount) + 1),
			Content: faker.Sentence(),
		})
	}
	if err := db.CreateInBatches(tweets, 100).Error; err != nil {
		log.Fatalf("❌ 创建动态失败: %v", err)
	}
	fmt.Printf("✅ 成功创建 %d 个视频和 %d 条动态!\n", videoCount, tweetCount)

	// --- 5. 创建随机订阅和点赞 ---
	// 使用GORM的 OnConflict 来避免因为重复订阅/点赞而报错，唯一键冲突时什么都不做
	fmt.Println("🔔 正在创建随机订阅...")
	for i := 0; i < subscriptionCount; i++ {
		channelID := uint64(rng.Intn(userCount) + 1)
		subscriberID := uint64(rng.Intn(userCount) + 1)
		if channelID == subscriberID {
			continue
		}
		db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Subscription{
			ChannelID:    channelID,
			SubscriberID: subscriberID,
		})
	}

	fmt.Println("👍 正在创建随机点赞...")
	for i := 0; i < likeCount; i++ {
		target := model.VideoTarget(uint64(rng.Intn(videoCount) + 1))
		if i%4 == 0 {
			target = model.TweetTarget(uint64(rng.Intn(tweetCount) + 1))
		}
		db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Like{
			LikedBy:    uint64(rng.Intn(userCount) + 1),
			TargetKind: target.Kind,
			TargetID:   target.ID,
		})
	}

	// --- 6. 同步冗余的点赞数 ---
	syncLikeCount(db, "videos", model.TargetVideo)
	syncLikeCount(db, "tweets", model.TargetTweet)
	fmt.Println("✅ 点赞数已同步!")

	fmt.Println("🎉🎉🎉 所有测试数据填充完毕! 🎉🎉🎉")
}

// 按likes表重新计算某张表的like_count
func syncLikeCount(db *gorm.DB, table string, kind model.TargetKind) {
	sql := fmt.Sprintf(
		"UPDATE %s SET like_count = (SELECT COUNT(*) FROM likes WHERE likes.target_kind = ? AND likes.target_id = %s.id)",
		table, table,
	)
	if err := db.Exec(sql, kind).Error; err != nil {
		log.Fatalf("❌ 同步%s的点赞数失败: %v", table, err)
	}
}
