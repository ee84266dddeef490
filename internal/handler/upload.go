package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"VidTube/internal/apperr"
	"VidTube/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Options handler层需要的配置，由main从config中取出
type Options struct {
	UploadTmpDir string
	CookieSecure bool
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

// saveUpload 把multipart中的文件保存到临时目录，返回本地路径，请求中没有这个字段时返回空字符串
// 临时文件的生命周期归handler管，调用方负责removeTemp
func saveUpload(c *gin.Context, tmpDir, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", apperr.Validation("无法解析上传的文件: " + field)
	}
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", apperr.Internal("创建临时目录失败", err)
	}
	// 用户给的文件名不可信，只保留扩展名
	dst := filepath.Join(tmpDir, uuid.NewString()+filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", apperr.Internal("保存上传文件失败", err)
	}
	return dst, nil
}

func removeTemp(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Log.WithField("path", p).WithError(err).Warn("删除临时文件失败")
		}
	}
}
