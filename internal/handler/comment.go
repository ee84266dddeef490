package handler

import (
	"net/http"

	"VidTube/internal/apperr"
	"VidTube/internal/dto"
	"VidTube/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler interface {
	CreateComment(c *gin.Context)
	GetComments(c *gin.Context)
	DeleteComment(c *gin.Context)
}

type commentHandler struct {
	CommentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) CommentHandler {
	return &commentHandler{CommentService: commentService}
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// 视频评论：1、解析URL中的videoID 2、解析Body中的content 3、service层确认视频可见并创建评论
func (h *commentHandler) CreateComment(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "video_id", "视频ID")
	if !ok {
		return
	}
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, nil, apperr.Validation("评论内容不能为空"))
		return
	}

	// 正式进入业务前，将logger格式整理好
	logCtx := requestLogger(c).WithField("user_id", identity.UserID).WithField("video_id", videoID)
	comment, err := h.CommentService.CreateComment(c.Request.Context(), identity, videoID, req.Content)
	if err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	logCtx.WithField("comment_id", comment.ID).Info("评论创建成功")
	sendSuccess(c, http.StatusCreated, dto.ToCommentResponse(comment), "评论成功")
}

// 获取一个视频的评论，?page&page_size，缺省由service层填默认值
func (h *commentHandler) GetComments(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "video_id", "视频ID")
	if !ok {
		return
	}

	page, err := h.CommentService.GetComments(c.Request.Context(), identity, videoID, queryInt(c, "page"), queryInt(c, "page_size"))
	if err != nil {
		sendErrorResponse(c, nil, err)
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToCommentPageResponse(page), "获取评论列表成功")
}

func (h *commentHandler) DeleteComment(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "comment_id", "评论ID")
	if !ok {
		return
	}
	logCtx := requestLogger(c).WithField("user_id", identity.UserID).WithField("comment_id", commentID)

	if err := h.CommentService.DeleteComment(c.Request.Context(), identity, commentID); err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	logCtx.Info("评论已删除")
	sendSuccess(c, http.StatusOK, gin.H{}, "评论已删除")
}
