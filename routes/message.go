package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/models"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/services"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/storage"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

type CreateMessageInput struct {
	ToID       uint   `json:"toID" validate:"required"`
	Body       string `json:"body"`
	PropertyID *uint  `json:"propertyID"`
	ThreadID   string `json:"threadID"`
}

// CreateMessage appends one message to a thread, deriving the canonical
// thread id when the caller did not supply one.
func CreateMessage(ctx iris.Context) {
	tok := jsonWT.Get(ctx)
	if tok == nil {
		ctx.StopWithStatus(http.StatusUnauthorized)
		return
	}
	claims := tok.(*utils.AccessToken)

	var req CreateMessageInput
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if req.ToID == claims.ID {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_recipient", "cannot message yourself")
		return
	}

	threadID := req.ThreadID
	if threadID == "" {
		threadID = services.DirectThreadID(claims.ID, req.ToID, req.PropertyID)
	}

	message := models.Message{
		ThreadID:   threadID,
		PropertyID: req.PropertyID,
		FromUserID: claims.ID,
		ToUserID:   req.ToID,
		Body:       services.NormalizeBody(req.Body),
	}

	if err := storage.DB.Create(&message).Error; err != nil {
		ctx.JSON(iris.Map{"success": false})
		return
	}

	// Push notification to the recipient
	var sender models.User
	if err := storage.DB.First(&sender, claims.ID).Error; err == nil {
		propertyTitle := "a property"
		if req.PropertyID != nil {
			var property models.Property
			if err := storage.DB.First(&property, *req.PropertyID).Error; err == nil {
				propertyTitle = property.Title
			}
		}
		go services.NotificationServiceInstance.SendMessageNotification(
			req.ToID,
			claims.ID,
			sender.FullName(),
			propertyTitle,
			threadID,
		)
	}

	ctx.JSON(iris.Map{"success": true, "threadID": threadID, "message": message})
}

// GetConversations returns the viewer's conversation list, one summary
// per thread, most recently active first. Lookup errors surface as an
// empty list, matching the browse-only UI this feeds.
func GetConversations(ctx iris.Context) {
	tok := jsonWT.Get(ctx)
	if tok == nil {
		ctx.StopWithStatus(http.StatusUnauthorized)
		return
	}
	claims := tok.(*utils.AccessToken)

	var messages []models.Message
	err := storage.DB.
		Where("from_user_id = ? OR to_user_id = ?", claims.ID, claims.ID).
		Preload("FromUser").
		Preload("ToUser").
		Preload("Property").
		Find(&messages).Error
	if err != nil {
		ctx.JSON(iris.Map{"conversations": []services.ConversationSummary{}})
		return
	}

	conversations := services.BuildConversations(claims.ID, messages, time.Now())
	ctx.JSON(iris.Map{"conversations": conversations})
}

// GetThreadMessages lists one thread chronologically. Only participants
// may read it.
func GetThreadMessages(ctx iris.Context) {
	tok := jsonWT.Get(ctx)
	if tok == nil {
		ctx.StopWithStatus(http.StatusUnauthorized)
		return
	}
	claims := tok.(*utils.AccessToken)
	threadID := ctx.Params().GetString("threadID")
	if threadID == "" {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	var participates int64
	storage.DB.Model(&models.Message{}).
		Where("thread_id = ? AND (from_user_id = ? OR to_user_id = ?)", threadID, claims.ID, claims.ID).
		Count(&participates)
	if participates == 0 {
		ctx.StopWithStatus(http.StatusForbidden)
		return
	}

	var msgs []models.Message
	if err := storage.DB.
		Where("thread_id = ?", threadID).
		Preload("FromUser").
		Order("created_at ASC").Order("id ASC").
		Find(&msgs).Error; err != nil {
		ctx.StopWithStatus(http.StatusInternalServerError)
		return
	}

	ctx.JSON(iris.Map{"success": true, "messages": msgs})
}

// MarkThreadRead stamps read_at on every message in the thread addressed
// to the viewer that is still unread. Re-invoking after that matches zero
// rows and is a no-op.
func MarkThreadRead(ctx iris.Context) {
	tok := jsonWT.Get(ctx)
	if tok == nil {
		ctx.StopWithStatus(http.StatusUnauthorized)
		return
	}
	claims := tok.(*utils.AccessToken)
	threadID := ctx.Params().GetString("threadID")
	if threadID == "" {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	result := storage.DB.Model(&models.Message{}).
		Where("thread_id = ? AND to_user_id = ? AND read_at IS NULL", threadID, claims.ID).
		Update("read_at", time.Now())
	if result.Error != nil {
		ctx.StopWithStatus(http.StatusInternalServerError)
		return
	}

	ctx.JSON(iris.Map{"success": true, "updated": result.RowsAffected})
}

// Typing indicator: set a short-lived key in Redis for 5 seconds
func Typing(ctx iris.Context) {
	tok := jsonWT.Get(ctx)
	if tok == nil {
		ctx.StopWithStatus(http.StatusUnauthorized)
		return
	}
	claims := tok.(*utils.AccessToken)
	threadID := ctx.Params().GetString("threadID")
	if threadID == "" {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	key := typingKey(threadID, claims.ID)
	storage.Redis.Set(ctx, key, "1", 5*time.Second)
	ctx.JSON(iris.Map{"success": true})
}

// ListTyping reports whether the counterpart in a thread is typing
func ListTyping(ctx iris.Context) {
	tok := jsonWT.Get(ctx)
	if tok == nil {
		ctx.StopWithStatus(http.StatusUnauthorized)
		return
	}
	claims := tok.(*utils.AccessToken)
	threadID := ctx.Params().GetString("threadID")
	if threadID == "" {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	// Participants are derived from the thread's messages
	var msgs []models.Message
	if err := storage.DB.
		Select("from_user_id, to_user_id").
		Where("thread_id = ? AND (from_user_id = ? OR to_user_id = ?)", threadID, claims.ID, claims.ID).
		Limit(1).Find(&msgs).Error; err != nil || len(msgs) == 0 {
		ctx.StopWithStatus(http.StatusForbidden)
		return
	}

	other := msgs[0].FromUserID
	if other == claims.ID {
		other = msgs[0].ToUserID
	}

	typing := []iris.Map{}
	key := typingKey(threadID, other)
	if val, err := storage.Redis.Get(ctx, key).Result(); err == nil && val == "1" {
		var u models.User
		name := ""
		if err := storage.DB.Select("id, first_name, last_name").First(&u, other).Error; err == nil {
			name = u.FullName()
		}
		typing = append(typing, iris.Map{"userID": other, "name": name})
	}
	ctx.JSON(iris.Map{"success": true, "typing": typing})
}

func typingKey(threadID string, userID uint) string {
	return fmt.Sprintf("typing:thr:%s:user:%d", threadID, userID)
}
