package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"agile_tools/internal/errs"
	"agile_tools/internal/middleware"
	"agile_tools/internal/models"
)

// currentUser 取出中間件解析好的用戶
func currentUser(c *gin.Context) *models.User {
	value, _ := c.Get(middleware.UserKey)
	user, _ := value.(*models.User)
	return user
}

// respondError 把哨兵錯誤對應到 HTTP 狀態碼
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidState), errors.Is(err, errs.ErrValidation):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
