package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"agile_tools/internal/service"
)

// WheelHandler 處理轉盤工具相關的請求
type WheelHandler struct {
	wheelService *service.WheelService
}

// NewWheelHandler 創建一個新的 WheelHandler 實例
func NewWheelHandler(wheelService *service.WheelService) *WheelHandler {
	return &WheelHandler{wheelService: wheelService}
}

type wheelConfigInput struct {
	Name  string   `json:"name" binding:"required"`
	Items []string `json:"items" binding:"required"`
}

// CreateConfig 建立轉盤設定
func (h *WheelHandler) CreateConfig(c *gin.Context) {
	var input wheelConfigInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.wheelService.CreateConfig(input.Name, input.Items, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// ListConfigs 列出呼叫者建立的所有轉盤設定
func (h *WheelHandler) ListConfigs(c *gin.Context) {
	views, err := h.wheelService.ListConfigs(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetConfig 回傳單一轉盤設定
func (h *WheelHandler) GetConfig(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的設定 ID"})
		return
	}

	view, err := h.wheelService.GetConfig(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateConfig 更新轉盤設定，僅限擁有者
func (h *WheelHandler) UpdateConfig(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的設定 ID"})
		return
	}

	var input wheelConfigInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.wheelService.UpdateConfig(uint(id), input.Name, input.Items, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeleteConfig 刪除轉盤設定，僅限擁有者
func (h *WheelHandler) DeleteConfig(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的設定 ID"})
		return
	}

	if err := h.wheelService.DeleteConfig(uint(id), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Config deleted"})
}

// SaveResult 記錄一次抽選結果
func (h *WheelHandler) SaveResult(c *gin.Context) {
	var input struct {
		ConfigID     uint   `json:"config_id" binding:"required"`
		SelectedItem string `json:"selected_item" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.wheelService.SaveResult(input.ConfigID, input.SelectedItem); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Result saved"})
}

// ListResults 列出設定最近的抽選結果
func (h *WheelHandler) ListResults(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的設定 ID"})
		return
	}

	views, err := h.wheelService.ListResults(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
