// internal/api/handlers.go
package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xudq789/runzang/internal/errors"
	"github.com/xudq789/runzang/internal/models"
	"github.com/xudq789/runzang/internal/services"
)

// Handler API处理器，持有全部业务服务
type Handler struct {
	Catalog  *services.CatalogService
	Analysis *services.AnalysisService
	Payment  *services.PaymentService
	Unlock   *services.UnlockService
	Hub      *UnlockHub
	Response *ResponseHelper
	Logger   *zap.Logger
}

// NewHandler 创建API处理器
func NewHandler(
	catalog *services.CatalogService,
	analysis *services.AnalysisService,
	payment *services.PaymentService,
	unlock *services.UnlockService,
	hub *UnlockHub,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Catalog:  catalog,
		Analysis: analysis,
		Payment:  payment,
		Unlock:   unlock,
		Hub:      hub,
		Response: NewResponseHelper(),
		Logger:   logger,
	}
}

// PersonForm 表单提交的出生信息
type PersonForm struct {
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	BirthYear   int    `json:"birth_year"`
	BirthMonth  int    `json:"birth_month"`
	BirthDay    int    `json:"birth_day"`
	BirthHour   *int   `json:"birth_hour"`
	BirthMinute *int   `json:"birth_minute"`
	BirthCity   string `json:"birth_city"`
}

// AnalysisForm 分析请求表单
type AnalysisForm struct {
	Service string      `json:"service"`
	User    *PersonForm `json:"user"`
	Partner *PersonForm `json:"partner"`
}

// validatePerson 检查必填字段，返回缺失项
func validatePerson(p *PersonForm, label string) []string {
	var missing []string
	if p.Name == "" {
		missing = append(missing, label+"姓名")
	}
	if p.Gender == "" {
		missing = append(missing, label+"性别")
	}
	if p.BirthYear == 0 || p.BirthMonth == 0 || p.BirthDay == 0 {
		missing = append(missing, label+"出生日期")
	}
	if p.BirthCity == "" {
		missing = append(missing, label+"出生城市")
	}
	return missing
}

func (p *PersonForm) toBirthInfo() models.PersonBirthInfo {
	return models.PersonBirthInfo{
		Name:        p.Name,
		Gender:      p.Gender,
		BirthYear:   p.BirthYear,
		BirthMonth:  p.BirthMonth,
		BirthDay:    p.BirthDay,
		BirthHour:   p.BirthHour,
		BirthMinute: p.BirthMinute,
		BirthCity:   p.BirthCity,
	}
}

// GetServices 返回服务目录
// GET /api/services
func (h *Handler) GetServices(c *gin.Context) {
	h.Response.Success(c, h.Catalog.List())
}

// SubmitAnalysis 提交分析请求，返回免费内容和锁定项预览
// POST /api/analysis
func (h *Handler) SubmitAnalysis(c *gin.Context) {
	var form AnalysisForm
	if err := c.ShouldBindJSON(&form); err != nil {
		h.Response.BadRequest(c, "请求体格式错误")
		return
	}
	if form.Service == "" || form.User == nil {
		h.Response.BadRequest(c, "缺少服务类型或用户出生信息")
		return
	}
	if missing := validatePerson(form.User, ""); len(missing) > 0 {
		h.Response.Error(c, apperrors.NewValidationError("请补全: "+strings.Join(missing, "、"), nil))
		return
	}

	var partner *models.PersonBirthInfo
	if form.Partner != nil {
		if missing := validatePerson(form.Partner, "伴侣"); len(missing) > 0 {
			h.Response.Error(c, apperrors.NewValidationError("请补全: "+strings.Join(missing, "、"), nil))
			return
		}
		info := form.Partner.toBirthInfo()
		partner = &info
	}

	report, err := h.Analysis.Analyze(c.Request.Context(), form.Service, form.User.toBirthInfo(), partner)
	if err != nil {
		h.Logger.Warn("分析请求失败",
			zap.String("service", form.Service),
			zap.Error(err))
		h.Response.Error(c, err)
		return
	}

	// 付费内容只在该服务已解锁时下发
	report.Unlocked = h.Unlock.IsUnlocked(report.ServiceName)
	if !report.Unlocked {
		report.LockedContent = ""
	}

	h.Response.Success(c, report)
}

// GetAnalysisResult 按订单号取回已解锁订单的完整报告
// GET /api/analysis/result/:orderId
func (h *Handler) GetAnalysisResult(c *gin.Context) {
	orderID := c.Param("orderId")

	serviceName, ok := h.Unlock.ServiceForOrder(orderID)
	if !ok {
		h.Response.Error(c, apperrors.NewNotFoundError("该订单不存在或尚未解锁", nil))
		return
	}

	content, ok := h.Unlock.EnsureContent(c.Request.Context(), serviceName)
	if !ok {
		h.Response.Error(c, apperrors.NewNotFoundError("完整报告暂不可用，请稍后重试", nil))
		return
	}

	h.Response.Success(c, gin.H{
		"service": serviceName,
		"orderId": orderID,
		"content": content,
	})
}
