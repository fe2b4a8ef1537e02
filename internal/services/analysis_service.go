// internal/services/analysis_service.go
package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/xudq789/runzang/internal/bazi"
	apperrors "github.com/xudq789/runzang/internal/errors"
	"github.com/xudq789/runzang/internal/models"
	"github.com/xudq789/runzang/internal/upstream"
)

// ErrMissingPartnerData 合婚服务缺少伴侣出生信息
var ErrMissingPartnerData = apperrors.NewValidationError("八字合婚需要提供伴侣的出生信息", nil)

// AnalysisService 负责一次完整的分析流程：
// 组装请求 -> 调用分析后端 -> 提取排盘 -> 切分免费/付费内容
type AnalysisService struct {
	catalog *CatalogService
	client  *upstream.Client
	logger  *zap.Logger
}

// NewAnalysisService 创建分析服务
func NewAnalysisService(catalog *CatalogService, client *upstream.Client, logger *zap.Logger) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		catalog: catalog,
		client:  client,
		logger:  logger,
	}
}

// BuildRequest 按服务类型组装分析请求体
// 出生日期范围的校验在表单层完成，这里不再重复
func (s *AnalysisService) BuildRequest(svc *models.ServiceDefinition, user models.PersonBirthInfo, partner *models.PersonBirthInfo) (interface{}, error) {
	if svc.RequiresPartner {
		if partner == nil {
			return nil, ErrMissingPartnerData
		}
		return models.CoupleAnalysisRequest{
			SelfName:          user.Name,
			SelfGender:        user.LocalizedGender(),
			SelfBirthTime:     user.BirthTimeString(),
			SelfBirthRegion:   user.BirthCity,
			SpouseName:        partner.Name,
			SpouseGender:      partner.LocalizedGender(),
			SpouseBirthTime:   partner.BirthTimeString(),
			SpouseBirthRegion: partner.BirthCity,
			Description:       svc.Description,
		}, nil
	}

	return models.SingleAnalysisRequest{
		Name:        user.Name,
		Gender:      user.LocalizedGender(),
		BirthTime:   user.BirthTimeString(),
		BirthRegion: user.BirthCity,
		Description: svc.Description,
	}, nil
}

// Analyze 提交分析并产出切分好的报告
func (s *AnalysisService) Analyze(ctx context.Context, serviceName string, user models.PersonBirthInfo, partner *models.PersonBirthInfo) (*models.AnalysisReport, error) {
	svc, err := s.catalog.GetByName(serviceName)
	if err != nil {
		return nil, err
	}

	body, err := s.BuildRequest(svc, user, partner)
	if err != nil {
		return nil, err
	}

	result, err := s.client.SubmitQuery(ctx, svc.Code, body)
	if err != nil {
		return nil, err
	}

	s.logger.Info("分析完成",
		zap.String("service", svc.Name),
		zap.String("order_id", result.OrderID),
		zap.Int("content_len", len(result.Content)))

	partition := bazi.SplitReport(result.Content, svc.FreeSections, svc.DropSections)

	return &models.AnalysisReport{
		OrderID:          result.OrderID,
		ServiceName:      svc.Name,
		ServiceCode:      svc.Code,
		Chart:            bazi.ParseChart(result.Content),
		FreeContent:      partition.Free,
		LockedContent:    partition.Locked,
		LockedItemLabels: svc.LockedItemLabels,
	}, nil
}
