// internal/services/catalog_service.go
package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "github.com/xudq789/runzang/internal/errors"
	"github.com/xudq789/runzang/internal/models"
)

// 服务编码
const (
	ServiceCodeLifeReading  = "rsxp" // 人生详批
	ServiceCodeVerification = "csyz" // 测算验证
	ServiceCodeAnnualLuck   = "lnyc" // 流年运程
	ServiceCodeMarriage     = "bzhh" // 八字合婚
)

// CatalogService 提供静态服务目录
// 目录在构造时建好索引，运行期只读
type CatalogService struct {
	services []models.ServiceDefinition
	byName   map[string]*models.ServiceDefinition
	byCode   map[string]*models.ServiceDefinition
}

// NewCatalogService 创建服务目录
func NewCatalogService() *CatalogService {
	s := &CatalogService{
		services: defaultServices(),
		byName:   make(map[string]*models.ServiceDefinition),
		byCode:   make(map[string]*models.ServiceDefinition),
	}
	for i := range s.services {
		svc := &s.services[i]
		s.byName[svc.Name] = svc
		s.byCode[svc.Code] = svc
	}
	return s
}

// List 返回全部服务定义
func (s *CatalogService) List() []models.ServiceDefinition {
	return s.services
}

// GetByName 按服务名查找
func (s *CatalogService) GetByName(name string) (*models.ServiceDefinition, error) {
	if svc, ok := s.byName[name]; ok {
		return svc, nil
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("未知的服务: %s", name), nil)
}

// GetByCode 按服务编码查找
func (s *CatalogService) GetByCode(code string) (*models.ServiceDefinition, error) {
	if svc, ok := s.byCode[code]; ok {
		return svc, nil
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("未知的服务编码: %s", code), nil)
}

func defaultServices() []models.ServiceDefinition {
	return []models.ServiceDefinition{
		{
			Name:           "人生详批",
			Code:           ServiceCodeLifeReading,
			Price:          decimal.RequireFromString("128.00"),
			HeroImageURL:   "/static/images/rsxp_hero.jpg",
			DetailImageURL: "/static/images/rsxp_detail.jpg",
			FreeSections:   []string{"八字排盘", "性格特点"},
			LockedItemLabels: []string{
				"富贵层次评估",
				"事业发展建议",
				"财运走势分析",
				"婚姻情感详解",
				"健康注意事项",
				"大运流年提点",
			},
			Description: "请根据出生信息进行八字排盘，并按上述维度输出人生详批报告",
		},
		{
			Name:           "测算验证",
			Code:           ServiceCodeVerification,
			Price:          decimal.RequireFromString("38.00"),
			HeroImageURL:   "/static/images/csyz_hero.jpg",
			DetailImageURL: "/static/images/csyz_detail.jpg",
			FreeSections:   []string{"八字排盘", "性格特点"},
			LockedItemLabels: []string{
				"富贵层次评估",
				"六亲情况验证",
				"过往大事回溯",
			},
			Description: "请根据出生信息进行八字排盘，输出可供用户核验准确度的测算验证报告",
		},
		{
			Name:           "流年运程",
			Code:           ServiceCodeAnnualLuck,
			Price:          decimal.RequireFromString("68.00"),
			HeroImageURL:   "/static/images/lnyc_hero.jpg",
			DetailImageURL: "/static/images/lnyc_detail.jpg",
			FreeSections:   []string{"八字排盘", "流年概述"},
			LockedItemLabels: []string{
				"事业运势",
				"财运运势",
				"感情运势",
				"健康运势",
				"每月运程提点",
			},
			Description: "请根据出生信息进行八字排盘，输出未来一年的流年运程报告",
		},
		{
			Name:           "八字合婚",
			Code:           ServiceCodeMarriage,
			Price:          decimal.RequireFromString("168.00"),
			HeroImageURL:   "/static/images/bzhh_hero.jpg",
			DetailImageURL: "/static/images/bzhh_detail.jpg",
			FreeSections:   []string{"合婚总评"},
			LockedItemLabels: []string{
				"性格契合度分析",
				"婚姻稳定度预测",
				"子女缘分分析",
				"相处建议",
			},
			// 排盘和五行章节由排盘组件单独渲染，不进入正文切分
			DropSections: []string{
				"用户八字排盘",
				"伴侣八字排盘",
				"用户五行分析",
				"伴侣五行分析",
			},
			Description:     "请根据双方出生信息分别排盘，并输出八字合婚报告",
			RequiresPartner: true,
		},
	}
}
