// internal/models/analysis.go
package models

import "github.com/xudq789/runzang/internal/bazi"

// SingleAnalysisRequest 单人服务的分析请求体
// 字段名与分析后端的接口约定保持一致
type SingleAnalysisRequest struct {
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	BirthTime   string `json:"birthTime"`
	BirthRegion string `json:"birthRegion"`
	Description string `json:"description"`
}

// CoupleAnalysisRequest 合婚服务的双人分析请求体
type CoupleAnalysisRequest struct {
	SelfName          string `json:"selfName"`
	SelfGender        string `json:"selfGender"`
	SelfBirthTime     string `json:"selfBirthTime"`
	SelfBirthRegion   string `json:"selfBirthRegion"`
	SpouseName        string `json:"spouseName"`
	SpouseGender      string `json:"spouseGender"`
	SpouseBirthTime   string `json:"spouseBirthTime"`
	SpouseBirthRegion string `json:"spouseBirthRegion"`
	Description       string `json:"description"`
}

// AnalysisResult 分析后端返回的原始结果
type AnalysisResult struct {
	OrderID string `json:"orderId"`
	Content string `json:"content"`
}

// AnalysisReport 一次完整分析的产出：排盘 + 免费/付费内容切分
type AnalysisReport struct {
	OrderID          string     `json:"order_id"`
	ServiceName      string     `json:"service_name"`
	ServiceCode      string     `json:"service_code"`
	Chart            bazi.Chart `json:"chart"`
	FreeContent      string     `json:"free_content"`
	LockedContent    string     `json:"locked_content,omitempty"`
	LockedItemLabels []string   `json:"locked_item_labels"`
	Unlocked         bool       `json:"unlocked"`
}
