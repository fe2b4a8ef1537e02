// internal/models/service.go
package models

import "github.com/shopspring/decimal"

// ServiceDefinition 服务目录中的一项测算服务
// 启动时静态加载，运行期不可变
type ServiceDefinition struct {
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	Price          decimal.Decimal `json:"price"`
	HeroImageURL   string          `json:"hero_image_url"`
	DetailImageURL string          `json:"detail_image_url"`

	// 报告中免费展示的章节标题（不含【】）
	FreeSections []string `json:"free_sections"`

	// 付费解锁项的展示标签，按展示顺序排列
	LockedItemLabels []string `json:"locked_item_labels"`

	// 单独渲染排盘的章节，既不进免费区也不进付费区
	DropSections []string `json:"drop_sections,omitempty"`

	// 提交给分析后端的服务描述语
	Description string `json:"description"`

	// 是否需要伴侣出生信息（合婚服务）
	RequiresPartner bool `json:"requires_partner"`
}
