// internal/bazi/parser.go
package bazi

import (
	"regexp"
	"strings"
)

// Columns 从报告文本中提取的四柱信息
// 每一项都是短字符串，提取不到时为空串
type Columns struct {
	YearColumn   string `json:"yearColumn"`
	YearElement  string `json:"yearElement"`
	MonthColumn  string `json:"monthColumn"`
	MonthElement string `json:"monthElement"`
	DayColumn    string `json:"dayColumn"`
	DayElement   string `json:"dayElement"`
	HourColumn   string `json:"hourColumn"`
	HourElement  string `json:"hourElement"`
}

// Chart 一次排盘结果，合婚场景下包含伴侣排盘
type Chart struct {
	User    Columns  `json:"user"`
	Partner *Columns `json:"partner,omitempty"`
}

// 双人报告的章节标记
const (
	userChartMarker    = "【用户八字排盘】"
	partnerChartMarker = "【伴侣八字排盘】"
)

// 柱行格式示例：年柱：甲子(海中金)
// 干支固定两字，括号内的纳音/五行注记可有可无，全半角括号都接受
var pillarPatterns = map[string]*regexp.Regexp{
	"year":  compilePillarPattern("年柱"),
	"month": compilePillarPattern("月柱"),
	"day":   compilePillarPattern("日柱"),
	"hour":  compilePillarPattern("时柱"),
}

func compilePillarPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(label + `[：:]\s*([^\s（(【】)）]{2})\s*(?:[（(]([^）)]+)[）)])?`)
}

// ParseChart 从自由文本报告中提取排盘
// 上游是模型生成的自然语言而非约定格式的协议，所以这里只做宽容匹配：
// 匹配不到的柱留空串，任何输入都不报错
func ParseChart(text string) Chart {
	userIdx := strings.Index(text, userChartMarker)
	partnerIdx := strings.Index(text, partnerChartMarker)

	if userIdx >= 0 && partnerIdx >= 0 {
		userBlock := sectionBody(text, userIdx+len(userChartMarker))
		partnerBlock := sectionBody(text, partnerIdx+len(partnerChartMarker))
		partner := parseColumns(partnerBlock)
		return Chart{
			User:    parseColumns(userBlock),
			Partner: &partner,
		}
	}

	// 单人报告：整段文本按一个对象的排盘处理
	return Chart{User: parseColumns(text)}
}

// sectionBody 截取从 start 到下一个章节标记之间的正文
func sectionBody(text string, start int) string {
	rest := text[start:]
	if next := strings.Index(rest, "【"); next >= 0 {
		return rest[:next]
	}
	return rest
}

func parseColumns(block string) Columns {
	cols := Columns{}
	if m := pillarPatterns["year"].FindStringSubmatch(block); m != nil {
		cols.YearColumn, cols.YearElement = m[1], m[2]
	}
	if m := pillarPatterns["month"].FindStringSubmatch(block); m != nil {
		cols.MonthColumn, cols.MonthElement = m[1], m[2]
	}
	if m := pillarPatterns["day"].FindStringSubmatch(block); m != nil {
		cols.DayColumn, cols.DayElement = m[1], m[2]
	}
	if m := pillarPatterns["hour"].FindStringSubmatch(block); m != nil {
		cols.HourColumn, cols.HourElement = m[1], m[2]
	}
	return cols
}
