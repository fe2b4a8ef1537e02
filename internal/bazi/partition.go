// internal/bazi/partition.go
package bazi

import (
	"strings"
	"unicode/utf8"
)

// Partition 报告的付费墙切分结果
type Partition struct {
	Free   string `json:"free"`
	Locked string `json:"locked"`
}

// 主路径切出的免费内容短于该阈值时，认为模型输出没有切干净，
// 走子串恢复路径重新推导
const freeContentMinRunes = 20

// SplitReport 把模型生成的报告按章节切分成免费/付费两部分
//
// 报告约定为一串以【标题】开头的章节。freeTitles 是该服务的免费章节
// 白名单；dropTitles 中的章节（合婚服务的排盘章节）由排盘组件单独
// 渲染，两边都不收。
//
// 模型输出不保证格式良好，所以分两层处理：
//  1. 主路径：按【切词，逐章节路由
//  2. 恢复路径：免费内容小得离谱时，直接在原文中定位免费标题，
//     切片到下一个章节标记；付费内容 = 原文减去免费子串
//
// 纯函数，同样的输入永远得到同样的切分
func SplitReport(raw string, freeTitles, dropTitles []string) Partition {
	var free, locked strings.Builder

	parts := strings.Split(raw, "【")
	// 首个章节标记之前的引言不属于任何章节，跟随免费区展示
	if lead := strings.TrimSpace(parts[0]); lead != "" {
		free.WriteString(parts[0])
	}

	for _, part := range parts[1:] {
		closeIdx := strings.Index(part, "】")
		if closeIdx < 0 {
			// 孤立的半个标记，按付费正文处理，避免内容丢失
			locked.WriteString("【" + part)
			continue
		}
		title := part[:closeIdx]
		section := "【" + part

		if containsTitle(dropTitles, title) {
			continue
		}
		if containsTitle(freeTitles, title) {
			free.WriteString(section)
		} else {
			locked.WriteString(section)
		}
	}

	result := Partition{Free: free.String(), Locked: locked.String()}
	if utf8.RuneCountInString(strings.TrimSpace(result.Free)) >= freeContentMinRunes {
		return result
	}
	return splitByRecovery(raw, freeTitles, dropTitles)
}

// splitByRecovery 子串恢复路径：在原文中逐个定位免费标题
func splitByRecovery(raw string, freeTitles, dropTitles []string) Partition {
	var free strings.Builder
	locked := raw

	for _, title := range freeTitles {
		section := locateSection(raw, title)
		if section == "" {
			continue
		}
		free.WriteString(section)
		locked = strings.Replace(locked, section, "", 1)
	}

	// 排盘章节同样不进付费区
	for _, title := range dropTitles {
		if section := locateSection(locked, title); section != "" {
			locked = strings.Replace(locked, section, "", 1)
		}
	}

	return Partition{Free: free.String(), Locked: locked}
}

// locateSection 在原文中定位【title】开头的完整章节，含标题，
// 到下一个章节标记为止；找不到返回空串
func locateSection(text, title string) string {
	marker := "【" + title + "】"
	start := strings.Index(text, marker)
	if start < 0 {
		return ""
	}
	rest := text[start+len(marker):]
	if next := strings.Index(rest, "【"); next >= 0 {
		return text[start : start+len(marker)+next]
	}
	return text[start:]
}

func containsTitle(titles []string, title string) bool {
	for _, t := range titles {
		if t == title {
			return true
		}
	}
	return false
}
