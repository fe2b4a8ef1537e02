// internal/models/person.go
package models

import "fmt"

// PersonBirthInfo 一位测算对象的出生信息
// 时辰和分钟允许缺省：用户经常不记得具体出生时间
type PersonBirthInfo struct {
	Name        string `json:"name"`
	Gender      string `json:"gender"` // male/female 或已本地化的 男/女
	BirthYear   int    `json:"birth_year"`
	BirthMonth  int    `json:"birth_month"`
	BirthDay    int    `json:"birth_day"`
	BirthHour   *int   `json:"birth_hour,omitempty"`
	BirthMinute *int   `json:"birth_minute,omitempty"`
	BirthCity   string `json:"birth_city"`
}

// BirthTimeString 格式化为后端要求的出生时间串 YYYY-MM-DD HH:MM:00
// 缺省时辰按正午12点处理，缺省分钟按0分处理
func (p PersonBirthInfo) BirthTimeString() string {
	hour := 12
	if p.BirthHour != nil {
		hour = *p.BirthHour
	}
	minute := 0
	if p.BirthMinute != nil {
		minute = *p.BirthMinute
	}
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:00", p.BirthYear, p.BirthMonth, p.BirthDay, hour, minute)
}

// LocalizedGender 归一化性别取值
// 接受 male/female 标记或已经本地化的值，统一输出本地化标签
func (p PersonBirthInfo) LocalizedGender() string {
	switch p.Gender {
	case "male":
		return "男"
	case "female":
		return "女"
	default:
		return p.Gender
	}
}
