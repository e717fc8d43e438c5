package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeLayout 是输出文档统一使用的时间格式。
const TimeLayout = "2006-01-02 15:04:05"

// mobileDigits 是大陆手机号的位数，用于补齐被掩码的中间段。
const mobileDigits = 11

// timestampLayouts 按顺序尝试，第一个完整匹配的格式生效。
var timestampLayouts = []string{
	"2006/1/2 15:04",
	"2006-1-2 15:04",
	"2006/1/2 15:04:05",
	"2006-1-2 15:04:05",
}

// Clock 返回当前时间，测试中可替换。
type Clock func() time.Time

// SystemClock 使用系统时间。
var SystemClock Clock = time.Now

// FormatError 表示手机号去除分隔符后仍含非数字字符。
type FormatError struct {
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s 格式错误 %q: %v", e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// SafeNumber 将 raw 解析为浮点数，空白或无法解析时返回 def。
func SafeNumber(raw string, def float64) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// SafeText 在 raw 为空串时返回 def，否则返回去掉首尾空白的 raw。
func SafeText(raw string, def string) string {
	if raw == "" {
		return def
	}
	return strings.TrimSpace(raw)
}

// ParsePhone 将手机号转换为整数。
//
// 形如 176****5751 的掩码号码按 前缀 + 补零 + 后缀 还原，补零位数使总长度为 11 位；
// 其余输入去掉 '-' 与空格后按整数解析。
func ParsePhone(raw string) (int64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	digits := raw
	if start := strings.Index(raw, "*"); start >= 0 {
		end := start
		for end < len(raw) && raw[end] == '*' {
			end++
		}
		prefix := stripSeparators(raw[:start])
		suffix := stripSeparators(raw[end:])
		fill := mobileDigits - len(prefix) - len(suffix)
		if fill <= 0 {
			fill = end - start
		}
		digits = prefix + strings.Repeat("0", fill) + suffix
	}
	v, err := strconv.ParseInt(stripSeparators(digits), 10, 64)
	if err != nil {
		return 0, &FormatError{Field: "手机号", Value: raw, Err: err}
	}
	return v, nil
}

// Phone 与 ParsePhone 相同，但格式错误时返回 0。
func Phone(raw string) int64 {
	v, err := ParsePhone(raw)
	if err != nil {
		return 0
	}
	return v
}

func stripSeparators(s string) string {
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, " ", "")
}

// Timestamp 将采集时间规范为 TimeLayout，空值或无法识别时使用 now()。
func Timestamp(raw string, now Clock) string {
	if now == nil {
		now = SystemClock
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return now().Format(TimeLayout)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Format(TimeLayout)
		}
	}
	return now().Format(TimeLayout)
}
