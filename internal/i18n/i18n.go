package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleZH = "zh-CN"
	LocaleTW = "zh-TW"
	LocaleEN = "en-US"
)

// DefaultLocale 无法识别语言时使用
const DefaultLocale = LocaleZH

// ResolveLocale 按 ?lang、X-Locale、Accept-Language 顺序解析语言
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	candidates := []string{
		c.Query("lang"),
		c.GetHeader("X-Locale"),
		c.GetHeader("Accept-Language"),
	}
	for _, candidate := range candidates {
		if locale, ok := Normalize(candidate); ok {
			return locale
		}
	}
	return DefaultLocale
}

// Normalize 将任意语言标签归一到支持的语言
func Normalize(raw string) (string, bool) {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if idx := strings.IndexAny(tag, ",;"); idx >= 0 {
		tag = strings.TrimSpace(tag[:idx])
	}
	tag = strings.ReplaceAll(tag, "_", "-")
	switch {
	case tag == "":
		return "", false
	case strings.HasPrefix(tag, "zh-tw"), strings.HasPrefix(tag, "zh-hk"), strings.HasPrefix(tag, "zh-mo"), strings.HasPrefix(tag, "zh-hant"):
		return LocaleTW, true
	case strings.HasPrefix(tag, "zh"):
		return LocaleZH, true
	case strings.HasPrefix(tag, "en"):
		return LocaleEN, true
	}
	return "", false
}

// T 查找文案，缺失时依次回退到默认语言与 key 本身
func T(locale, key string) string {
	if msg, ok := messages[locale][key]; ok {
		return msg
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 格式化文案
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
