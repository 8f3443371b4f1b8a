package service

import (
	"regexp"
	"strings"
	"sync"

	"alertdesk_go/internal/model"
)

// 标签名匹配规则：
//   - 大小写不敏感
//   - 必须是完整的词（前后不能紧挨字母、数字或下划线）
//   - 允许复数后缀 s / es，"cats" 可以命中标签 "cat"
const wordBoundary = `[^\p{L}\p{N}_]`

var tagPatterns sync.Map // tag name -> *regexp.Regexp

func tagPattern(name string) *regexp.Regexp {
	key := strings.ToLower(name)
	if re, ok := tagPatterns.Load(key); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)(?:^|` + wordBoundary + `)` + regexp.QuoteMeta(key) + `(?:e?s)?(?:$|` + wordBoundary + `)`)
	tagPatterns.Store(key, re)
	return re
}

// MatchTags 返回在 text 中出现的标签，保持 tags 的原有顺序，每个标签最多出现一次。
func MatchTags(text string, tags []model.Tag) []model.Tag {
	if strings.TrimSpace(text) == "" || len(tags) == 0 {
		return nil
	}
	var matched []model.Tag
	for _, tag := range tags {
		if strings.TrimSpace(tag.Name) == "" {
			continue
		}
		if tagPattern(tag.Name).MatchString(text) {
			matched = append(matched, tag)
		}
	}
	return matched
}
