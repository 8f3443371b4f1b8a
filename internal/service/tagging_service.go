package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"alertdesk_go/internal/model"
	"alertdesk_go/internal/repository"
	"alertdesk_go/pkg/log"
)

// Tagger 根据标签配置为新保存的记录追加 TagRelation。
// 三个方法都是 post-save 信号的接收者：没有返回值，失败只记录日志，不影响保存本身。
type Tagger struct {
	tags      repository.TagRepository
	relations repository.TagRelationRepository
	taggers   repository.DataTaggerRepository
}

func NewTagger(tags repository.TagRepository, relations repository.TagRelationRepository, taggers repository.DataTaggerRepository) *Tagger {
	return &Tagger{tags: tags, relations: relations, taggers: taggers}
}

// TagAlert 只处理新建的告警：按每条 DataTagger 从告警数据中取值并匹配标签。
func (t *Tagger) TagAlert(ctx context.Context, alert *model.Alert, created bool) {
	if !created || alert == nil {
		return
	}

	taggers, err := t.taggers.FindAll(ctx)
	if err != nil {
		log.Errorf("TagAlert: failed to load data taggers for alert %d: %v", alert.ID, err)
		return
	}
	if len(taggers) == 0 || len(alert.Data) == 0 {
		return
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(alert.Data, &doc); err != nil {
		log.Warnf("TagAlert: alert %d data is not a JSON object: %v", alert.ID, err)
		return
	}

	for _, tagger := range taggers {
		values := lookupField(doc, tagger.FieldName)
		if len(values) == 0 {
			continue
		}
		matched, err := t.matchDataTagger(ctx, tagger, values)
		if err != nil {
			log.Errorf("TagAlert: data tagger %d failed for alert %d: %v", tagger.ID, alert.ID, err)
			continue
		}
		t.relate(ctx, model.ContentTypeAlert, alert.ID, matched)
	}
}

// TagAnalysis 每次保存都扫描分析备注。
func (t *Tagger) TagAnalysis(ctx context.Context, analysis *model.Analysis, created bool) {
	if analysis == nil {
		return
	}
	t.tagText(ctx, model.ContentTypeAnalysis, analysis.ID, analysis.Notes)
}

// TagComment 每次保存都扫描评论内容。
func (t *Tagger) TagComment(ctx context.Context, comment *model.Comment, created bool) {
	if comment == nil {
		return
	}
	t.tagText(ctx, model.ContentTypeComment, comment.ID, comment.Content)
}

func (t *Tagger) tagText(ctx context.Context, contentType string, objectID uint, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	tags, err := t.tags.FindAll(ctx)
	if err != nil {
		log.Errorf("tag %s %d: failed to load tags: %v", contentType, objectID, err)
		return
	}
	t.relate(ctx, contentType, objectID, MatchTags(text, tags))
}

func (t *Tagger) matchDataTagger(ctx context.Context, tagger model.DataTagger, values []string) ([]model.Tag, error) {
	topicTags, err := t.tags.FindByTopic(ctx, tagger.Topic)
	if err != nil {
		return nil, err
	}

	if !tagger.ExactMatch {
		return MatchTags(strings.Join(values, "\n"), topicTags), nil
	}

	var matched []model.Tag
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if tag, ok := findTagByName(topicTags, value); ok {
			matched = append(matched, tag)
			continue
		}
		if !tagger.CreateTags {
			continue
		}
		tag, err := t.tags.FindOrCreate(ctx, value, tagger.Topic)
		if err != nil {
			return matched, err
		}
		// 标签名全局唯一，同名标签属于其他主题时不关联
		if !strings.EqualFold(tag.Topic, tagger.Topic) {
			log.Warnf("tag %q belongs to topic %q, not %q; skipped", tag.Name, tag.Topic, tagger.Topic)
			continue
		}
		topicTags = append(topicTags, *tag)
		matched = append(matched, *tag)
	}
	return matched, nil
}

// relate 为每个命中的标签追加一条关联，不检查是否已存在。
func (t *Tagger) relate(ctx context.Context, contentType string, objectID uint, tags []model.Tag) {
	for _, tag := range tags {
		relation := &model.TagRelation{
			TagID:       tag.ID,
			ContentType: contentType,
			ObjectID:    objectID,
		}
		if err := t.relations.Create(ctx, relation); err != nil {
			log.Errorf("tag %s %d with %q: %v", contentType, objectID, tag.Name, err)
		}
	}
}

func findTagByName(tags []model.Tag, name string) (model.Tag, bool) {
	for _, tag := range tags {
		if strings.EqualFold(tag.Name, name) {
			return tag, true
		}
	}
	return model.Tag{}, false
}

// lookupField 按点分路径取值，并把命中的值展开为字符串列表（数组、对象取其叶子）。
func lookupField(doc map[string]interface{}, path string) []string {
	var current interface{} = doc
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		if current, ok = obj[part]; !ok {
			return nil
		}
	}
	return flattenValue(current)
}

func flattenValue(v interface{}) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return []string{val}
	case []interface{}:
		var out []string
		for _, item := range val {
			out = append(out, flattenValue(item)...)
		}
		return out
	case map[string]interface{}:
		var out []string
		for _, item := range val {
			out = append(out, flattenValue(item)...)
		}
		return out
	default:
		return []string{fmt.Sprint(val)}
	}
}
