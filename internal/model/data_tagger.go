package model

// DataTagger 描述"从告警原始数据的哪个字段取值、用哪个主题下的标签去匹配"。
//   - FieldName 是 Alert.Data 中的点分路径，例如 "source.host"
//   - ExactMatch 为 true 时整个字段值作为标签名查找；否则在字段文本中搜索主题下的全部标签名
//   - CreateTags 仅在 ExactMatch 时生效：标签不存在则自动创建
type DataTagger struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FieldName  string `gorm:"type:varchar(255);not null" json:"fieldName"`
	Topic      string `gorm:"type:varchar(100);not null" json:"topic"`
	ExactMatch bool   `gorm:"default:false" json:"exactMatch"`
	CreateTags bool   `gorm:"default:false" json:"createTags"`
}

// TableName 指定 GORM 使用的表名
func (DataTagger) TableName() string {
	return "data_taggers"
}
