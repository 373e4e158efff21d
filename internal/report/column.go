package report

// FieldType 字段类型（决定基础格式化方式）
type FieldType string

const (
	FieldLink     FieldType = "Link"
	FieldDate     FieldType = "Date"
	FieldData     FieldType = "Data"
	FieldCurrency FieldType = "Currency"
	FieldPercent  FieldType = "Percent"
	FieldFloat    FieldType = "Float"
	FieldInt      FieldType = "Int"
)

// Column 报表列描述
type Column struct {
	FieldName string    `json:"fieldname"`
	Label     string    `json:"label"`
	FieldType FieldType `json:"fieldtype"`
	Options   string    `json:"options,omitempty"`
	Width     int       `json:"width,omitempty"`
	Precision int       `json:"precision,omitempty"`
}

// IsNumeric 是否为数值类字段
func (c Column) IsNumeric() bool {
	switch c.FieldType {
	case FieldCurrency, FieldPercent, FieldFloat, FieldInt:
		return true
	}
	return false
}
