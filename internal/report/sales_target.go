package report

// SalesTargetAchievementName 报表名称
const SalesTargetAchievementName = "Sales Target Achievement"

// 列字段名
const (
	ColumnSalesPerson = "sales_person"
	ColumnTotalSales  = "total_sales"
	ColumnSalesGoal   = "sales_goal"
	ColumnCurrentSIL  = "current_sil"
	ColumnSILGoal     = "sil_goal"
)

// SalesTargetColumns 报表列
func SalesTargetColumns() []Column {
	return []Column{
		{FieldName: ColumnSalesPerson, Label: "REP", FieldType: FieldLink, Options: "Sales Person", Width: 180},
		{FieldName: ColumnTotalSales, Label: "Current Account Rev", FieldType: FieldCurrency, Width: 150},
		{FieldName: ColumnSalesGoal, Label: "Account Goal", FieldType: FieldCurrency, Width: 130},
		{FieldName: ColumnCurrentSIL, Label: "Current SIL", FieldType: FieldCurrency, Width: 130},
		{FieldName: ColumnSILGoal, Label: "Goal SIL", FieldType: FieldCurrency, Width: 130},
		{FieldName: ColumnRevenueGoalPercent, Label: "REV Goal", FieldType: FieldPercent, Width: 120},
		{FieldName: ColumnSILGoalPercent, Label: "SIL Goal", FieldType: FieldPercent, Width: 120},
	}
}

// NewSalesTargetAchievement 构建销售目标达成报表定义
func NewSalesTargetAchievement(exec Executor, formatter CellFormatter) *Definition {
	return &Definition{
		Name:       SalesTargetAchievementName,
		RefDocType: "Sales Person",
		Filters:    SalesTargetFilters,
		Columns:    SalesTargetColumns(),
		Formatter:  formatter,
		Executor:   exec,
	}
}
