package model

import "time"

// 物料组：销售目标按物料组拆分为产品目标与 SIL 目标
const (
	ItemGroupProducts = "Products"
	ItemGroupSIL      = "SIL"
)

// 单据状态（与 ERP 一致：0 草稿 / 1 已提交 / 2 已取消）
const (
	DocStatusDraft     = 0
	DocStatusSubmitted = 1
	DocStatusCancelled = 2
)

// Company 公司
type Company struct {
	Name            string `json:"name"`
	Abbr            string `json:"abbr"`
	DefaultCurrency string `json:"defaultCurrency"`
}

// FiscalYear 会计年度
type FiscalYear struct {
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// Contains 判断日期是否落在会计年度内（含首尾）
func (fy FiscalYear) Contains(d time.Time) bool {
	return !d.Before(fy.StartDate) && !d.After(fy.EndDate)
}

// SalesPerson 销售人员
type SalesPerson struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Item 物料
type Item struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	ItemGroup string `json:"itemGroup"`
}

// TargetDetail 销售人员目标明细
type TargetDetail struct {
	SalesPerson  string  `json:"salesPerson"`
	FiscalYear   string  `json:"fiscalYear"`
	ItemGroup    string  `json:"itemGroup"`
	TargetAmount float64 `json:"targetAmount"`
}

// SalesInvoice 销售发票
type SalesInvoice struct {
	Name        string    `json:"name"`
	Company     string    `json:"company"`
	Customer    string    `json:"customer"`
	PostingDate time.Time `json:"postingDate"`
	GrandTotal  float64   `json:"grandTotal"`
	DocStatus   int       `json:"docStatus"`
}

// SalesInvoiceItem 发票行
type SalesInvoiceItem struct {
	Invoice  string  `json:"invoice"`
	ItemCode string  `json:"itemCode"`
	Qty      float64 `json:"qty"`
	Amount   float64 `json:"amount"`
}

// SalesTeamMember 发票的销售团队成员
type SalesTeamMember struct {
	Invoice             string  `json:"invoice"`
	SalesPerson         string  `json:"salesPerson"`
	AllocatedPercentage float64 `json:"allocatedPercentage"`
}

// Goals 单个销售人员在某会计年度的目标汇总
type Goals struct {
	Sales float64 `json:"sales"`
	SIL   float64 `json:"sil"`
}

// SalesQuery 业绩汇总查询条件
type SalesQuery struct {
	Company  string
	FromDate time.Time
	ToDate   time.Time
}

// UserDefaults 当前用户的默认值（默认公司 / 默认会计年度）
type UserDefaults struct {
	FiscalYear string `json:"fiscalYear"`
	Company    string `json:"company"`
}

// Dataset 一次导入的完整数据集
type Dataset struct {
	Companies    []Company
	FiscalYears  []FiscalYear
	SalesPersons []SalesPerson
	Items        []Item
	Targets      []TargetDetail
	Invoices     []SalesInvoice
	InvoiceItems []SalesInvoiceItem
	SalesTeam    []SalesTeamMember
}

// Counts 数据集各部分条数
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		"companies":    len(d.Companies),
		"fiscalYears":  len(d.FiscalYears),
		"salesPersons": len(d.SalesPersons),
		"items":        len(d.Items),
		"targets":      len(d.Targets),
		"invoices":     len(d.Invoices),
		"invoiceItems": len(d.InvoiceItems),
		"salesTeam":    len(d.SalesTeam),
	}
}
