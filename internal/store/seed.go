package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"regionaldash/internal/model"
)

// DemoCompany 演示数据中的公司
const DemoCompany = "SurgiShop"

// DemoDataset 生成演示数据：会计年度取 today 所在自然年，发票落在 today 前 10 天。
// Alice 超额完成，Bob 接近目标，Carol 远低于目标，Dave 已停用。
func DemoDataset(today time.Time) *model.Dataset {
	y, m, d := today.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	fyName := strconv.Itoa(y)
	posted := day.AddDate(0, 0, -10)

	ds := &model.Dataset{
		Companies: []model.Company{{Name: DemoCompany, Abbr: "SS", DefaultCurrency: "USD"}},
		FiscalYears: []model.FiscalYear{{
			Name:      fyName,
			StartDate: time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC),
		}},
		SalesPersons: []model.SalesPerson{
			{Name: "Alice", Enabled: true},
			{Name: "Bob", Enabled: true},
			{Name: "Carol", Enabled: true},
			{Name: "Dave", Enabled: false},
		},
		Items: []model.Item{
			{Code: "P-100", Name: "Surgical Kit", ItemGroup: model.ItemGroupProducts},
			{Code: "SIL-1", Name: "SIL Implant", ItemGroup: model.ItemGroupSIL},
		},
		Targets: []model.TargetDetail{
			{SalesPerson: "Alice", FiscalYear: fyName, ItemGroup: model.ItemGroupProducts, TargetAmount: 10000},
			{SalesPerson: "Alice", FiscalYear: fyName, ItemGroup: model.ItemGroupSIL, TargetAmount: 2000},
			{SalesPerson: "Bob", FiscalYear: fyName, ItemGroup: model.ItemGroupProducts, TargetAmount: 10000},
			{SalesPerson: "Bob", FiscalYear: fyName, ItemGroup: model.ItemGroupSIL, TargetAmount: 2000},
			{SalesPerson: "Carol", FiscalYear: fyName, ItemGroup: model.ItemGroupProducts, TargetAmount: 10000},
			{SalesPerson: "Dave", FiscalYear: fyName, ItemGroup: model.ItemGroupProducts, TargetAmount: 5000},
		},
	}

	addInvoice := func(name, person string, date time.Time, status int, products, sil float64) {
		ds.Invoices = append(ds.Invoices, model.SalesInvoice{
			Name:        name,
			Company:     DemoCompany,
			Customer:    "Demo Hospital",
			PostingDate: date,
			GrandTotal:  products + sil,
			DocStatus:   status,
		})
		if products > 0 {
			ds.InvoiceItems = append(ds.InvoiceItems, model.SalesInvoiceItem{Invoice: name, ItemCode: "P-100", Qty: 1, Amount: products})
		}
		if sil > 0 {
			ds.InvoiceItems = append(ds.InvoiceItems, model.SalesInvoiceItem{Invoice: name, ItemCode: "SIL-1", Qty: 1, Amount: sil})
		}
		ds.SalesTeam = append(ds.SalesTeam, model.SalesTeamMember{Invoice: name, SalesPerson: person, AllocatedPercentage: 100})
	}

	addInvoice("SINV-0001", "Alice", posted, model.DocStatusSubmitted, 9500, 2500)
	addInvoice("SINV-0002", "Bob", posted, model.DocStatusSubmitted, 6400, 1600)
	addInvoice("SINV-0003", "Carol", posted, model.DocStatusSubmitted, 1000, 0)
	// 草稿与区间外的发票不计入
	addInvoice("SINV-0004", "Alice", posted, model.DocStatusDraft, 5000, 0)
	addInvoice("SINV-0005", "Bob", day.AddDate(-1, 0, 0), model.DocStatusSubmitted, 50000, 0)

	return ds
}

// Seed 写入演示数据并设置默认公司 / 会计年度
func (s *Store) Seed(ctx context.Context, today time.Time) error {
	ds := DemoDataset(today)
	if err := s.ImportDataset(ctx, ds, ImportOptions{ClearExisting: true}); err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	return s.SetUserDefaults(ctx, model.UserDefaults{
		Company:    DemoCompany,
		FiscalYear: ds.FiscalYears[0].Name,
	})
}
