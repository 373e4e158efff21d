package importer

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"regionaldash/internal/model"
)

// BuildWorkbook 生成导入模板；ds 不为空时同时写入数据
func BuildWorkbook(ds *model.Dataset) (*excelize.File, error) {
	if ds == nil {
		ds = &model.Dataset{}
	}

	data := map[string][][]any{}
	for _, c := range ds.Companies {
		data[SheetCompanies] = append(data[SheetCompanies], []any{c.Name, c.Abbr, c.DefaultCurrency})
	}
	for _, fy := range ds.FiscalYears {
		data[SheetFiscalYears] = append(data[SheetFiscalYears], []any{fy.Name, fy.StartDate.Format(dateLayout), fy.EndDate.Format(dateLayout)})
	}
	for _, sp := range ds.SalesPersons {
		enabled := "0"
		if sp.Enabled {
			enabled = "1"
		}
		data[SheetSalesPersons] = append(data[SheetSalesPersons], []any{sp.Name, enabled})
	}
	for _, it := range ds.Items {
		data[SheetItems] = append(data[SheetItems], []any{it.Code, it.Name, it.ItemGroup})
	}
	for _, t := range ds.Targets {
		data[SheetTargets] = append(data[SheetTargets], []any{t.SalesPerson, t.FiscalYear, t.ItemGroup, t.TargetAmount})
	}
	for _, inv := range ds.Invoices {
		data[SheetInvoices] = append(data[SheetInvoices], []any{
			inv.Name, inv.Company, inv.Customer, inv.PostingDate.Format(dateLayout), inv.GrandTotal, strconv.Itoa(inv.DocStatus),
		})
	}
	for _, it := range ds.InvoiceItems {
		data[SheetInvoiceItems] = append(data[SheetInvoiceItems], []any{it.Invoice, it.ItemCode, it.Qty, it.Amount})
	}
	for _, m := range ds.SalesTeam {
		data[SheetSalesTeam] = append(data[SheetSalesTeam], []any{m.Invoice, m.SalesPerson, m.AllocatedPercentage})
	}

	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, spec := range sheetSpecs {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", spec.name); err != nil {
				_ = f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(spec.name); err != nil {
			_ = f.Close()
			return nil, err
		}

		header := make([]any, len(spec.headers))
		for j, h := range spec.headers {
			header[j] = h
		}
		if err := f.SetSheetRow(spec.name, "A1", &header); err != nil {
			_ = f.Close()
			return nil, err
		}
		_ = f.SetRowStyle(spec.name, 1, 1, headerStyle)

		for j, row := range data[spec.name] {
			cell := fmt.Sprintf("A%d", j+2)
			if err := f.SetSheetRow(spec.name, cell, &row); err != nil {
				_ = f.Close()
				return nil, err
			}
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}
