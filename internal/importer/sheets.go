package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"regionaldash/internal/model"
)

// 工作表名称
const (
	SheetCompanies    = "Companies"
	SheetFiscalYears  = "Fiscal Years"
	SheetSalesPersons = "Sales Persons"
	SheetItems        = "Items"
	SheetTargets      = "Targets"
	SheetInvoices     = "Invoices"
	SheetInvoiceItems = "Invoice Items"
	SheetSalesTeam    = "Sales Team"
)

// sheetSpec 工作表的表头与行解析
type sheetSpec struct {
	name    string
	headers []string
	parse   func(r record, ds *model.Dataset) error
	// ref 刚解析出的明细行所引用的上级记录
	ref func(ds *model.Dataset) reference
}

var sheetSpecs = []sheetSpec{
	{
		name:    SheetCompanies,
		headers: []string{"Name", "Abbr", "Default Currency"},
		parse: func(r record, ds *model.Dataset) error {
			name, err := r.required("Name")
			if err != nil {
				return err
			}
			ds.Companies = append(ds.Companies, model.Company{
				Name:            name,
				Abbr:            r.get("Abbr"),
				DefaultCurrency: strings.ToUpper(r.get("Default Currency")),
			})
			return nil
		},
	},
	{
		name:    SheetFiscalYears,
		headers: []string{"Name", "Start Date", "End Date"},
		parse: func(r record, ds *model.Dataset) error {
			name, err := r.required("Name")
			if err != nil {
				return err
			}
			start, err := r.date("Start Date")
			if err != nil {
				return err
			}
			end, err := r.date("End Date")
			if err != nil {
				return err
			}
			if end.Before(start) {
				return fmt.Errorf("end date %s before start date %s", end.Format(dateLayout), start.Format(dateLayout))
			}
			ds.FiscalYears = append(ds.FiscalYears, model.FiscalYear{Name: name, StartDate: start, EndDate: end})
			return nil
		},
	},
	{
		name:    SheetSalesPersons,
		headers: []string{"Name", "Enabled"},
		parse: func(r record, ds *model.Dataset) error {
			name, err := r.required("Name")
			if err != nil {
				return err
			}
			enabled, err := r.boolean("Enabled", true)
			if err != nil {
				return err
			}
			ds.SalesPersons = append(ds.SalesPersons, model.SalesPerson{Name: name, Enabled: enabled})
			return nil
		},
	},
	{
		name:    SheetItems,
		headers: []string{"Item Code", "Item Name", "Item Group"},
		parse: func(r record, ds *model.Dataset) error {
			code, err := r.required("Item Code")
			if err != nil {
				return err
			}
			ds.Items = append(ds.Items, model.Item{Code: code, Name: r.get("Item Name"), ItemGroup: r.get("Item Group")})
			return nil
		},
	},
	{
		name:    SheetTargets,
		headers: []string{"Sales Person", "Fiscal Year", "Item Group", "Target Amount"},
		parse: func(r record, ds *model.Dataset) error {
			t := model.TargetDetail{}
			var err error
			if t.SalesPerson, err = r.required("Sales Person"); err != nil {
				return err
			}
			if t.FiscalYear, err = r.required("Fiscal Year"); err != nil {
				return err
			}
			if t.ItemGroup, err = r.required("Item Group"); err != nil {
				return err
			}
			if t.TargetAmount, err = r.number("Target Amount"); err != nil {
				return err
			}
			ds.Targets = append(ds.Targets, t)
			return nil
		},
		ref: func(ds *model.Dataset) reference {
			return reference{kind: refSalesPerson, key: ds.Targets[len(ds.Targets)-1].SalesPerson}
		},
	},
	{
		name:    SheetInvoices,
		headers: []string{"Name", "Company", "Customer", "Posting Date", "Grand Total", "Docstatus"},
		parse: func(r record, ds *model.Dataset) error {
			inv := model.SalesInvoice{Customer: r.get("Customer")}
			var err error
			if inv.Name, err = r.required("Name"); err != nil {
				return err
			}
			if inv.Company, err = r.required("Company"); err != nil {
				return err
			}
			if inv.PostingDate, err = r.date("Posting Date"); err != nil {
				return err
			}
			if inv.GrandTotal, err = r.number("Grand Total"); err != nil {
				return err
			}
			status, err := r.number("Docstatus")
			if err != nil {
				return err
			}
			inv.DocStatus = int(status)
			if inv.DocStatus < model.DocStatusDraft || inv.DocStatus > model.DocStatusCancelled {
				return fmt.Errorf("docstatus must be 0, 1 or 2, got %d", inv.DocStatus)
			}
			ds.Invoices = append(ds.Invoices, inv)
			return nil
		},
	},
	{
		name:    SheetInvoiceItems,
		headers: []string{"Invoice", "Item Code", "Qty", "Amount"},
		parse: func(r record, ds *model.Dataset) error {
			it := model.SalesInvoiceItem{}
			var err error
			if it.Invoice, err = r.required("Invoice"); err != nil {
				return err
			}
			if it.ItemCode, err = r.required("Item Code"); err != nil {
				return err
			}
			if it.Qty, err = r.number("Qty"); err != nil {
				return err
			}
			if it.Amount, err = r.number("Amount"); err != nil {
				return err
			}
			ds.InvoiceItems = append(ds.InvoiceItems, it)
			return nil
		},
		ref: func(ds *model.Dataset) reference {
			return reference{kind: refInvoice, key: ds.InvoiceItems[len(ds.InvoiceItems)-1].Invoice}
		},
	},
	{
		name:    SheetSalesTeam,
		headers: []string{"Invoice", "Sales Person", "Allocated Percentage"},
		parse: func(r record, ds *model.Dataset) error {
			m := model.SalesTeamMember{}
			var err error
			if m.Invoice, err = r.required("Invoice"); err != nil {
				return err
			}
			if m.SalesPerson, err = r.required("Sales Person"); err != nil {
				return err
			}
			if m.AllocatedPercentage, err = r.number("Allocated Percentage"); err != nil {
				return err
			}
			ds.SalesTeam = append(ds.SalesTeam, m)
			return nil
		},
		ref: func(ds *model.Dataset) reference {
			return reference{kind: refInvoice, key: ds.SalesTeam[len(ds.SalesTeam)-1].Invoice}
		},
	},
}

const dateLayout = "2006-01-02"

var dateLayouts = []string{dateLayout, "2006/01/02", "01/02/2006", "1/2/2006", "01-02-06", "2006-01-02 15:04:05"}

// record 一行数据，按规范化表头取值
type record map[string]string

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer("_", "", " ", "", "-", "").Replace(h)
	return h
}

func (r record) get(header string) string {
	return strings.TrimSpace(r[normalizeHeader(header)])
}

func (r record) required(header string) (string, error) {
	v := r.get(header)
	if v == "" {
		return "", fmt.Errorf("missing %s", header)
	}
	return v, nil
}

func (r record) number(header string) (float64, error) {
	v := strings.ReplaceAll(r.get(header), ",", "")
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", header, v)
	}
	return f, nil
}

func (r record) boolean(header string, def bool) (bool, error) {
	switch strings.ToLower(r.get(header)) {
	case "":
		return def, nil
	case "1", "yes", "y", "true":
		return true, nil
	case "0", "no", "n", "false":
		return false, nil
	default:
		return false, fmt.Errorf("%s: invalid boolean %q", header, r.get(header))
	}
}

// date 支持文本日期与 Excel 序列号
func (r record) date(header string) (time.Time, error) {
	v, err := r.required(header)
	if err != nil {
		return time.Time{}, err
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("%s: invalid excel date %q", header, v)
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: invalid date %q", header, v)
}
