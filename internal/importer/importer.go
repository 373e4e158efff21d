package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"regionaldash/internal/model"
	"regionaldash/internal/store"
)

// ErrNoKnownSheets 工作簿中没有任何可识别的工作表
var ErrNoKnownSheets = errors.New("workbook has no known sheets")

// RowError 单行解析失败
type RowError struct {
	Sheet string `json:"sheet"`
	Row   int    `json:"row"`
	Err   string `json:"error"`
}

// ParseError 工作簿解析失败（汇总所有行错误）
type ParseError struct {
	Rows []RowError
}

func (e *ParseError) Error() string {
	if len(e.Rows) == 0 {
		return "parse workbook failed"
	}
	first := e.Rows[0]
	return fmt.Sprintf("parse workbook failed: %d row errors, first: %s row %d: %s",
		len(e.Rows), first.Sheet, first.Row, first.Err)
}

// 明细行引用的上级记录类型
type refKind int

const (
	refSalesPerson refKind = iota + 1
	refInvoice
)

// reference 明细行对销售人员 / 发票的引用
type reference struct {
	sheet string
	row   int
	kind  refKind
	key   string
}

// Options 导入选项
type Options struct {
	Filename      string
	FileSize      int64
	ClearExisting bool
}

// Result 导入结果
type Result struct {
	BatchID string         `json:"batchId"`
	Sheets  map[string]int `json:"sheets"`
	Skipped []string       `json:"skipped"`
	Rows    int            `json:"rows"`
	Counts  map[string]int `json:"counts"`
}

// Importer 将 xlsx 工作簿导入 SQLite
type Importer struct {
	store  *store.Store
	logger *log.Logger
}

// New 创建导入器
func New(st *store.Store, logger *log.Logger) *Importer {
	if logger == nil {
		logger = log.Default()
	}
	return &Importer{store: st, logger: logger}
}

// Import 读取工作簿并在单个事务中写入；任一行解析失败则整体不写入
func (im *Importer) Import(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	batchID := uuid.NewString()
	logger := im.logger.With("batch", batchID, "file", opts.Filename)

	logID, err := im.store.CreateImportLog(ctx, batchID, opts.Filename, opts.FileSize)
	if err != nil {
		return nil, err
	}

	res, err := im.importWorkbook(ctx, r, opts)
	if err != nil {
		logger.Error("import failed", "err", err)
		if cerr := im.store.CompleteImportLog(ctx, logID, 0, 0, nil, "failed", err.Error()); cerr != nil {
			logger.Warn("update import log failed", "err", cerr)
		}
		return nil, err
	}
	res.BatchID = batchID

	if err := im.store.CompleteImportLog(ctx, logID, len(res.Sheets), res.Rows, res.Skipped, "success", ""); err != nil {
		return nil, err
	}
	logger.Info("import finished", "rows", res.Rows, "skipped", strings.Join(res.Skipped, ","))
	return res, nil
}

func (im *Importer) importWorkbook(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	ds, res, refs, err := readDataset(f)
	if err != nil {
		return nil, err
	}
	if err := im.checkReferences(ctx, ds, refs, opts.ClearExisting); err != nil {
		return nil, err
	}

	if err := im.store.ImportDataset(ctx, ds, store.ImportOptions{ClearExisting: opts.ClearExisting}); err != nil {
		return nil, err
	}
	return res, nil
}

// ReadDataset 解析工作簿中所有已知工作表；未知工作表记入 Skipped
func ReadDataset(f *excelize.File) (*model.Dataset, *Result, error) {
	ds, res, _, err := readDataset(f)
	return ds, res, err
}

func readDataset(f *excelize.File) (*model.Dataset, *Result, []reference, error) {
	var refs []reference
	ds := &model.Dataset{}
	res := &Result{Sheets: map[string]int{}}
	perr := &ParseError{}

	specs := make(map[string]sheetSpec, len(sheetSpecs))
	for _, s := range sheetSpecs {
		specs[normalizeHeader(s.name)] = s
	}

	for _, sheet := range f.GetSheetList() {
		spec, ok := specs[normalizeHeader(sheet)]
		if !ok {
			res.Skipped = append(res.Skipped, sheet)
			continue
		}

		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			res.Sheets[spec.name] = 0
			continue
		}

		header := make([]string, len(rows[0]))
		for i, h := range rows[0] {
			header[i] = normalizeHeader(h)
		}

		n := 0
		for i, cells := range rows[1:] {
			if isBlankRow(cells) {
				continue
			}
			rec := make(record, len(header))
			for j, h := range header {
				if j < len(cells) && h != "" {
					rec[h] = cells[j]
				}
			}
			if err := spec.parse(rec, ds); err != nil {
				perr.Rows = append(perr.Rows, RowError{Sheet: spec.name, Row: i + 2, Err: err.Error()})
				continue
			}
			if spec.ref != nil {
				ref := spec.ref(ds)
				ref.sheet, ref.row = spec.name, i+2
				refs = append(refs, ref)
			}
			n++
		}
		res.Sheets[spec.name] = n
		res.Rows += n
	}

	if len(perr.Rows) > 0 {
		return nil, nil, nil, perr
	}
	if len(res.Sheets) == 0 {
		return nil, nil, nil, ErrNoKnownSheets
	}
	res.Counts = ds.Counts()
	return ds, res, refs, nil
}

// checkReferences 明细行引用的销售人员 / 发票须在工作簿中或已在库中（清空导入时只看工作簿）
func (im *Importer) checkReferences(ctx context.Context, ds *model.Dataset, refs []reference, clearExisting bool) error {
	persons := make(map[string]bool, len(ds.SalesPersons))
	for _, sp := range ds.SalesPersons {
		persons[sp.Name] = true
	}
	invoices := make(map[string]bool, len(ds.Invoices))
	for _, inv := range ds.Invoices {
		invoices[inv.Name] = true
	}

	perr := &ParseError{}
	for _, ref := range refs {
		known, label, exists := persons, "sales person", im.store.HasSalesPerson
		if ref.kind == refInvoice {
			known, label, exists = invoices, "invoice", im.store.HasInvoice
		}
		found, seen := known[ref.key]
		if !seen && !clearExisting {
			var err error
			if found, err = exists(ctx, ref.key); err != nil {
				return err
			}
			known[ref.key] = found
		}
		if !found {
			perr.Rows = append(perr.Rows, RowError{Sheet: ref.sheet, Row: ref.row, Err: fmt.Sprintf("unknown %s %q", label, ref.key)})
		}
	}
	if len(perr.Rows) > 0 {
		return perr
	}
	return nil
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
