package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jimmytdh/prconverter/dto"
)

const (
	sheetName  = "PR"
	entityName = "Entity Name: CEBU SOUTH MEDICAL CENTER"

	// Blank rows above and below the form reserved for the letterhead.
	headerSpacerRows = 5
	footerSpacerRows = 5
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_\-]`)

// FileName builds the download name for a record's exported workbook.
func FileName(rec *dto.PurchaseRequestRecord) string {
	base := ""
	if rec.PRNo != nil {
		base = strings.TrimSpace(*rec.PRNo)
	}
	if base == "" {
		base = fmt.Sprintf("record_%d", rec.ID)
	}
	return "PR_" + unsafeFileChars.ReplaceAllString(base, "_") + ".xlsx"
}

// exportRow is one renderable line of the item table. The stock/property
// number, when present, is displayed under the Unit column of the form.
type exportRow struct {
	unitDisplay string
	description string
	quantity    *float64
	unitCost    *float64
	totalCost   *float64
}

func buildExportRows(rec *dto.PurchaseRequestRecord) []exportRow {
	var rows []exportRow
	for _, item := range rec.Items {
		if item.IsEmpty() {
			continue
		}

		unitDisplay := strValue(item.Unit)
		if stock := strValue(item.StockPropertyNo); stock != "" {
			unitDisplay = stock
		}

		rows = append(rows, exportRow{
			unitDisplay: unitDisplay,
			description: strValue(item.ItemDescription),
			quantity:    item.Quantity,
			unitCost:    item.UnitCost,
			totalCost:   item.TotalCost,
		})
	}

	if len(rows) == 0 {
		// Single-item consumers store the first row on the record itself.
		rows = append(rows, exportRow{
			unitDisplay: strValue(rec.Unit),
			description: strValue(rec.ItemDescription),
			quantity:    rec.Quantity,
			unitCost:    rec.UnitCost,
			totalCost:   rec.TotalCost,
		})
	}
	return rows
}

// BuildPurchaseRequestXLSX renders a stored record into the one-page PR
// form template and returns the workbook bytes.
func BuildPurchaseRequestXLSX(rec *dto.PurchaseRequestRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	rows := buildExportRows(rec)

	// Row layout: form fields above the table, then items, total, purpose
	// and the two-column signature block.
	rr := func(r int) int { return r + headerSpacerRows }
	rowItemStart := rr(7)
	rowItemEnd := rowItemStart + len(rows) - 1
	rowTotal := rowItemEnd + 1
	rowPurpose := rowTotal + 2
	rowReqHeader := rowPurpose + 3
	rowSigLabel := rowReqHeader + 2
	rowSigNames := rowSigLabel + 1
	rowFooter := rowSigNames + 1

	widths := []float64{16, 14, 23, 10, 12, 10, 10, 16}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, err
	}

	captionStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    boxBorder(),
	})
	if err != nil {
		return nil, err
	}

	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		Border:    boxBorder(),
	})
	if err != nil {
		return nil, err
	}

	numberStyle, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: strPtr("#,##0.00"),
		Alignment:    &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		Border:       boxBorder(),
	})
	if err != nil {
		return nil, err
	}

	set := func(cell string, value any, style int) error {
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return err
		}
		return f.SetCellStyle(sheetName, cell, cell, style)
	}

	// Header fields.
	if err := set(cell("A", rr(1)), entityName, headerStyle); err != nil {
		return nil, err
	}
	if err := set(cell("G", rr(1)), "Fund Cluster:\n"+strValue(rec.FundCluster), headerStyle); err != nil {
		return nil, err
	}
	if err := set(cell("A", rr(3)), "Office/Section :", headerStyle); err != nil {
		return nil, err
	}
	if err := set(cell("C", rr(3)), "PR No.: "+strValue(rec.PRNo), headerStyle); err != nil {
		return nil, err
	}
	if err := set(cell("G", rr(3)), "Date: "+strValue(rec.RequestDate), headerStyle); err != nil {
		return nil, err
	}
	if err := set(cell("C", rr(4)), "Responsibility Center Code : "+strValue(rec.ResponsibilityCenterCode), headerStyle); err != nil {
		return nil, err
	}

	// Table captions.
	captions := map[string]string{
		cell("A", rr(5)): "Stock/\nProperty\nNo.",
		cell("B", rr(5)): "Unit",
		cell("C", rr(5)): "Item Description",
		cell("E", rr(5)): "Quantity",
		cell("G", rr(5)): "Unit\nCost",
		cell("H", rr(5)): "Total Cost",
	}
	for ref, caption := range captions {
		if err := set(ref, caption, captionStyle); err != nil {
			return nil, err
		}
	}

	// Item rows.
	for i, row := range rows {
		r := rowItemStart + i
		if err := set(cell("B", r), row.unitDisplay, cellStyle); err != nil {
			return nil, err
		}
		if err := set(cell("C", r), row.description, cellStyle); err != nil {
			return nil, err
		}
		if err := setNumber(f, cell("E", r), row.quantity, numberStyle); err != nil {
			return nil, err
		}
		if err := setNumber(f, cell("G", r), row.unitCost, numberStyle); err != nil {
			return nil, err
		}
		if err := setNumber(f, cell("H", r), row.totalCost, numberStyle); err != nil {
			return nil, err
		}
	}

	// Total row: the stored total, or the item sum when nothing was stored.
	total := rec.TotalCost
	if total == nil {
		total = sumRowTotals(rows)
	}
	if err := set(cell("G", rowTotal), "Total Cost", captionStyle); err != nil {
		return nil, err
	}
	if err := setNumber(f, cell("H", rowTotal), total, numberStyle); err != nil {
		return nil, err
	}

	if err := set(cell("A", rowPurpose), "Purpose:\nState your purpose here..", cellStyle); err != nil {
		return nil, err
	}

	// Signature block.
	if err := set(cell("C", rowReqHeader), "Requested by:", captionStyle); err != nil {
		return nil, err
	}
	if err := set(cell("F", rowReqHeader), "Approved by:", captionStyle); err != nil {
		return nil, err
	}
	if err := set(cell("A", rowSigLabel), "Signature :\nPrinted Name :\nDesignation :", cellStyle); err != nil {
		return nil, err
	}

	requestedBlock := strings.TrimSpace(strValue(rec.RequestedBy) + "\n" + strValue(rec.Designation1))
	approvedBlock := strings.TrimSpace(strValue(rec.ApprovedBy) + "\n" + strValue(rec.Designation2))
	if err := set(cell("C", rowSigNames), requestedBlock, cellStyle); err != nil {
		return nil, err
	}
	if err := set(cell("F", rowSigNames), approvedBlock, cellStyle); err != nil {
		return nil, err
	}

	if err := set(cell("A", rowFooter), "See back page for instructions", headerStyle); err != nil {
		return nil, err
	}

	merges := [][2]string{
		{cell("A", rr(1)), cell("F", rr(2))},
		{cell("G", rr(1)), cell("H", rr(2))},
		{cell("A", rr(3)), cell("B", rr(4))},
		{cell("C", rr(3)), cell("F", rr(3))},
		{cell("C", rr(4)), cell("F", rr(4))},
		{cell("G", rr(3)), cell("H", rr(4))},
		{cell("A", rr(5)), cell("A", rr(6))},
		{cell("B", rr(5)), cell("B", rr(6))},
		{cell("C", rr(5)), cell("D", rr(6))},
		{cell("E", rr(5)), cell("F", rr(6))},
		{cell("G", rr(5)), cell("G", rr(6))},
		{cell("H", rr(5)), cell("H", rr(6))},
		{cell("A", rowPurpose), cell("H", rowPurpose + 2)},
		{cell("C", rowReqHeader), cell("E", rowReqHeader + 1)},
		{cell("F", rowReqHeader), cell("H", rowReqHeader + 1)},
		{cell("A", rowSigLabel), cell("B", rowSigNames)},
		{cell("C", rowSigNames), cell("E", rowSigNames)},
		{cell("F", rowSigNames), cell("H", rowSigNames)},
		{cell("A", rowFooter), cell("H", rowFooter)},
	}
	for r := rowItemStart; r <= rowItemEnd; r++ {
		merges = append(merges, [2]string{cell("C", r), cell("D", r)})
		merges = append(merges, [2]string{cell("E", r), cell("F", r)})
	}
	for _, m := range merges {
		if err := f.MergeCell(sheetName, m[0], m[1]); err != nil {
			return nil, err
		}
	}

	for r := 1; r <= headerSpacerRows; r++ {
		if err := f.SetRowHeight(sheetName, r, 24); err != nil {
			return nil, err
		}
	}
	for r := rowFooter + 1; r <= rowFooter+footerSpacerRows; r++ {
		if err := f.SetRowHeight(sheetName, r, 24); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func boxBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}
}

func setNumber(f *excelize.File, ref string, value *float64, style int) error {
	if value != nil {
		if err := f.SetCellValue(sheetName, ref, *value); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheetName, ref, ref, style)
}

func sumRowTotals(rows []exportRow) *float64 {
	sum := 0.0
	found := false
	for _, row := range rows {
		if row.totalCost != nil {
			sum += *row.totalCost
			found = true
		}
	}
	if !found {
		return nil
	}
	return &sum
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}
