package parser

import (
	"regexp"
	"strings"

	"github.com/jimmytdh/prconverter/dto"
)

var (
	numberTokenRegex  = regexp.MustCompile(`^\d[\d,]*(?:\.\d+)?$`)
	numberGroupRegex  = regexp.MustCompile(`^\d[\d,]*(?:\.\d+)?(?:\s+\d[\d,]*(?:\.\d+)?){1,2}$`)
	numberScanRegex   = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
	leadingStockRegex = regexp.MustCompile(`^\d{4,}$`)
	numericUnitRegex  = regexp.MustCompile(`^\d{2,}$`)
)

// assignNumericColumns maps a right-aligned run of numeric tokens onto the
// quantity / unit cost / total cost columns. One number is a bare quantity;
// two are quantity and total (unit cost derived); three or more fill all
// three columns from the right, earlier numbers ignored.
func assignNumericColumns(numbers []float64, item *dto.PurchaseRequestItem) {
	switch n := len(numbers); {
	case n == 1:
		item.Quantity = floatPtr(numbers[0])
	case n == 2:
		item.Quantity = floatPtr(numbers[0])
		item.TotalCost = floatPtr(numbers[1])
		if numbers[0] > 0 {
			item.UnitCost = floatPtr(round2(numbers[1] / numbers[0]))
		}
	case n >= 3:
		item.Quantity = floatPtr(numbers[n-3])
		item.UnitCost = floatPtr(numbers[n-2])
		item.TotalCost = floatPtr(numbers[n-1])
	}
}

// deriveTotalCost fills a missing total from quantity x unit cost.
func deriveTotalCost(item *dto.PurchaseRequestItem) {
	if item.TotalCost == nil && item.Quantity != nil && item.UnitCost != nil {
		item.TotalCost = floatPtr(round2(*item.Quantity * *item.UnitCost))
	}
}

// parseItemBaseLine parses one compact table row where every column landed
// on the same line. Numeric columns are consumed from the right; the left
// remainder is split into stock/property no., unit and description.
func parseItemBaseLine(line string) *dto.PurchaseRequestItem {
	cleaned := CleanValue(line)
	if cleaned == nil {
		return nil
	}
	line = *cleaned

	if IsTableStopLine(line) || IsHeaderLikeTableLine(line) {
		return nil
	}

	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return nil
	}

	// Pull numeric columns from the right side: Quantity, Unit Cost, Total Cost.
	idx := len(tokens) - 1
	for idx >= 0 && numberTokenRegex.MatchString(tokens[idx]) {
		idx--
	}
	tailNumeric := tokens[idx+1:]

	left := tokens[:idx+1]
	if len(left) < 2 {
		return nil
	}

	item := &dto.PurchaseRequestItem{}
	var descriptionTokens []string

	// Left-side columns: Stock/Property No., Unit, Item Description.
	switch {
	case leadingStockRegex.MatchString(left[0]) && numericUnitRegex.MatchString(left[1]):
		// Two leading numeric codes: stock + unit.
		item.StockPropertyNo = CleanValue(left[0])
		item.Unit = CleanValue(left[1])
		descriptionTokens = left[2:]
	case leadingStockRegex.MatchString(left[0]) && IsLikelyUnitToken(left[1]) && len(left) >= 3:
		// Leading stock code + textual/alnum unit.
		item.StockPropertyNo = CleanValue(left[0])
		item.Unit = CleanValue(left[1])
		descriptionTokens = left[2:]
	case leadingStockRegex.MatchString(left[0]):
		// Common OCR case: only Unit is clearly visible, stock/property is blank.
		item.Unit = CleanValue(left[0])
		descriptionTokens = left[1:]
	default:
		item.Unit = CleanValue(left[0])
		descriptionTokens = left[1:]
	}

	item.ItemDescription = CleanValue(strings.Join(descriptionTokens, " "))
	if item.ItemDescription == nil && len(tailNumeric) == 0 {
		return nil
	}

	var numbers []float64
	for _, tok := range tailNumeric {
		if n := ParseMoney(tok); n != nil {
			numbers = append(numbers, *n)
		}
	}

	assignNumericColumns(numbers, item)
	deriveTotalCost(item)

	if item.IsEmpty() {
		return nil
	}
	return item
}

// parseItemFromRowBlock converts one row block (a row-start line plus its
// continuation lines) into an item. Continuation lines are either appended
// to the description or, when purely numeric, accumulated into the numeric
// column list.
func parseItemFromRowBlock(block []string) *dto.PurchaseRequestItem {
	var lines []string
	for _, raw := range block {
		if cleaned := CleanValue(raw); cleaned != nil {
			lines = append(lines, *cleaned)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	first := lines[0]
	direct := parseItemBaseLine(first)

	// Single compact line: use the direct parse when it already carries a
	// description.
	if len(lines) == 1 && direct != nil && direct.ItemDescription != nil {
		return direct
	}

	m := rowStartRegex.FindStringSubmatch(first)
	if m == nil {
		return parseItemBaseLine(strings.Join(lines, " "))
	}

	item := &dto.PurchaseRequestItem{StockPropertyNo: CleanValue(m[1])}
	rest := CleanValue(m[2])

	var descParts []string
	if direct != nil {
		if direct.Unit != nil && (item.StockPropertyNo == nil || *direct.Unit != *item.StockPropertyNo) {
			item.Unit = direct.Unit
		}
		if direct.ItemDescription != nil {
			descParts = append(descParts, *direct.ItemDescription)
		} else if rest != nil {
			descParts = append(descParts, *rest)
		}
		item.Quantity = direct.Quantity
		item.UnitCost = direct.UnitCost
		item.TotalCost = direct.TotalCost
	} else if rest != nil {
		descParts = append(descParts, *rest)
	}

	var numbers []float64
	for _, line := range lines[1:] {
		if IsTableStopLine(line) || IsHeaderLikeTableLine(line) {
			continue
		}

		if numberTokenRegex.MatchString(line) {
			if n := ParseMoney(line); n != nil {
				numbers = append(numbers, *n)
			}
			continue
		}

		// Numeric triplet lines: "qty unit_cost total_cost".
		if numberGroupRegex.MatchString(line) {
			for _, tok := range numberScanRegex.FindAllString(line, -1) {
				if n := ParseMoney(tok); n != nil {
					numbers = append(numbers, *n)
				}
			}
			continue
		}

		descParts = append(descParts, line)
	}

	// A unit token stranded at the start of the description block belongs
	// in the Unit column, but only when the unit is still unknown.
	if item.Unit == nil && len(descParts) > 0 {
		tokens := strings.Fields(descParts[0])
		if len(tokens) > 0 && IsLikelyUnitToken(tokens[0]) {
			item.Unit = CleanValue(tokens[0])
			descParts[0] = strings.Join(tokens[1:], " ")
		}
	}

	var keep []string
	for _, part := range descParts {
		if part != "" {
			keep = append(keep, part)
		}
	}
	item.ItemDescription = CleanValue(strings.Join(keep, " "))

	if len(numbers) > 0 {
		assignNumericColumns(numbers, item)
	}
	deriveTotalCost(item)

	if item.IsEmpty() {
		return nil
	}
	return item
}
