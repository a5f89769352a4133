package parser

import (
	"regexp"
	"strings"

	"github.com/jimmytdh/prconverter/dto"
)

var (
	stockCodeRegex   = regexp.MustCompile(`^\d{7,10}$`)
	trailingQtyRegex = regexp.MustCompile(`^(.*\D)\s+(\d[\d,]*(?:\.\d+)?)$`)
)

// normalizeItemsColumnAlignment repairs rows where the stock/property and
// unit columns slid one position left, which shows up as a 7-10 digit
// "unit" on a row with no stock code. The pass runs only when that signal
// is present so correctly aligned tables are left untouched.
func normalizeItemsColumnAlignment(items []dto.PurchaseRequestItem) []dto.PurchaseRequestItem {
	if len(items) == 0 {
		return items
	}

	slid := false
	for _, item := range items {
		if item.StockPropertyNo == nil && item.Unit != nil && stockCodeRegex.MatchString(*item.Unit) {
			slid = true
			break
		}
	}
	if !slid {
		return items
	}

	for i := range items {
		item := &items[i]
		if item.StockPropertyNo == nil || !stockCodeRegex.MatchString(*item.StockPropertyNo) {
			continue
		}

		if item.Unit == nil {
			item.Unit = item.StockPropertyNo
			item.StockPropertyNo = nil
			continue
		}

		if !isStrictUnitToken(*item.Unit) {
			desc := *item.Unit
			if item.ItemDescription != nil {
				desc += " " + *item.ItemDescription
			}
			item.ItemDescription = CleanValue(desc)
			item.Unit = item.StockPropertyNo
			item.StockPropertyNo = nil
		}
	}

	return items
}

// isStrictUnitToken accepts only the closed unit vocabulary or a purely
// numeric token; looser unit-like codes count as description text here.
func isStrictUnitToken(token string) bool {
	return commonUnits[strings.ToLower(token)] || numericTokenRegex.MatchString(token)
}

// normalizeTrailingDescriptionQuantity recovers rows where layout
// flattening folded the quantity into the description column, e.g.
// "STAPLE REMOVER, PLIER TYPE 100" -> qty=100. Only rows with no numeric
// column at all are touched.
func normalizeTrailingDescriptionQuantity(items []dto.PurchaseRequestItem) []dto.PurchaseRequestItem {
	for i := range items {
		item := &items[i]
		if item.ItemDescription == nil || item.Quantity != nil || item.UnitCost != nil || item.TotalCost != nil {
			continue
		}

		m := trailingQtyRegex.FindStringSubmatch(*item.ItemDescription)
		if m == nil {
			continue
		}

		qty := ParseFloat(m[2])
		desc := CleanValue(m[1])
		if qty == nil || *qty <= 0 || desc == nil {
			continue
		}

		item.ItemDescription = desc
		item.Quantity = qty
	}

	return items
}
