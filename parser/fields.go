package parser

import (
	"regexp"
	"strings"

	"github.com/jimmytdh/prconverter/dto"
)

var (
	fundClusterBoundedRegex = regexp.MustCompile(`(?is)fund\s*cluster\s*:?\s*\n?(.+?)\n\s*(?:office/section|pr\s*no\.?|responsibility\s*center\s*code)`)
	fundClusterLooseRegex   = regexp.MustCompile(`(?i)fund\s*cluster\s*:?\s*(.+)`)
	prNoRegex               = regexp.MustCompile(`(?i)pr\s*no\.?\s*:?\s*([a-z0-9\-/]+)`)
	rccRegex                = regexp.MustCompile(`(?i)responsibility\s*center\s*code\s*:?\s*([a-z0-9\-/_ ]*)`)
	rccHeaderVocabRegex     = regexp.MustCompile(`(?i)\b(stock|property|unit|item)\b`)
	requestDateRegex        = regexp.MustCompile(`(?i)date\s*:?\s*([0-9]{1,2}[-/][a-z]{3}[-/][0-9]{2,4}|[0-9]{1,2}[-/][0-9]{1,2}[-/][0-9]{2,4})`)
	printedNameBlockRegex   = regexp.MustCompile(`(?is)printed\s*name\s*:\s*(.*?)(?:\n\s*designation\s*:|$)`)
	designationLineRegex    = regexp.MustCompile(`(?i)designation\s*:\s*(.+?)(?:\n|$)`)
	tableSliceRegex         = regexp.MustCompile(`(?is)responsibility\s*center\s*code\s*:?(.*?)(?:purpose\s*:|requested\s*by\s*:)`)
	twoColumnSplitRegex     = regexp.MustCompile(`^(.+?)\s{2,}(.+)$`)
	caseChangeSplitRegex    = regexp.MustCompile(`^([A-Z\s.]+)\s+([A-Z][a-z].+)$`)

	// The words can be split across lines by layout extraction, so two label
	// spellings are tolerated.
	totalSplitLabelRegex  = regexp.MustCompile(`(?i)(?:^|\n)[ \t]*total\s*\n\s*cost\s*:?\s*([0-9,]+(?:\.\d{2})?)`)
	totalInlineLabelRegex = regexp.MustCompile(`(?i)(?:^|\n)[ \t]*total\s*cost\s*:?\s*([0-9,]+(?:\.\d{2})?)`)
)

// ParsePurchaseRequest recovers a structured purchase request record from
// the extracted text of a one-page PR form. It never fails: any field the
// heuristics cannot resolve stays nil, and an empty item list is a valid
// result. Empty input yields an all-nil record.
func ParsePurchaseRequest(text string) dto.PurchaseRequestData {
	normalized := strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n")

	record := dto.PurchaseRequestData{
		FundCluster:              extractFundCluster(normalized),
		PRNo:                     extractByPattern(prNoRegex, normalized),
		ResponsibilityCenterCode: extractResponsibilityCenterCode(normalized),
		RequestDate:              extractByPattern(requestDateRegex, normalized),
		Items:                    []dto.PurchaseRequestItem{},
	}

	record.RequestedBy, record.ApprovedBy = extractSignatureNames(normalized)
	record.Designation1, record.Designation2 = extractDesignations(normalized)

	items := parseItemsFromTableSlice(extractTableSlice(normalized))
	items = normalizeItemsColumnAlignment(items)
	items = normalizeTrailingDescriptionQuantity(items)

	record.TotalCost = lastLabeledTotal(normalized)
	projectFirstItem(&record, items)

	if record.TotalCost == nil {
		record.TotalCost = sumItemTotals(items)
	}

	// A lone item can borrow the document total it could not read for itself.
	if len(items) == 1 && record.TotalCost != nil {
		only := &items[0]
		if only.TotalCost == nil {
			only.TotalCost = record.TotalCost
		}
		if only.UnitCost == nil && only.Quantity != nil && *only.Quantity > 0 {
			only.UnitCost = floatPtr(round2(*record.TotalCost / *only.Quantity))
			record.UnitCost = only.UnitCost
		}
	}

	if items != nil {
		record.Items = items
	}
	return record
}

// projectFirstItem mirrors the first item's unit, description, quantity and
// unit cost onto the document-level fields for single-item consumers.
func projectFirstItem(record *dto.PurchaseRequestData, items []dto.PurchaseRequestItem) {
	if len(items) == 0 {
		return
	}
	first := items[0]
	record.Unit = first.Unit
	record.ItemDescription = first.ItemDescription
	record.Quantity = first.Quantity
	record.UnitCost = first.UnitCost
}

func extractByPattern(re *regexp.Regexp, text string) *string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return CleanValue(m[1])
}

// extractFundCluster prefers the bounded capture that ends at the next
// labeled field; the loose single-line capture is only a fallback.
func extractFundCluster(text string) *string {
	if v := extractByPattern(fundClusterBoundedRegex, text); v != nil {
		return v
	}
	return extractByPattern(fundClusterLooseRegex, text)
}

func extractResponsibilityCenterCode(text string) *string {
	code := extractByPattern(rccRegex, text)
	if code != nil && rccHeaderVocabRegex.MatchString(*code) {
		// The label sits right above the item table; a capture full of
		// column captions means the field itself was blank.
		return nil
	}
	return code
}

// extractTableSlice returns the text between the Responsibility Center Code
// label and the purpose/signature footer, the region that holds the item
// table. An empty slice yields an empty item list downstream.
func extractTableSlice(text string) string {
	m := tableSliceRegex.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// nameSplitStrategy attempts one way of splitting the signature block lines
// into the requested-by and approved-by columns. Strategies are tried in
// order; the first that succeeds wins.
type nameSplitStrategy func(lines []string) (left, right *string)

var nameSplitStrategies = []nameSplitStrategy{
	splitByColumnGap,
	splitByLineOrder,
	splitSingleLine,
}

// splitByColumnGap splits every line that still carries the two-column
// layout (two or more consecutive spaces) and joins each side.
func splitByColumnGap(lines []string) (*string, *string) {
	var lefts, rights []string
	for _, line := range lines {
		if m := twoColumnSplitRegex.FindStringSubmatch(line); m != nil {
			lefts = append(lefts, strings.TrimSpace(m[1]))
			rights = append(rights, strings.TrimSpace(m[2]))
		}
	}
	if len(lefts) == 0 || len(rights) == 0 {
		return nil, nil
	}
	return CleanValue(strings.Join(lefts, " ")), CleanValue(strings.Join(rights, " "))
}

// splitByLineOrder handles wrapped two-column names where extraction
// flattened the spacing: first line is the requested side, the remainder
// the approved side.
func splitByLineOrder(lines []string) (*string, *string) {
	if len(lines) < 2 {
		return nil, nil
	}
	return CleanValue(lines[0]), CleanValue(strings.Join(lines[1:], " "))
}

// splitSingleLine breaks a single flattened line: by column gap, then by a
// capitalization change (UPPER name followed by Mixed-case name), then by
// the token midpoint as a last resort.
func splitSingleLine(lines []string) (*string, *string) {
	if len(lines) != 1 {
		return nil, nil
	}
	line := lines[0]

	if m := twoColumnSplitRegex.FindStringSubmatch(line); m != nil {
		return CleanValue(m[1]), CleanValue(m[2])
	}

	cleaned := CleanValue(line)
	if cleaned == nil {
		return nil, nil
	}
	if m := caseChangeSplitRegex.FindStringSubmatch(*cleaned); m != nil {
		return CleanValue(m[1]), CleanValue(m[2])
	}
	return splitAtTokenMidpoint(*cleaned)
}

func splitAtTokenMidpoint(line string) (*string, *string) {
	parts := strings.Fields(line)
	mid := len(parts) / 2
	return CleanValue(strings.Join(parts[:mid], " ")), CleanValue(strings.Join(parts[mid:], " "))
}

// extractSignatureNames splits the "Printed Name:" block of the signature
// footer into the requested-by and approved-by names.
func extractSignatureNames(text string) (*string, *string) {
	m := printedNameBlockRegex.FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}

	// Trim without collapsing inner whitespace: the column gap is the
	// strongest split signal and must survive until the strategies run.
	var lines []string
	for _, raw := range strings.Split(strings.TrimSpace(m[1]), "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}

	for _, strategy := range nameSplitStrategies {
		if left, right := strategy(lines); left != nil || right != nil {
			return left, right
		}
	}
	return nil, nil
}

// extractDesignations splits the "Designation:" line the same way: column
// gap first, token midpoint as fallback.
func extractDesignations(text string) (*string, *string) {
	m := designationLineRegex.FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}
	line := CleanValue(m[1])
	if line == nil {
		return nil, nil
	}

	if split := twoColumnSplitRegex.FindStringSubmatch(m[1]); split != nil {
		return CleanValue(split[1]), CleanValue(split[2])
	}
	return splitAtTokenMidpoint(*line)
}

// lastLabeledTotal collects every labeled total-cost value in the document
// and keeps the last one; earlier occurrences are usually table headers or
// unrelated captions.
func lastLabeledTotal(text string) *float64 {
	var candidates []string
	for _, m := range totalSplitLabelRegex.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, m[1])
	}
	for _, m := range totalInlineLabelRegex.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, m[1])
	}
	if len(candidates) == 0 {
		return nil
	}
	return ParseMoney(candidates[len(candidates)-1])
}

func sumItemTotals(items []dto.PurchaseRequestItem) *float64 {
	sum := 0.0
	found := false
	for _, item := range items {
		if item.TotalCost != nil {
			sum += *item.TotalCost
			found = true
		}
	}
	if !found {
		return nil
	}
	return floatPtr(round2(sum))
}
