package dto

// PurchaseRequestItem is one detected row of the PR item table. Every field
// is optional: extraction that cannot recover a column leaves it nil, never
// zero, so that a genuine zero quantity stays distinguishable from "unknown".
type PurchaseRequestItem struct {
	ID              int64    `json:"id,omitempty"`
	StockPropertyNo *string  `json:"stock_property_no"`
	Unit            *string  `json:"unit"`
	ItemDescription *string  `json:"item_description"`
	Quantity        *float64 `json:"quantity"`
	UnitCost        *float64 `json:"unit_cost"`
	TotalCost       *float64 `json:"total_cost"`
}

// IsEmpty reports whether every field of the item is unset. Empty items are
// never kept in a parsed record.
func (i PurchaseRequestItem) IsEmpty() bool {
	if i.StockPropertyNo != nil && *i.StockPropertyNo != "" {
		return false
	}
	if i.Unit != nil && *i.Unit != "" {
		return false
	}
	if i.ItemDescription != nil && *i.ItemDescription != "" {
		return false
	}
	return i.Quantity == nil && i.UnitCost == nil && i.TotalCost == nil
}

// PurchaseRequestData is the structured record recovered from one purchase
// request form. The document-level unit/item_description/quantity/unit_cost
// fields mirror the first item row for consumers that predate multi-item
// support; TotalCost holds the reconciled document total.
type PurchaseRequestData struct {
	FundCluster              *string `json:"fund_cluster"`
	PRNo                     *string `json:"pr_no"`
	ResponsibilityCenterCode *string `json:"responsibility_center_code"`
	RequestDate              *string `json:"request_date"`

	Unit            *string  `json:"unit"`
	ItemDescription *string  `json:"item_description"`
	Quantity        *float64 `json:"quantity"`
	UnitCost        *float64 `json:"unit_cost"`
	TotalCost       *float64 `json:"total_cost"`

	RequestedBy  *string `json:"requested_by"`
	Designation1 *string `json:"designation1"`
	ApprovedBy   *string `json:"approved_by"`
	Designation2 *string `json:"designation2"`

	Items []PurchaseRequestItem `json:"items"`
}

// PurchaseRequestRecord is a stored purchase request row.
type PurchaseRequestRecord struct {
	ID        int64  `json:"id"`
	FileName  string `json:"file_name"`
	CreatedAt string `json:"created_at"`
	PurchaseRequestData
}
