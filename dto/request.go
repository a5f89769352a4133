package dto

import "errors"

// SaveItemRequest carries an item create/update from the edit UI. A zero
// ItemID means create. Numeric fields arrive as strings so that an empty
// form field can be told apart from an explicit zero.
type SaveItemRequest struct {
	ItemID          int64  `form:"item_id"`
	StockPropertyNo string `form:"stock_property_no"`
	Unit            string `form:"unit"`
	ItemDescription string `form:"item_description"`
	Quantity        string `form:"quantity"`
	UnitCost        string `form:"unit_cost"`
	TotalCost       string `form:"total_cost"`
}

// Validate performs basic validation on the request
func (r *SaveItemRequest) Validate() error {
	if r.StockPropertyNo == "" && r.Unit == "" && r.ItemDescription == "" {
		return errors.New("provide at least stock/property no., unit, or item description")
	}
	return nil
}
