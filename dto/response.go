package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ProcessResponse is returned after a PDF has been extracted and parsed but
// not yet saved. TempFile identifies the pending upload for a later save or
// cancel call.
type ProcessResponse struct {
	Stage      string              `json:"stage"`
	Message    string              `json:"message"`
	TempFile   string              `json:"temp_file"`
	ItemsCount int                 `json:"items_count"`
	Data       PurchaseRequestData `json:"data"`
}

// SaveResponse is returned once a pending upload has been persisted.
type SaveResponse struct {
	Stage      string              `json:"stage"`
	Message    string              `json:"message"`
	RecordID   int64               `json:"record_id"`
	ItemsCount int                 `json:"items_count"`
	Data       PurchaseRequestData `json:"data"`
}

// ItemSaveResponse reports the result of an item create/update/delete along
// with the recomputed parent total.
type ItemSaveResponse struct {
	Message        string   `json:"message"`
	Mode           string   `json:"mode"`
	ItemID         int64    `json:"item_id"`
	RecordID       int64    `json:"record_id"`
	RemainingCount int      `json:"remaining_count"`
	RecordTotal    *float64 `json:"record_total_cost"`
}
