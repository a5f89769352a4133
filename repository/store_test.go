package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jimmytdh/prconverter/dto"
	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func str(s string) *string   { return &s }
func num(n float64) *float64 { return &n }

func sampleData() dto.PurchaseRequestData {
	return dto.PurchaseRequestData{
		FundCluster:              str("01"),
		PRNo:                     str("2025-03-0123"),
		ResponsibilityCenterCode: str("08-001"),
		RequestDate:              str("03/15/2025"),
		Unit:                     str("ream"),
		ItemDescription:          str("BOND PAPER A4 70GSM"),
		Quantity:                 num(10),
		UnitCost:                 num(250),
		TotalCost:                num(3100),
		RequestedBy:              str("JUAN DELA CRUZ"),
		Designation1:             str("Pharmacist"),
		ApprovedBy:               str("Maria Santos"),
		Designation2:             str("Chief of Hospital"),
		Items: []dto.PurchaseRequestItem{
			{
				StockPropertyNo: str("1234567"),
				Unit:            str("ream"),
				ItemDescription: str("BOND PAPER A4 70GSM"),
				Quantity:        num(10),
				UnitCost:        num(250),
				TotalCost:       num(2500),
			},
			{
				StockPropertyNo: str("7654321"),
				Unit:            str("box"),
				ItemDescription: str("BALLPEN BLACK 0.5MM"),
				Quantity:        num(5),
				UnitCost:        num(120),
				TotalCost:       num(600),
			},
		},
	}
}

func TestSaveAndGetRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveRecord(ctx, "pr_sample.pdf", "raw text", sampleData())
	assert.NoError(t, err)
	assert.Greater(t, id, int64(0))

	rec, err := store.GetRecord(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, "pr_sample.pdf", rec.FileName)
	assert.Equal(t, "2025-03-0123", *rec.PRNo)
	assert.Equal(t, 3100.0, *rec.TotalCost)
	assert.Len(t, rec.Items, 2)
	assert.Equal(t, "1234567", *rec.Items[0].StockPropertyNo)
	assert.Equal(t, 600.0, *rec.Items[1].TotalCost)
}

func TestSaveRecordPreservesNulls(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveRecord(ctx, "empty.pdf", "", dto.PurchaseRequestData{})
	assert.NoError(t, err)

	rec, err := store.GetRecord(ctx, id)
	assert.NoError(t, err)
	assert.Nil(t, rec.FundCluster)
	assert.Nil(t, rec.PRNo)
	assert.Nil(t, rec.Quantity)
	assert.Nil(t, rec.TotalCost)
	assert.Empty(t, rec.Items)
}

func TestGetRecordNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRecord(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRecordsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.SaveRecord(ctx, "a.pdf", "", dto.PurchaseRequestData{})
	assert.NoError(t, err)
	second, err := store.SaveRecord(ctx, "b.pdf", "", dto.PurchaseRequestData{})
	assert.NoError(t, err)

	records, err := store.ListRecords(ctx)
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, second, records[0].ID)
	assert.Equal(t, first, records[1].ID)
}

func TestSaveItemCreateRecalculatesTotal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveRecord(ctx, "pr.pdf", "", sampleData())
	assert.NoError(t, err)

	item := dto.PurchaseRequestItem{
		StockPropertyNo: str("1112223"),
		Unit:            str("pcs"),
		ItemDescription: str("FOLDER LONG"),
		Quantity:        num(100),
		UnitCost:        num(15),
	}

	itemID, count, total, mode, err := store.SaveItem(ctx, id, 0, item)
	assert.NoError(t, err)
	assert.Equal(t, "create", mode)
	assert.Greater(t, itemID, int64(0))
	assert.Equal(t, 3, count)

	// Missing total derived from quantity x unit cost, parent resummed.
	assert.NotNil(t, total)
	assert.Equal(t, 4600.0, *total)

	rec, err := store.GetRecord(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, 4600.0, *rec.TotalCost)
	assert.Equal(t, 1500.0, *rec.Items[2].TotalCost)
}

func TestSaveItemUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveRecord(ctx, "pr.pdf", "", sampleData())
	assert.NoError(t, err)

	rec, err := store.GetRecord(ctx, id)
	assert.NoError(t, err)
	target := rec.Items[0]

	updated := dto.PurchaseRequestItem{
		StockPropertyNo: target.StockPropertyNo,
		Unit:            target.Unit,
		ItemDescription: str("BOND PAPER A4 80GSM"),
		Quantity:        num(20),
		UnitCost:        num(250),
		TotalCost:       num(5000),
	}

	itemID, count, total, mode, err := store.SaveItem(ctx, id, target.ID, updated)
	assert.NoError(t, err)
	assert.Equal(t, "update", mode)
	assert.Equal(t, target.ID, itemID)
	assert.Equal(t, 2, count)
	assert.Equal(t, 5600.0, *total)
}

func TestSaveItemWrongRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	firstID, err := store.SaveRecord(ctx, "a.pdf", "", sampleData())
	assert.NoError(t, err)
	secondID, err := store.SaveRecord(ctx, "b.pdf", "", dto.PurchaseRequestData{})
	assert.NoError(t, err)

	rec, err := store.GetRecord(ctx, firstID)
	assert.NoError(t, err)

	// An item can only be updated through its own record.
	_, _, _, _, err = store.SaveItem(ctx, secondID, rec.Items[0].ID, dto.PurchaseRequestItem{Unit: str("pcs")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteItemRecalculatesTotal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveRecord(ctx, "pr.pdf", "", sampleData())
	assert.NoError(t, err)

	rec, err := store.GetRecord(ctx, id)
	assert.NoError(t, err)

	count, total, err := store.DeleteItem(ctx, id, rec.Items[1].ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 2500.0, *total)

	count, total, err = store.DeleteItem(ctx, id, rec.Items[0].ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Nil(t, total)
}

func TestDeleteItemNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveRecord(ctx, "pr.pdf", "", dto.PurchaseRequestData{})
	assert.NoError(t, err)

	_, _, err = store.DeleteItem(ctx, id, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRecordCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveRecord(ctx, "pr.pdf", "", sampleData())
	assert.NoError(t, err)

	fileName, err := store.DeleteRecord(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, "pr.pdf", fileName)

	_, err = store.GetRecord(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := store.ListItems(ctx, id)
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteRecordNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.DeleteRecord(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
