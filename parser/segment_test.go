package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseItemsFromTableSlice(t *testing.T) {
	slice := "Stock/ Property No. Unit Item Description Quantity Unit Cost Total Cost\n" +
		"1234567 ream BOND PAPER A4 70GSM 10 250.00 2,500.00\n" +
		"7654321 box BALLPEN BLACK 0.5MM 5 120.00 600.00\n" +
		"TOTAL 3,100.00\n" +
		"Purpose: office supplies"

	items := parseItemsFromTableSlice(slice)

	assert.Len(t, items, 2)
	assert.Equal(t, "1234567", *items[0].StockPropertyNo)
	assert.Equal(t, 2500.0, *items[0].TotalCost)
	assert.Equal(t, "7654321", *items[1].StockPropertyNo)
	assert.Equal(t, "BALLPEN BLACK 0.5MM", *items[1].ItemDescription)
	assert.Equal(t, 600.0, *items[1].TotalCost)
}

func TestParseItemsFromTableSliceWrappedRows(t *testing.T) {
	slice := "Stock/ Property No.\nUnit\nItem Description\nQuantity\nUnit Cost\nTotal Cost\n" +
		"1234567\n" +
		"BOX\n" +
		"ALCOHOL 70% SOLUTION 500ML\n" +
		"10 150.00 1,500.00\n" +
		"7654321\n" +
		"pcs\n" +
		"FACE MASK 3-PLY\n" +
		"100 5.00 500.00\n" +
		"TOTAL"

	items := parseItemsFromTableSlice(slice)

	assert.Len(t, items, 2)
	assert.Equal(t, "BOX", *items[0].Unit)
	assert.Equal(t, 1500.0, *items[0].TotalCost)
	assert.Equal(t, "FACE MASK 3-PLY", *items[1].ItemDescription)
	assert.Equal(t, 100.0, *items[1].Quantity)
}

func TestParseItemsFromTableSliceStopWordInHeader(t *testing.T) {
	// "Total Cost" as a column caption must not end the scan before the
	// first row has started.
	slice := "Total Cost\n" +
		"Quantity Unit Cost\n" +
		"1234567 ream BOND PAPER 10 250.00 2,500.00\n" +
		"TOTAL"

	items := parseItemsFromTableSlice(slice)

	assert.Len(t, items, 1)
	assert.Equal(t, "BOND PAPER", *items[0].ItemDescription)
}

func TestParseItemsFromTableSliceDropsContinuationsWithoutHeader(t *testing.T) {
	// When no column header precedes the rows, there is no evidence that
	// the lines after a row start belong to the item table; only the
	// row-start lines themselves are trusted.
	slice := "1234567 ream BOND PAPER\n" +
		"EXTRA NARRATIVE LINE\n" +
		"10 250.00 2,500.00"

	items := parseItemsFromTableSlice(slice)

	assert.Len(t, items, 1)
	assert.Equal(t, "BOND PAPER", *items[0].ItemDescription)
	assert.Nil(t, items[0].Quantity)
	assert.Nil(t, items[0].UnitCost)
	assert.Nil(t, items[0].TotalCost)
}

func TestParseItemsFromTableSliceHeaderRestoresContinuations(t *testing.T) {
	slice := "Quantity Unit Cost Total Cost\n" +
		"1234567 ream BOND PAPER\n" +
		"10 250.00 2,500.00"

	items := parseItemsFromTableSlice(slice)

	assert.Len(t, items, 1)
	assert.Equal(t, 10.0, *items[0].Quantity)
	assert.Equal(t, 2500.0, *items[0].TotalCost)
}

func TestParseItemsFromTableSliceEmpty(t *testing.T) {
	assert.Empty(t, parseItemsFromTableSlice(""))
	assert.Empty(t, parseItemsFromTableSlice("no table here, only narrative text"))
}
