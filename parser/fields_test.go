package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const samplePRText = `PURCHASE REQUEST
Entity Name: CEBU SOUTH MEDICAL CENTER
Fund Cluster: 01
Office/Section: PHARMACY
PR No.: 2025-03-0123
Responsibility Center Code: 08-001
Date: 03/15/2025
Stock/ Property No. Unit Item Description Quantity Unit Cost Total Cost
1234567 ream BOND PAPER A4 70GSM 10 250.00 2,500.00
7654321 box BALLPEN BLACK 0.5MM 5 120.00 600.00
Total Cost: 3,100.00
Purpose: Office supplies for the quarter
Requested by: Approved by:
Signature:
Printed Name: JUAN DELA CRUZ  Maria Santos
Designation: Pharmacist  Chief of Hospital
`

func TestParsePurchaseRequest(t *testing.T) {
	record := ParsePurchaseRequest(samplePRText)

	assert.Equal(t, "01", *record.FundCluster)
	assert.Equal(t, "2025-03-0123", *record.PRNo)
	assert.Equal(t, "08-001", *record.ResponsibilityCenterCode)
	assert.Equal(t, "03/15/2025", *record.RequestDate)

	assert.Len(t, record.Items, 2)
	assert.Equal(t, "1234567", *record.Items[0].StockPropertyNo)
	assert.Equal(t, "BOND PAPER A4 70GSM", *record.Items[0].ItemDescription)
	assert.Equal(t, 600.0, *record.Items[1].TotalCost)

	// Document-level columns mirror the first item.
	assert.Equal(t, "ream", *record.Unit)
	assert.Equal(t, "BOND PAPER A4 70GSM", *record.ItemDescription)
	assert.Equal(t, 10.0, *record.Quantity)
	assert.Equal(t, 250.0, *record.UnitCost)
	assert.Equal(t, 3100.0, *record.TotalCost)

	assert.Equal(t, "JUAN DELA CRUZ", *record.RequestedBy)
	assert.Equal(t, "Maria Santos", *record.ApprovedBy)
	assert.Equal(t, "Pharmacist", *record.Designation1)
	assert.Equal(t, "Chief of Hospital", *record.Designation2)
}

func TestParsePurchaseRequestEmptyInput(t *testing.T) {
	record := ParsePurchaseRequest("")

	assert.Nil(t, record.FundCluster)
	assert.Nil(t, record.PRNo)
	assert.Nil(t, record.ResponsibilityCenterCode)
	assert.Nil(t, record.RequestDate)
	assert.Nil(t, record.Unit)
	assert.Nil(t, record.ItemDescription)
	assert.Nil(t, record.Quantity)
	assert.Nil(t, record.UnitCost)
	assert.Nil(t, record.TotalCost)
	assert.Nil(t, record.RequestedBy)
	assert.Nil(t, record.ApprovedBy)
	assert.NotNil(t, record.Items)
	assert.Empty(t, record.Items)
}

func TestParsePurchaseRequestLastLabeledTotalWins(t *testing.T) {
	text := `Fund Cluster: 01
PR No.: 2025-001
Responsibility Center Code:
1234567 ream BOND PAPER 10 250.00 2,500.00
Total Cost: 1,000.00
Some correction below
Total Cost: 2,500.00
Purpose: supplies
`
	record := ParsePurchaseRequest(text)

	assert.Equal(t, 2500.0, *record.TotalCost)
}

func TestParsePurchaseRequestTotalFallsBackToItemSum(t *testing.T) {
	text := `Fund Cluster: 01
Responsibility Center Code:
1234567 ream BOND PAPER 10 250.00 2,500.00
7654321 box BALLPEN 5 120.00 600.00
Purpose: supplies
`
	record := ParsePurchaseRequest(text)

	assert.Equal(t, 3100.0, *record.TotalCost)
}

func TestParsePurchaseRequestSingleItemBorrowsDocumentTotal(t *testing.T) {
	text := `Fund Cluster: 01
Responsibility Center Code:
1234567 pcs FOLDER LONG 100
Total Cost: 1,500.00
Purpose: supplies
`
	record := ParsePurchaseRequest(text)

	assert.Len(t, record.Items, 1)
	assert.Equal(t, 1500.0, *record.Items[0].TotalCost)
	assert.Equal(t, 15.0, *record.Items[0].UnitCost)
	assert.Equal(t, 15.0, *record.UnitCost)
	assert.Equal(t, 1500.0, *record.TotalCost)
}

func TestParsePurchaseRequestBlankResponsibilityCenter(t *testing.T) {
	// When the field is blank the capture swallows the table captions below
	// it; that must read as null, not as a code.
	text := `Fund Cluster: 01
Responsibility Center Code: Stock/ Property Unit Item Description
Purpose: supplies
`
	record := ParsePurchaseRequest(text)

	assert.Nil(t, record.ResponsibilityCenterCode)
}

func TestExtractSignatureNamesLineOrder(t *testing.T) {
	text := "Printed Name: ENGR. JOSE RIZAL\nDR. ANDRES BONIFACIO\nDesignation: Engineer II  Medical Director"

	record := ParsePurchaseRequest(text)

	assert.Equal(t, "ENGR. JOSE RIZAL", *record.RequestedBy)
	assert.Equal(t, "DR. ANDRES BONIFACIO", *record.ApprovedBy)
}

func TestExtractSignatureNamesCaseChange(t *testing.T) {
	text := "Printed Name: JUAN DELA CRUZ Maria Santos\n"

	record := ParsePurchaseRequest(text)

	assert.Equal(t, "JUAN DELA CRUZ", *record.RequestedBy)
	assert.Equal(t, "Maria Santos", *record.ApprovedBy)
}

func TestExtractDesignationsMidpointFallback(t *testing.T) {
	text := "Designation: Nurse II Chief Nurse\n"

	record := ParsePurchaseRequest(text)

	assert.Equal(t, "Nurse II", *record.Designation1)
	assert.Equal(t, "Chief Nurse", *record.Designation2)
}
