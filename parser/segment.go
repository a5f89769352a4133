package parser

import (
	"strings"

	"github.com/jimmytdh/prconverter/dto"
)

// scanState drives the line scan over the item-table slice.
type scanState int

const (
	// beforeTable: no column header seen yet; only a row-start line can
	// open the table early.
	beforeTable scanState = iota
	// inTable: header seen, waiting for the first row-start line.
	inTable
	// rowOpenBare: a row started before any header line. Continuation
	// lines are dropped in this state; without the header there is no
	// evidence they belong to the item table.
	rowOpenBare
	// rowOpen: header seen and a row block is being accumulated.
	rowOpen
)

// parseItemsFromTableSlice groups the lines of the item-table slice into
// row blocks and parses each block into an item. A row block is a row-start
// line plus the continuation lines that follow it until the next row start
// or a stop line.
func parseItemsFromTableSlice(tableSlice string) []dto.PurchaseRequestItem {
	if tableSlice == "" {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(tableSlice, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	var rowBlocks [][]string
	var currentBlock []string
	state := beforeTable

scan:
	for _, line := range lines {
		switch {
		case IsTableStopLine(line):
			// Some files have "Total" / "Cost" in the table header. Only
			// stop once at least one item row has started.
			if state == rowOpen || state == rowOpenBare {
				break scan
			}

		case IsHeaderLikeTableLine(line):
			switch state {
			case beforeTable:
				state = inTable
			case rowOpenBare:
				state = rowOpen
			}

		case IsItemRowStartLine(line):
			if currentBlock != nil {
				rowBlocks = append(rowBlocks, currentBlock)
			}
			currentBlock = []string{line}
			if state == beforeTable || state == rowOpenBare {
				state = rowOpenBare
			} else {
				state = rowOpen
			}

		case state == rowOpen:
			currentBlock = append(currentBlock, line)

		default:
			// Headerless continuations and noise above the table; skip.
		}
	}

	if currentBlock != nil {
		rowBlocks = append(rowBlocks, currentBlock)
	}

	var items []dto.PurchaseRequestItem
	for _, block := range rowBlocks {
		if item := parseItemFromRowBlock(block); item != nil && !item.IsEmpty() {
			items = append(items, *item)
		}
	}

	// Safety rule: if the last parsed row is empty, do not include it.
	if len(items) > 0 && items[len(items)-1].IsEmpty() {
		items = items[:len(items)-1]
	}

	return items
}
