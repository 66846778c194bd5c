package extract

import (
	"fmt"
	"strings"

	"github.com/a3tai/slip-extractor/internal/pdf"
)

// Strategy names accepted by ParseStrategy
const (
	StrategyLineScan   = "line-scan"
	StrategyFixedBlock = "fixed-block"
	StrategyFallback   = "fallback"
)

// Strategy turns the text and tables of a page into a record. The returned
// record carries no filename.
type Strategy interface {
	Name() string
	Extract(text string, tables []pdf.Table) Record
}

// ParseStrategy returns the strategy registered under name
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case StrategyLineScan, "":
		return LineScan{}, nil
	case StrategyFixedBlock:
		return FixedBlock{}, nil
	case StrategyFallback:
		return Fallback{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (expected %s, %s or %s)",
			name, StrategyLineScan, StrategyFixedBlock, StrategyFallback)
	}
}

// StrategyNames lists the valid strategy names
func StrategyNames() []string {
	return []string{StrategyLineScan, StrategyFixedBlock, StrategyFallback}
}

// LineScan captures the address block between the delivery label and the
// first line carrying a section marker
type LineScan struct{}

// Name implements Strategy
func (LineScan) Name() string { return StrategyLineScan }

// Extract implements Strategy
func (LineScan) Extract(text string, tables []pdf.Table) Record {
	record := labeledFields(text, tables)

	scanner := NewLineScanScanner()
	scanner.Scan(text)
	record.CustomerName, record.DeliveryAddress = scanner.Result()

	return record
}

// FixedBlock assumes the line after "お届け先:" is the customer name and
// collects address lines until a contact or billing line
type FixedBlock struct{}

// Name implements Strategy
func (FixedBlock) Name() string { return StrategyFixedBlock }

// Extract implements Strategy
func (FixedBlock) Extract(text string, tables []pdf.Table) Record {
	record := labeledFields(text, tables)
	record.CustomerName, record.DeliveryAddress = fixedBlockAddress(strings.Split(text, "\n"))
	return record
}

// Fallback runs LineScan and retries the name and address with FixedBlock
// when no customer name came back
type Fallback struct{}

// Name implements Strategy
func (Fallback) Name() string { return StrategyFallback }

// Extract implements Strategy
func (Fallback) Extract(text string, tables []pdf.Table) Record {
	record := LineScan{}.Extract(text, tables)
	if record.CustomerName != "" {
		return record
	}

	name, address := fixedBlockAddress(strings.Split(text, "\n"))
	if name != "" {
		record.CustomerName, record.DeliveryAddress = name, address
	}
	return record
}

// labeledFields fills the regex-located fields and the product detail, which
// every strategy shares
func labeledFields(text string, tables []pdf.Table) Record {
	record := NewRecord("")
	record.OrderID = firstSubmatch(orderIDPattern, text)
	record.OrderDate = firstSubmatch(orderDatePattern, text)
	record.TotalAmount = firstSubmatch(totalPattern, text)
	record.ProductDetail = ProductDetail(tables)
	return record
}

func fixedBlockAddress(lines []string) (name, address string) {
	start := -1
	for i, line := range lines {
		if strings.Contains(line, DeliveryLabelStrict) {
			start = i
			break
		}
	}
	if start < 0 || start+1 >= len(lines) {
		return "", ""
	}

	name = stripHonorific(lines[start+1])

	var parts []string
	for _, line := range lines[start+2:] {
		clean := strings.TrimSpace(line)
		if containsAny(clean, fixedBlockStops) {
			break
		}
		if clean != "" {
			parts = append(parts, clean)
		}
	}
	return name, strings.Join(parts, " ")
}
