package extract

import "regexp"

// Label tokens as they are printed on the slips. All matching is
// case-sensitive substring containment.
const (
	OrderIDLabel        = "注文ID:"
	OrderDateLabel      = "注文日:"
	TotalLabel          = "合計金額"
	DeliveryLabel       = "お届け先"
	DeliveryLabelStrict = "お届け先:"
	BillingLabel        = "請求先:"
	PurchaseAmountLabel = "購入金額:"
	NumberingToken      = "No."
	OrderIDToken        = "注文ID"
	OriginLabel         = "発送元:"
	TelToken            = "Tel:"
	MailToken           = "Mail:"
	Honorific           = "様"
	ProductHeaderToken  = "商品名"
)

// lineScanStops end the address block in the line-scan strategy
var lineScanStops = []string{
	TelToken,
	MailToken,
	BillingLabel,
	PurchaseAmountLabel,
	NumberingToken,
	OrderIDToken,
	OriginLabel,
}

// fixedBlockStops end the address block in the fixed-block strategy
var fixedBlockStops = []string{
	TelToken,
	MailToken,
	BillingLabel,
}

// Whitespace between a label and its value is optional and may be an
// ideographic space.
const labelGap = `[\s\p{Zs}]*`

var (
	orderIDPattern   = regexp.MustCompile(regexp.QuoteMeta(OrderIDLabel) + labelGap + `([A-Za-z0-9]+)`)
	orderDatePattern = regexp.MustCompile(regexp.QuoteMeta(OrderDateLabel) + labelGap + `([0-9]{4}/[0-9]{1,2}/[0-9]{1,2})`)
	totalPattern     = regexp.MustCompile(regexp.QuoteMeta(TotalLabel) + labelGap + `([¥￥0-9,]+)`)
)

// firstSubmatch returns the first capture group of the leftmost match of re
// in text, or "" when there is none
func firstSubmatch(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
