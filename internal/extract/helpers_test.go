package extract

import (
	"github.com/a3tai/slip-extractor/internal/pdf"
)

// stubPages serves canned pages keyed by document name
type stubPages struct {
	pages  map[string]*pdf.Page
	errs   map[string]error
	panics map[string]string
	calls  int
}

func (s *stubPages) ReadFirstPage(doc pdf.Document) (*pdf.Page, error) {
	s.calls++
	if msg, ok := s.panics[doc.Name]; ok {
		panic(msg)
	}
	if err, ok := s.errs[doc.Name]; ok {
		return nil, err
	}
	if page, ok := s.pages[doc.Name]; ok {
		return page, nil
	}
	return &pdf.Page{}, nil
}

type stubChecker struct {
	err error
}

func (c stubChecker) Check(pdf.Document) error {
	return c.err
}

type countingChecker struct {
	calls int
}

func (c *countingChecker) Check(pdf.Document) error {
	c.calls++
	return nil
}

func row(cells ...string) pdf.Row {
	r := make(pdf.Row, len(cells))
	for i, c := range cells {
		if c == "<nil>" {
			continue
		}
		r[i] = pdf.Cell(c)
	}
	return r
}

const fullSlip = `ご注文明細書
注文ID: ORD20240305A
注文日: 2024/3/5
お届け先
Taro Yamada様
東京都千代田区丸の内1-1-1
丸の内ビル3F
Tel: 03-1234-5678
請求先: 同上
合計金額 ¥3,300`

var fullSlipTables = []pdf.Table{
	{
		row("No.", "商品名", "数量", "金額"),
		row("1", "オーガニック緑茶 100g", "2", "¥2,000"),
		row("2", "抹茶クッキー", "1", "¥1,300"),
	},
}
