package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressScanner_Transitions(t *testing.T) {
	s := NewLineScanScanner()
	assert.Equal(t, ScanScanning, s.State())

	assert.Equal(t, ScanScanning, s.Feed("ご注文ありがとうございます"))
	assert.Equal(t, ScanCapturing, s.Feed("お届け先"))
	assert.Equal(t, ScanCapturing, s.Feed("  山田太郎 様  "))
	assert.Equal(t, ScanCapturing, s.Feed(""))
	assert.Equal(t, ScanCapturing, s.Feed("大阪府大阪市北区1-2-3"))
	assert.Equal(t, ScanDone, s.Feed("Mail: taro@example.com"))
	assert.Equal(t, ScanDone, s.Feed("これは無視される"))

	assert.Equal(t, []string{"山田太郎 様", "大阪府大阪市北区1-2-3"}, s.Captured())

	name, address := s.Result()
	assert.Equal(t, "山田太郎", name)
	assert.Equal(t, "大阪府大阪市北区1-2-3", address)

	s.Reset()
	assert.Equal(t, ScanScanning, s.State())
	assert.Empty(t, s.Captured())
}

func TestAddressScanner_Scan(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantName    string
		wantAddress string
	}{
		{
			name:        "name and two address lines before Tel",
			text:        "お届け先\nTaro Yamada様\n東京都千代田区1-1\n丸の内ビル3F\nTel: 03-0000-0000\n東京都港区",
			wantName:    "Taro Yamada",
			wantAddress: "東京都千代田区1-1 丸の内ビル3F",
		},
		{
			name:        "name on the label line",
			text:        "お届け先: 佐藤花子 様\n〒100-0001\n東京都千代田区\n請求先: 同上",
			wantName:    "佐藤花子",
			wantAddress: "〒100-0001 東京都千代田区",
		},
		{
			name:        "full width colon on the label line",
			text:        "お届け先：鈴木一郎様\n名古屋市",
			wantName:    "鈴木一郎",
			wantAddress: "名古屋市",
		},
		{
			name:     "single captured line leaves address empty",
			text:     "お届け先\n高橋様\nNo. 商品名",
			wantName: "高橋",
		},
		{
			name:        "each stop token ends capture",
			text:        "お届け先\n田中様\n福岡県\n購入金額: ¥1,000\n福岡市",
			wantName:    "田中",
			wantAddress: "福岡県",
		},
		{
			name:        "origin label ends capture",
			text:        "お届け先\n田中様\n福岡県\n発送元: 株式会社サンプル",
			wantName:    "田中",
			wantAddress: "福岡県",
		},
		{
			name:        "block runs to end of text",
			text:        "お届け先\n伊藤様\n北海道\n札幌市\n中央区\n1-1",
			wantName:    "伊藤",
			wantAddress: "北海道 札幌市 中央区 1-1",
		},
		{
			name:        "only a trailing honorific is stripped",
			text:        "お届け先\n様子見商店 御中様\n京都府",
			wantName:    "様子見商店 御中",
			wantAddress: "京都府",
		},
		{
			name: "label never found",
			text: "注文ID: A1\nTel: 000",
		},
		{
			name: "empty text",
			text: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLineScanScanner()
			s.Scan(tt.text)

			name, address := s.Result()
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantAddress, address)
		})
	}
}

func TestScanState_String(t *testing.T) {
	assert.Equal(t, "scanning", ScanScanning.String())
	assert.Equal(t, "capturing", ScanCapturing.String())
	assert.Equal(t, "done", ScanDone.String())
	assert.Equal(t, "unknown", ScanState(99).String())
}
