package pdf

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// Layout constants, in PDF points unless noted
const (
	defaultFontSize = 10.0

	// Glyphs whose baselines differ by less than this share a line
	lineTolerance = 2.0

	// Gap thresholds as a fraction of the font size
	wordGapRatio = 0.25
	cellGapRatio = 1.8

	// Cell starts closer than this belong to the same column
	columnSnap = 8.0

	// Tolerance when testing whether a line sits inside a ruling rectangle
	rulingTolerance = 2.0

	// Consecutive table rows further apart than this many line heights
	// belong to different tables
	maxRowGapRatio = 2.0

	minTableRows  = 2
	minTableCells = 2
)

// tableHeaderToken is the product table header printed on slips. Pages
// without ruling rectangles only have a table from the row carrying it.
const tableHeaderToken = "商品名"

// glyph is one positioned run of text as reported by the PDF backend
type glyph struct {
	X, Y, W, Size float64
	S             string
}

// ruling is a filled or stroked rectangle on the page; tables drawn with
// borders produce them
type ruling struct {
	MinY, MaxY float64
}

// cell is a horizontally contiguous group of glyphs on one line
type cell struct {
	X0, X1 float64
	Text   string
}

// textLine is every glyph sharing a baseline, split into cells at wide gaps
type textLine struct {
	Y     float64
	Size  float64
	Cells []cell
}

// String joins the cells of a line with single spaces
func (l textLine) String() string {
	parts := make([]string, 0, len(l.Cells))
	for _, c := range l.Cells {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, " ")
}

// buildPage renders glyphs into page text and tables
func buildPage(glyphs []glyph, rulings []ruling) *Page {
	lines := groupLines(glyphs)

	texts := make([]string, 0, len(lines))
	for _, l := range lines {
		texts = append(texts, l.String())
	}

	return &Page{
		Text:   strings.Join(texts, "\n"),
		Tables: detectTables(lines, rulings),
	}
}

// groupLines sorts glyphs top to bottom and left to right and groups them by
// baseline
func groupLines(glyphs []glyph) []textLine {
	visible := make([]glyph, 0, len(glyphs))
	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			continue
		}
		visible = append(visible, g)
	}
	if len(visible) == 0 {
		return nil
	}

	// PDF y grows upwards, so the top of the page has the largest y
	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].Y != visible[j].Y {
			return visible[i].Y > visible[j].Y
		}
		return visible[i].X < visible[j].X
	})

	var lines [][]glyph
	current := []glyph{visible[0]}
	currentY := visible[0].Y

	for _, g := range visible[1:] {
		if math.Abs(g.Y-currentY) <= lineTolerance {
			current = append(current, g)
			continue
		}
		lines = append(lines, current)
		current = []glyph{g}
		currentY = g.Y
	}
	lines = append(lines, current)

	result := make([]textLine, 0, len(lines))
	for _, l := range lines {
		result = append(result, splitCells(l))
	}
	return result
}

// splitCells walks a line left to right, inserting a space at word gaps and
// starting a new cell at column gaps
func splitCells(glyphs []glyph) textLine {
	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].X < glyphs[j].X
	})

	line := textLine{Y: glyphs[0].Y}
	var b strings.Builder
	var cur cell
	prevEnd := 0.0

	flush := func() {
		cur.Text = strings.TrimSpace(b.String())
		if cur.Text != "" {
			line.Cells = append(line.Cells, cur)
		}
		b.Reset()
	}

	for i, g := range glyphs {
		size := g.Size
		if size <= 0 {
			size = defaultFontSize
		}
		width := g.W
		if width <= 0 {
			width = estimateWidth(g.S, size)
		}

		line.Size = math.Max(line.Size, size)

		if i == 0 {
			cur = cell{X0: g.X}
		} else {
			gap := g.X - prevEnd
			switch {
			case gap > size*cellGapRatio:
				flush()
				cur = cell{X0: g.X}
			case gap > size*wordGapRatio:
				b.WriteByte(' ')
			}
		}

		b.WriteString(g.S)
		prevEnd = math.Max(prevEnd, g.X+width)
		cur.X1 = prevEnd
	}
	flush()

	return line
}

// estimateWidth approximates the advance of s when the backend reports none:
// half an em for ASCII, a full em for everything else.
func estimateWidth(s string, size float64) float64 {
	w := 0.0
	for _, r := range s {
		if r < utf8.RuneSelf {
			w += size / 2
		} else {
			w += size
		}
	}
	return w
}

// detectTables finds runs of consecutive multi-cell lines and aligns their
// cells into columns. A vertical gap of more than maxRowGapRatio line heights
// ends a run. When the page carries ruling rectangles only lines inside one
// of them are tabular; without rulings a run is a table only from its
// tableHeaderToken row on.
func detectTables(lines []textLine, rulings []ruling) []Table {
	var tables []Table
	var run []textLine

	closeRun := func() {
		if len(rulings) == 0 {
			run = fromHeaderRow(run)
		}
		if len(run) >= minTableRows {
			tables = append(tables, alignColumns(run))
		}
		run = nil
	}

	for _, l := range lines {
		tabular := len(l.Cells) >= minTableCells && insideRuling(l.Y, rulings)
		if !tabular || (len(run) > 0 && rowGapTooWide(run[len(run)-1], l)) {
			closeRun()
		}
		if tabular {
			run = append(run, l)
		}
	}
	closeRun()

	return tables
}

func rowGapTooWide(prev, next textLine) bool {
	height := math.Max(prev.Size, next.Size)
	if height <= 0 {
		height = defaultFontSize
	}
	return prev.Y-next.Y > height*maxRowGapRatio
}

// fromHeaderRow drops the lines before the first one carrying
// tableHeaderToken, or all of them when none does
func fromHeaderRow(run []textLine) []textLine {
	for i, l := range run {
		for _, c := range l.Cells {
			if strings.Contains(c.Text, tableHeaderToken) {
				return run[i:]
			}
		}
	}
	return nil
}

func insideRuling(y float64, rulings []ruling) bool {
	if len(rulings) == 0 {
		return true
	}
	for _, r := range rulings {
		if y >= r.MinY-rulingTolerance && y <= r.MaxY+rulingTolerance {
			return true
		}
	}
	return false
}

// alignColumns clusters the cell start positions of a run into column anchors
// and places every cell under its nearest anchor
func alignColumns(run []textLine) Table {
	var starts []float64
	for _, l := range run {
		for _, c := range l.Cells {
			starts = append(starts, c.X0)
		}
	}
	sort.Float64s(starts)

	var anchors []float64
	for _, x := range starts {
		if len(anchors) > 0 && x-anchors[len(anchors)-1] <= columnSnap {
			continue
		}
		anchors = append(anchors, x)
	}

	table := make(Table, 0, len(run))
	for _, l := range run {
		row := make(Row, len(anchors))
		for _, c := range l.Cells {
			idx := nearestAnchor(c.X0, anchors)
			if row[idx] != nil {
				joined := *row[idx] + " " + c.Text
				row[idx] = &joined
				continue
			}
			row[idx] = Cell(c.Text)
		}
		table = append(table, row)
	}
	return table
}

func nearestAnchor(x float64, anchors []float64) int {
	best := 0
	bestDist := math.MaxFloat64
	for i, a := range anchors {
		if d := math.Abs(x - a); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
