package pdf

// Document is one uploaded delivery slip: the raw PDF bytes and the name the
// report shows for it. Err is set when the file could not be loaded; Data is
// then empty.
type Document struct {
	Name string
	Data []byte
	Err  error
}

// Page is the first page of a document as the layout pass sees it: the plain
// text rendering, top to bottom, and the tables found on it.
type Page struct {
	Text   string
	Tables []Table
}

// Table is an ordered sequence of rows
type Table []Row

// Row is an ordered sequence of cells. A nil cell is a column position the
// layout could not fill for this row.
type Row []*string

// Cell returns a pointer to s, for building rows by hand
func Cell(s string) *string {
	return &s
}

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Name    string `json:"name"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

// PDFSearchDirectoryResult represents the result of a directory scan
type PDFSearchDirectoryResult struct {
	Files      []FileInfo `json:"files"`
	TotalCount int        `json:"total_count"`
	Directory  string     `json:"directory"`
	Skipped    []string   `json:"skipped,omitempty"`
}
