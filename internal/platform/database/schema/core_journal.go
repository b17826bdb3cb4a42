package schema

// JournalTable represents the 'core.journal' table
type JournalTable struct {
	Table       string
	ID          string
	Title       string
	Slug        string
	Description string
	Edition     string
	Volume      string
	Number      string
	Year        string
	ISSN        string
	PDFURL      string
	PDFFileName string
	PDFSize     string
	PageCount   string
	ViewCount   string
	CreatedAt   string
	UpdatedAt   string
}

// Journal is the schema definition for core.journal
var Journal = JournalTable{
	Table:       "core.journal",
	ID:          "id",
	Title:       "title",
	Slug:        "slug",
	Description: "description",
	Edition:     "edition",
	Volume:      "volume",
	Number:      "number",
	Year:        "year",
	ISSN:        "issn",
	PDFURL:      "pdfurl",
	PDFFileName: "pdffilename",
	PDFSize:     "pdfsize",
	PageCount:   "pagecount",
	ViewCount:   "viewcount",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t JournalTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Description, t.Edition, t.Volume, t.Number,
		t.Year, t.ISSN, t.PDFURL, t.PDFFileName, t.PDFSize, t.PageCount,
		t.ViewCount, t.CreatedAt, t.UpdatedAt,
	}
}
