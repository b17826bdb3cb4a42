package schema

// BoardMemberTable represents the 'core.boardmember' table
type BoardMemberTable struct {
	Table          string
	ID             string
	Name           string
	Position       string
	Affiliation    string
	Email          string
	Phone          string
	PhotoURL       string
	BioContentType string
	BioText        string
	BioItems       string
	Sections       string
	DisplayOrder   string
	IsActive       string
	CreatedAt      string
	UpdatedAt      string
}

// BoardMember is the schema definition for core.boardmember
var BoardMember = BoardMemberTable{
	Table:          "core.boardmember",
	ID:             "id",
	Name:           "name",
	Position:       "position",
	Affiliation:    "affiliation",
	Email:          "email",
	Phone:          "phone",
	PhotoURL:       "photourl",
	BioContentType: "biocontenttype",
	BioText:        "biotext",
	BioItems:       "bioitems",
	Sections:       "sections",
	DisplayOrder:   "displayorder",
	IsActive:       "isactive",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns returns all standard column names
func (t BoardMemberTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Position, t.Affiliation, t.Email, t.Phone, t.PhotoURL,
		t.BioContentType, t.BioText, t.BioItems, t.Sections, t.DisplayOrder,
		t.IsActive, t.CreatedAt, t.UpdatedAt,
	}
}
