// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

/*
Package board manages the editorial board roster shown on the portal.

Members are grouped by position in a fixed hierarchy and carry a bio that is
either free text or a list of items, serialized as a tagged union so the
frontend can pick the right rendering without sniffing.
*/
package board

import (
	"encoding/json"
	"fmt"
	"time"
)

// Position is the closed set of editorial board roles.
type Position string

const (
	PositionPatron         Position = "Patron"
	PositionChiefEditor    Position = "Chief Editor"
	PositionAssociate      Position = "Associate Editor"
	PositionEditorialBoard Position = "Editorial Board Member"
	PositionAdvisoryBoard  Position = "Advisory Board Member"
)

// positionRanks fixes the display hierarchy. Unknown positions sink to the
// bottom rather than breaking the listing.
var positionRanks = map[Position]int{
	PositionPatron:         1,
	PositionChiefEditor:    2,
	PositionAssociate:      3,
	PositionEditorialBoard: 4,
	PositionAdvisoryBoard:  5,
}

// Valid reports whether the position is one of the closed set.
func (p Position) Valid() bool {
	_, ok := positionRanks[p]
	return ok
}

// Rank returns the position's place in the display hierarchy; unknown
// positions rank last.
func (p Position) Rank() int {
	if rank, ok := positionRanks[p]; ok {
		return rank
	}
	return len(positionRanks) + 1
}

// Positions lists the valid positions in display order.
func Positions() []Position {
	return []Position{
		PositionPatron,
		PositionChiefEditor,
		PositionAssociate,
		PositionEditorialBoard,
		PositionAdvisoryBoard,
	}
}

// ContentType tags the bio union variant.
type ContentType string

const (
	// ContentText is a free-form paragraph bio.
	ContentText ContentType = "text"
	// ContentList is a bullet-list bio.
	ContentList ContentType = "list"
)

// Content is the bio union: exactly one of Text or Items is meaningful,
// selected by Type.
type Content struct {
	Type  ContentType
	Text  string
	Items []string
}

// contentJSON is the wire shape of [Content].
type contentJSON struct {
	ContentType ContentType `json:"contentType"`
	Text        string      `json:"text,omitempty"`
	Items       []string    `json:"items,omitempty"`
}

// IsZero reports whether no bio has been set.
func (c Content) IsZero() bool {
	return c.Type == ""
}

// MarshalJSON emits the tagged wire form, carrying only the active variant.
func (c Content) MarshalJSON() ([]byte, error) {
	wire := contentJSON{ContentType: c.Type}
	switch c.Type {
	case ContentText:
		wire.Text = c.Text
	case ContentList:
		wire.Items = c.Items
	case "":
		// Zero value serializes as null so omitempty fields stay clean.
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("board: unknown bio content type %q", c.Type)
	}
	return json.Marshal(wire)
}

// UnmarshalJSON reads the tagged wire form, rejecting unknown tags and
// dropping the inactive variant's payload.
func (c *Content) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Content{}
		return nil
	}

	var wire contentJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	switch wire.ContentType {
	case ContentText:
		*c = Content{Type: ContentText, Text: wire.Text}
	case ContentList:
		*c = Content{Type: ContentList, Items: wire.Items}
	case "":
		*c = Content{}
	default:
		return fmt.Errorf("board: unknown bio content type %q", wire.ContentType)
	}
	return nil
}

// Section is one dynamic profile section: a heading with its own tagged
// content and a position number within the profile. Display sorts by the
// position number and tolerates duplicates and gaps.
type Section struct {
	Heading string
	Content Content
	Order   int
}

// sectionJSON is the wire shape of [Section]: the content union is inlined
// next to the heading rather than nested.
type sectionJSON struct {
	Heading     string      `json:"heading"`
	ContentType ContentType `json:"contentType,omitempty"`
	Text        string      `json:"text,omitempty"`
	Items       []string    `json:"items,omitempty"`
	Order       int         `json:"order"`
}

// MarshalJSON emits the inlined tagged wire form, carrying only the active
// content variant.
func (s Section) MarshalJSON() ([]byte, error) {
	wire := sectionJSON{Heading: s.Heading, ContentType: s.Content.Type, Order: s.Order}
	switch s.Content.Type {
	case ContentText:
		wire.Text = s.Content.Text
	case ContentList:
		wire.Items = s.Content.Items
	case "":
		// A heading-only section carries no content payload.
	default:
		return nil, fmt.Errorf("board: unknown section content type %q", s.Content.Type)
	}
	return json.Marshal(wire)
}

// UnmarshalJSON reads the inlined wire form, rejecting unknown tags and
// dropping the inactive variant's payload.
func (s *Section) UnmarshalJSON(data []byte) error {
	var wire sectionJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	content := Content{}
	switch wire.ContentType {
	case ContentText:
		content = Content{Type: ContentText, Text: wire.Text}
	case ContentList:
		content = Content{Type: ContentList, Items: wire.Items}
	case "":
	default:
		return fmt.Errorf("board: unknown section content type %q", wire.ContentType)
	}

	*s = Section{Heading: wire.Heading, Content: content, Order: wire.Order}
	return nil
}

// Member is one editorial board entry.
type Member struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Position    Position `json:"position"`
	Affiliation string   `json:"affiliation,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	PhotoURL    string   `json:"photo_url,omitempty"`
	Bio         Content  `json:"bio"`

	// Sections holds the member's dynamic profile sections, ordered by
	// their position number.
	Sections []Section `json:"sections,omitempty"`

	// DisplayOrder orders members within their position group.
	DisplayOrder int  `json:"display_order"`
	IsActive     bool `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Group is one position heading with its ordered members, as rendered on the
// public board page.
type Group struct {
	Position Position  `json:"position"`
	Members  []*Member `json:"members"`
}

const (
	FieldName        = "name"
	FieldPosition    = "position"
	FieldAffiliation = "affiliation"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldPhotoURL    = "photo_url"
	FieldBio         = "bio"
	FieldSections    = "sections"
	FieldOrder       = "display_order"
)
