// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package board

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestContent_TextRoundTrip verifies the text variant's tagged wire form.
*/
func TestContent_TextRoundTrip(t *testing.T) {
	bio := Content{Type: ContentText, Text: "Professor of Linguistics."}

	data, err := json.Marshal(bio)
	require.NoError(t, err)
	assert.JSONEq(t, `{"contentType":"text","text":"Professor of Linguistics."}`, string(data))

	var decoded Content
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, bio, decoded)
}

/*
TestContent_ListRoundTrip verifies the list variant's tagged wire form and
that the inactive text field never leaks.
*/
func TestContent_ListRoundTrip(t *testing.T) {
	bio := Content{Type: ContentList, Items: []string{"PhD, Oxford", "Editor since 2019"}}

	data, err := json.Marshal(bio)
	require.NoError(t, err)
	assert.JSONEq(t, `{"contentType":"list","items":["PhD, Oxford","Editor since 2019"]}`, string(data))
	assert.NotContains(t, string(data), `"text"`)

	var decoded Content
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, bio, decoded)
}

/*
TestContent_DropsInactiveVariant verifies that decoding discards payload
belonging to the variant the tag does not select.
*/
func TestContent_DropsInactiveVariant(t *testing.T) {
	var decoded Content
	raw := `{"contentType":"text","text":"kept","items":["dropped"]}`

	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, ContentText, decoded.Type)
	assert.Equal(t, "kept", decoded.Text)
	assert.Nil(t, decoded.Items)
}

/*
TestContent_RejectsUnknownTag verifies that an unrecognized contentType is an
error rather than silently coerced.
*/
func TestContent_RejectsUnknownTag(t *testing.T) {
	var decoded Content
	err := json.Unmarshal([]byte(`{"contentType":"markdown","text":"x"}`), &decoded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markdown")

	_, err = json.Marshal(Content{Type: "markdown"})
	require.Error(t, err)
}

/*
TestContent_ZeroValue verifies the empty bio serializes as null and decodes
back to the zero value.
*/
func TestContent_ZeroValue(t *testing.T) {
	data, err := json.Marshal(Content{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	var decoded Content
	require.NoError(t, json.Unmarshal([]byte("null"), &decoded))
	assert.True(t, decoded.IsZero())
}

/*
TestSection_ListRoundTrip verifies the inlined tagged wire form of a profile
section carrying list content.
*/
func TestSection_ListRoundTrip(t *testing.T) {
	section := Section{
		Heading: "Research Interests",
		Content: Content{Type: ContentList, Items: []string{"Phonology", "Syntax"}},
		Order:   1,
	}

	data, err := json.Marshal(section)
	require.NoError(t, err)
	assert.JSONEq(t, `{"heading":"Research Interests","contentType":"list","items":["Phonology","Syntax"],"order":1}`, string(data))
	assert.NotContains(t, string(data), `"text"`)

	var decoded Section
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, section, decoded)
}

/*
TestSection_TextRoundTrip verifies the text variant of a profile section.
*/
func TestSection_TextRoundTrip(t *testing.T) {
	section := Section{
		Heading: "About",
		Content: Content{Type: ContentText, Text: "Thirty years in academic publishing."},
		Order:   2,
	}

	data, err := json.Marshal(section)
	require.NoError(t, err)
	assert.JSONEq(t, `{"heading":"About","contentType":"text","text":"Thirty years in academic publishing.","order":2}`, string(data))

	var decoded Section
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, section, decoded)
}

/*
TestSection_RejectsUnknownTag verifies that an unrecognized section
contentType is an error in both directions.
*/
func TestSection_RejectsUnknownTag(t *testing.T) {
	var decoded Section
	err := json.Unmarshal([]byte(`{"heading":"Bio","contentType":"markdown","text":"x","order":1}`), &decoded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markdown")

	_, err = json.Marshal(Section{Heading: "Bio", Content: Content{Type: "markdown"}})
	require.Error(t, err)
}

/*
TestMember_DecodesStructuredSections verifies that a member payload with
structured profile sections decodes into the section model.

Steps:
 1. Unmarshal a member carrying one list section and one text section.
 2. Both sections arrive with heading, typed content, and order intact.
*/
func TestMember_DecodesStructuredSections(t *testing.T) {
	raw := `{
		"name": "Prof. Nadia Rahman",
		"position": "Chief Editor",
		"phone": "+880-2-9661900",
		"sections": [
			{"heading":"Research Interests","contentType":"list","items":["Phonology","Language policy"],"order":1},
			{"heading":"Biography","contentType":"text","text":"Chairs the department since 2020.","order":2}
		]
	}`

	var member Member
	require.NoError(t, json.Unmarshal([]byte(raw), &member))

	assert.Equal(t, "+880-2-9661900", member.Phone)
	require.Len(t, member.Sections, 2)

	assert.Equal(t, "Research Interests", member.Sections[0].Heading)
	assert.Equal(t, ContentList, member.Sections[0].Content.Type)
	assert.Equal(t, []string{"Phonology", "Language policy"}, member.Sections[0].Content.Items)
	assert.Equal(t, 1, member.Sections[0].Order)

	assert.Equal(t, "Biography", member.Sections[1].Heading)
	assert.Equal(t, ContentText, member.Sections[1].Content.Type)
	assert.Equal(t, 2, member.Sections[1].Order)
}

/*
TestPosition_Rank verifies the display hierarchy and that unknown positions
sink to the bottom.
*/
func TestPosition_Rank(t *testing.T) {
	ordered := Positions()
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1].Rank(), ordered[i].Rank())
	}

	unknown := Position("Honorary Fellow")
	assert.False(t, unknown.Valid())
	assert.Greater(t, unknown.Rank(), PositionAdvisoryBoard.Rank())
}
