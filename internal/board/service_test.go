// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package board

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehoangminh/folio/internal/platform/apperr"
)

type fakeRepository struct {
	members map[string]*Member
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{members: map[string]*Member{}}
}

func (r *fakeRepository) List(_ context.Context, activeOnly bool) ([]*Member, error) {
	var out []*Member
	for _, m := range r.members {
		if activeOnly && !m.IsActive {
			continue
		}
		copied := *m
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeRepository) Get(_ context.Context, id string) (*Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, apperr.NotFound("Board member")
	}
	copied := *m
	return &copied, nil
}

func (r *fakeRepository) Create(_ context.Context, m *Member) error {
	copied := *m
	r.members[m.ID] = &copied
	return nil
}

func (r *fakeRepository) Update(_ context.Context, m *Member) error {
	if _, ok := r.members[m.ID]; !ok {
		return apperr.NotFound("Board member")
	}
	copied := *m
	r.members[m.ID] = &copied
	return nil
}

func (r *fakeRepository) Deactivate(_ context.Context, id string) error {
	m, ok := r.members[id]
	if !ok {
		return apperr.NotFound("Board member")
	}
	m.IsActive = false
	return nil
}

func (r *fakeRepository) MaxDisplayOrder(_ context.Context, position Position) (int, error) {
	max := 0
	for _, m := range r.members {
		if m.Position == position && m.DisplayOrder > max {
			max = m.DisplayOrder
		}
	}
	return max, nil
}

func newBoardFixture(t *testing.T) (*Service, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, logger), repo
}

func member(name string, position Position, order int, active bool) *Member {
	return &Member{
		ID:           "id-" + name,
		Name:         name,
		Position:     position,
		DisplayOrder: order,
		IsActive:     active,
		Bio:          Content{Type: ContentText, Text: name + " bio"},
	}
}

/*
TestService_CreateAssignsNextOrder verifies that new members land at the end
of their own position group, independent of other groups.

Steps:
 1. Seed two editorial board members at orders 3 and 7 (a gap is fine).
 2. Create a new editorial board member — gets order 8.
 3. Create a patron — gets order 1, since the patron group is empty.
*/
func TestService_CreateAssignsNextOrder(t *testing.T) {
	service, repo := newBoardFixture(t)
	repo.members["a"] = member("Aye", PositionEditorialBoard, 3, true)
	repo.members["b"] = member("Bee", PositionEditorialBoard, 7, true)

	newEditor := &Member{Name: "Cee", Position: PositionEditorialBoard}
	require.NoError(t, service.Create(context.Background(), newEditor))
	assert.Equal(t, 8, newEditor.DisplayOrder)
	assert.True(t, newEditor.IsActive)
	assert.NotEmpty(t, newEditor.ID)

	patron := &Member{Name: "Dee", Position: PositionPatron}
	require.NoError(t, service.Create(context.Background(), patron))
	assert.Equal(t, 1, patron.DisplayOrder)
}

/*
TestService_CreateValidation verifies rejection of invalid members.
*/
func TestService_CreateValidation(t *testing.T) {
	service, repo := newBoardFixture(t)

	cases := []struct {
		name  string
		input *Member
	}{
		{"missing_name", &Member{Position: PositionPatron}},
		{"unknown_position", &Member{Name: "X", Position: "Honorary Fellow"}},
		{"bad_email", &Member{Name: "X", Position: PositionPatron, Email: "not-an-email"}},
		{"empty_bio_item", &Member{
			Name:     "X",
			Position: PositionPatron,
			Bio:      Content{Type: ContentList, Items: []string{"ok", "  "}},
		}},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			err := service.Create(context.Background(), testCase.input)
			require.Error(t, err)
			assert.True(t, apperr.IsAppError(err))
			assert.Empty(t, repo.members)
		})
	}
}

/*
TestService_ListGrouped verifies hierarchy grouping.

Steps:
 1. Seed members across positions with duplicate and gapped orders, plus an
    inactive member.
 2. Groups come back in hierarchy order, only for non-empty positions.
 3. Within a group, display order wins; ties fall back to name.
 4. The inactive member is absent.
*/
func TestService_ListGrouped(t *testing.T) {
	service, repo := newBoardFixture(t)
	repo.members["1"] = member("Zara", PositionEditorialBoard, 2, true)
	repo.members["2"] = member("Anna", PositionEditorialBoard, 2, true)
	repo.members["3"] = member("Mira", PositionEditorialBoard, 9, true)
	repo.members["4"] = member("Chief", PositionChiefEditor, 1, true)
	repo.members["5"] = member("Ghost", PositionPatron, 1, false)

	groups, err := service.ListGrouped(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, PositionChiefEditor, groups[0].Position)
	require.Len(t, groups[0].Members, 1)

	assert.Equal(t, PositionEditorialBoard, groups[1].Position)
	require.Len(t, groups[1].Members, 3)
	assert.Equal(t, "Anna", groups[1].Members[0].Name)
	assert.Equal(t, "Zara", groups[1].Members[1].Name)
	assert.Equal(t, "Mira", groups[1].Members[2].Name)
}

/*
TestService_ListAllIncludesInactive verifies the admin roster view.
*/
func TestService_ListAllIncludesInactive(t *testing.T) {
	service, repo := newBoardFixture(t)
	repo.members["1"] = member("Active", PositionPatron, 1, true)
	repo.members["2"] = member("Retired", PositionChiefEditor, 1, false)

	members, err := service.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 2)

	// Hierarchy ordering still applies.
	assert.Equal(t, "Active", members[0].Name)
	assert.Equal(t, "Retired", members[1].Name)
}

/*
TestService_UpdateEditsInPlace verifies field replacement and that a zero
display order keeps the existing one.
*/
func TestService_UpdateEditsInPlace(t *testing.T) {
	service, repo := newBoardFixture(t)
	repo.members["m"] = member("Old Name", PositionAssociate, 4, true)
	repo.members["m"].ID = "m"

	input := &Member{
		Name:     "New Name",
		Position: PositionAssociate,
		Bio:      Content{Type: ContentList, Items: []string{"item one"}},
		IsActive: true,
	}

	updated, err := service.Update(context.Background(), "m", input)
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, 4, updated.DisplayOrder, "zero input order keeps the stored order")
	assert.Equal(t, ContentList, updated.Bio.Type)
}

/*
TestService_UpdateReplacesContactAndSections verifies that phone and the
structured profile sections follow the input.
*/
func TestService_UpdateReplacesContactAndSections(t *testing.T) {
	service, repo := newBoardFixture(t)
	repo.members["m"] = member("Prof. Rahman", PositionChiefEditor, 1, true)
	repo.members["m"].ID = "m"

	input := &Member{
		Name:     "Prof. Rahman",
		Position: PositionChiefEditor,
		Phone:    "+880-2-9661900",
		Sections: []Section{
			{Heading: "Research Interests", Content: Content{Type: ContentList, Items: []string{"Phonology"}}, Order: 1},
		},
		IsActive: true,
	}

	updated, err := service.Update(context.Background(), "m", input)
	require.NoError(t, err)
	assert.Equal(t, "+880-2-9661900", updated.Phone)
	require.Len(t, updated.Sections, 1)
	assert.Equal(t, "Research Interests", updated.Sections[0].Heading)
}

/*
TestService_SectionValidation verifies that sections need headings and that
list sections reject blank items.
*/
func TestService_SectionValidation(t *testing.T) {
	service, repo := newBoardFixture(t)

	cases := []struct {
		name     string
		sections []Section
	}{
		{"missing_heading", []Section{{Content: Content{Type: ContentText, Text: "x"}, Order: 1}}},
		{"blank_list_item", []Section{{
			Heading: "Publications",
			Content: Content{Type: ContentList, Items: []string{"ok", " "}},
			Order:   1,
		}}},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			input := &Member{Name: "X", Position: PositionPatron, Sections: testCase.sections}
			err := service.Create(context.Background(), input)
			require.Error(t, err)
			assert.True(t, apperr.IsAppError(err))
			assert.Empty(t, repo.members)
		})
	}
}

/*
TestService_ListSortsSectionsByOrder verifies that each member's profile
sections come back ordered by their position number, gaps and all.
*/
func TestService_ListSortsSectionsByOrder(t *testing.T) {
	service, repo := newBoardFixture(t)

	m := member("Prof. Rahman", PositionChiefEditor, 1, true)
	m.Sections = []Section{
		{Heading: "Publications", Content: Content{Type: ContentText, Text: "Forty papers."}, Order: 9},
		{Heading: "Research Interests", Content: Content{Type: ContentList, Items: []string{"Syntax"}}, Order: 1},
		{Heading: "Teaching", Content: Content{Type: ContentText, Text: "Graduate seminars."}, Order: 4},
	}
	repo.members["m"] = m

	members, err := service.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 1)

	headings := make([]string, 0, 3)
	for _, section := range members[0].Sections {
		headings = append(headings, section.Heading)
	}
	assert.Equal(t, []string{"Research Interests", "Teaching", "Publications"}, headings)
}

/*
TestService_DeleteIsSoft verifies that deletion deactivates instead of
removing the row.
*/
func TestService_DeleteIsSoft(t *testing.T) {
	service, repo := newBoardFixture(t)
	repo.members["m"] = member("Mira", PositionPatron, 1, true)
	repo.members["m"].ID = "m"

	require.NoError(t, service.Delete(context.Background(), "m"))

	stored, ok := repo.members["m"]
	require.True(t, ok, "row must survive")
	assert.False(t, stored.IsActive)

	err := service.Delete(context.Background(), "missing")
	require.Error(t, err)
}
