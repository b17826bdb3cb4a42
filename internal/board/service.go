// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package board

import (
	"context"
	"log/slog"
	"sort"

	"github.com/lehoangminh/folio/internal/platform/validate"
	"github.com/lehoangminh/folio/pkg/uuid"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListGrouped returns active members grouped by position in the board
// hierarchy, ready for the public board page.
//
// Ordering within a group follows display order; gaps and duplicate order
// values are tolerated, with name as the tiebreaker.
func (service *Service) ListGrouped(context context.Context) ([]*Group, error) {
	members, err := service.repo.List(context, true)
	if err != nil {
		return nil, err
	}
	return groupByPosition(members), nil
}

// ListAll returns every member, deactivated ones included, for admin views.
func (service *Service) ListAll(context context.Context) ([]*Member, error) {
	members, err := service.repo.List(context, false)
	if err != nil {
		return nil, err
	}

	sortMembers(members)
	return members, nil
}

func (service *Service) Get(context context.Context, id string) (*Member, error) {
	return service.repo.Get(context, id)
}

// Create adds a member at the end of their position group.
func (service *Service) Create(context context.Context, input *Member) error {
	if err := service.validateMember(input); err != nil {
		return err
	}

	maxOrder, err := service.repo.MaxDisplayOrder(context, input.Position)
	if err != nil {
		return err
	}

	input.ID = uuid.New()
	input.DisplayOrder = maxOrder + 1
	input.IsActive = true

	if err := service.repo.Create(context, input); err != nil {
		return err
	}

	service.logger.Info("board_member_created",
		slog.String("member_id", input.ID),
		slog.String("position", string(input.Position)),
		slog.Int("display_order", input.DisplayOrder),
	)
	return nil
}

// Update edits a member in place. A position change keeps the explicit
// display order from the input rather than reassigning it.
func (service *Service) Update(context context.Context, id string, input *Member) (*Member, error) {
	if err := service.validateMember(input); err != nil {
		return nil, err
	}

	existing, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Position = input.Position
	existing.Affiliation = input.Affiliation
	existing.Email = input.Email
	existing.Phone = input.Phone
	existing.PhotoURL = input.PhotoURL
	existing.Bio = input.Bio
	existing.Sections = input.Sections
	existing.IsActive = input.IsActive

	if input.DisplayOrder > 0 {
		existing.DisplayOrder = input.DisplayOrder
	}

	if err := service.repo.Update(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("board_member_updated", slog.String("member_id", id))
	return existing, nil
}

// Delete deactivates a member. The row survives so historical issues can
// still credit past board members.
func (service *Service) Delete(context context.Context, id string) error {
	if err := service.repo.Deactivate(context, id); err != nil {
		return err
	}

	service.logger.Warn("board_member_deactivated", slog.String("member_id", id))
	return nil
}

func (service *Service) validateMember(m *Member) error {
	positions := Positions()
	allowed := make([]string, len(positions))
	for i, p := range positions {
		allowed[i] = string(p)
	}

	validator := &validate.Validator{}
	validator.
		Required(FieldName, m.Name).MaxLen(FieldName, m.Name, 200).
		OneOf(FieldPosition, string(m.Position), allowed...).
		MaxLen(FieldAffiliation, m.Affiliation, 300).
		MaxLen(FieldPhone, m.Phone, 30).
		Custom(FieldOrder, m.DisplayOrder < 0, "Must not be negative")

	if m.Email != "" {
		validator.Email(FieldEmail, m.Email)
	}

	if m.Bio.Type == ContentList {
		for _, item := range m.Bio.Items {
			validator.Required(FieldBio, item)
		}
	}

	for _, section := range m.Sections {
		validator.Required(FieldSections, section.Heading)
		if section.Content.Type == ContentList {
			for _, item := range section.Content.Items {
				validator.Required(FieldSections, item)
			}
		}
	}

	return validator.Err()
}

// sortMembers orders by position rank, then display order, then name. Each
// member's profile sections are ordered by their position number as well.
func sortMembers(members []*Member) {
	for _, m := range members {
		sortSections(m.Sections)
	}

	sort.SliceStable(members, func(i, j int) bool {
		if members[i].Position.Rank() != members[j].Position.Rank() {
			return members[i].Position.Rank() < members[j].Position.Rank()
		}
		if members[i].DisplayOrder != members[j].DisplayOrder {
			return members[i].DisplayOrder < members[j].DisplayOrder
		}
		return members[i].Name < members[j].Name
	})
}

// sortSections orders profile sections by position number, tolerating
// duplicates and gaps.
func sortSections(sections []Section) {
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Order < sections[j].Order
	})
}

// groupByPosition sorts and buckets members under their position heading.
// Only positions with at least one member produce a group.
func groupByPosition(members []*Member) []*Group {
	sortMembers(members)

	groups := []*Group{}
	index := map[Position]*Group{}

	for _, m := range members {
		group, ok := index[m.Position]
		if !ok {
			group = &Group{Position: m.Position}
			index[m.Position] = group
			groups = append(groups, group)
		}
		group.Members = append(group.Members, m)
	}

	return groups
}
