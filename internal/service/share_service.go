package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "travelshare/internal/errors"
	"travelshare/internal/model"
	"travelshare/internal/repository"
)

// ShareService shares a trip selection with another user.
type ShareService interface {
	ShareTrip(ctx context.Context, requesterID uuid.UUID, targetEmail, selection string) (*model.Trip, error)
}

type shareService struct {
	repo  repository.UserRepository
	cache Cache
}

// NewShareService creates a new share service.
func NewShareService(repo repository.UserRepository, cache Cache) ShareService {
	return &shareService{repo: repo, cache: cache}
}

// ShareTrip adds targetEmail to the selection's people, appends the result
// to the target's trips and records targetEmail on the requester's
// shared-with list.
//
// Both writes run in one transaction, target first. Either both are
// committed or neither is.
func (s *shareService) ShareTrip(ctx context.Context, requesterID uuid.UUID, targetEmail, selection string) (*model.Trip, error) {
	targetEmail = strings.TrimSpace(targetEmail)
	if targetEmail == "" {
		return nil, fmt.Errorf("%w: target email is required", apperrors.ErrMalformedSelection)
	}

	trip, err := ParseSelection(selection)
	if err != nil {
		return nil, err
	}
	trip.People = appendUnique(trip.People, targetEmail)

	var targetID uuid.UUID
	err = s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.UserRepository) error {
		target, err := txRepo.FindByEmailForUpdate(ctx, targetEmail)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTargetNotFound
			}
			return fmt.Errorf("find target: %w", err)
		}
		targetID = target.ID
		if err := txRepo.AppendTrip(ctx, target.ID, &trip); err != nil {
			return fmt.Errorf("append shared trip: %w", err)
		}

		requester, err := txRepo.FindByIDForUpdate(ctx, requesterID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrRequesterNotFound
			}
			return fmt.Errorf("find requester: %w", err)
		}
		sharedWith := appendUnique(requester.SharedWith, targetEmail)
		if err := txRepo.UpdateSharedWith(ctx, requester.ID, sharedWith); err != nil {
			return fmt.Errorf("update shared-with: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateUser(ctx, s.cache, targetID)
	invalidateUser(ctx, s.cache, requesterID)
	return &trip, nil
}

// selectionPayload accepts a trip in the current JSON shape or in the legacy
// one (local, data_ida, ..., pessoas). When both keys of a pair are set the
// current one wins.
type selectionPayload struct {
	Location      *string  `json:"location"`
	DepartureDate *string  `json:"departure_date"`
	ReturnDate    *string  `json:"return_date"`
	GuidedTour    *bool    `json:"guided_tour"`
	Lodging       *bool    `json:"lodging"`
	Breakfast     *bool    `json:"breakfast"`
	People        []string `json:"people"`

	Local         *string  `json:"local"`
	DataIda       *string  `json:"data_ida"`
	DataVolta     *string  `json:"data_volta"`
	GuiaTuristico *bool    `json:"guia_turistico"`
	Hospedagem    *bool    `json:"hospedagem"`
	CafeDaManha   *bool    `json:"cafe_da_manha"`
	Pessoas       []string `json:"pessoas"`

	// Legacy documents carry a store id; it is ignored.
	LegacyID json.RawMessage `json:"_id"`
}

func (p selectionPayload) trip() model.Trip {
	trip := model.Trip{
		Location:      firstString(p.Location, p.Local),
		DepartureDate: firstString(p.DepartureDate, p.DataIda),
		ReturnDate:    firstString(p.ReturnDate, p.DataVolta),
		GuidedTour:    firstBool(p.GuidedTour, p.GuiaTuristico),
		Lodging:       firstBool(p.Lodging, p.Hospedagem),
		Breakfast:     firstBool(p.Breakfast, p.CafeDaManha),
		People:        p.People,
	}
	if trip.People == nil {
		trip.People = p.Pessoas
	}
	return trip.Clone()
}

func firstString(values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return ""
}

func firstBool(values ...*bool) bool {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return false
}

// ParseSelection decodes a serialized trip as returned in a user's trip list.
func ParseSelection(selection string) (model.Trip, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(selection)))
	dec.DisallowUnknownFields()

	var parsed selectionPayload
	if err := dec.Decode(&parsed); err != nil {
		return model.Trip{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedSelection, err)
	}
	if dec.More() {
		return model.Trip{}, fmt.Errorf("%w: trailing data", apperrors.ErrMalformedSelection)
	}

	trip := parsed.trip()
	if strings.TrimSpace(trip.Location) == "" {
		return model.Trip{}, fmt.Errorf("%w: location is required", apperrors.ErrMalformedSelection)
	}
	return trip, nil
}

func appendUnique(list []string, value string) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	for _, v := range list {
		if v == value {
			return out
		}
	}
	return append(out, value)
}
