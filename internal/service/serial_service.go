package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/trailmark/internal/model"
	appErr "github.com/xxxsen/trailmark/internal/pkg/errors"
	"github.com/xxxsen/trailmark/internal/pkg/timeutil"
	"github.com/xxxsen/trailmark/internal/repo"
)

const DefaultSerialColor = "#3B82F6"

type SerialService struct {
	reads    *repo.Repos
	coord    *Coordinator
	validate *validator.Validate
}

type SerialInput struct {
	Name        string
	Description string
	Color       string
	Markers     []string
}

type SerialDetail struct {
	model.Serial
	Markers []model.SerialStop `json:"markers"`
}

func NewSerialService(reads *repo.Repos, coord *Coordinator) *SerialService {
	return &SerialService{reads: reads, coord: coord, validate: validator.New()}
}

func (s *SerialService) List(ctx context.Context, userID string) ([]model.SerialSummary, error) {
	return s.reads.Serials.ListSummary(ctx, userID)
}

func (s *SerialService) Get(ctx context.Context, userID, serialID string) (*SerialDetail, error) {
	serial, err := s.reads.Serials.GetByID(ctx, userID, serialID)
	if err != nil {
		return nil, err
	}
	stops, err := s.reads.SerialMembers.ListStops(ctx, serial.ID)
	if err != nil {
		return nil, err
	}
	return &SerialDetail{Serial: *serial, Markers: stops}, nil
}

func (s *SerialService) Create(ctx context.Context, userID string, input SerialInput) (*model.Serial, error) {
	input, err := s.normalize(input)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	serial := &model.Serial{
		ID:          newID(),
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		Ctime:       now,
		Mtime:       now,
	}
	err = s.coord.Atomic(ctx, "serial.create", func(r *repo.Repos) error {
		if err := s.coord.CheckOwnership(ctx, r, userID, input.Markers); err != nil {
			return err
		}
		if err := r.Serials.Create(ctx, serial); err != nil {
			return err
		}
		return r.SerialMembers.ReplaceBySerial(ctx, serial.ID, input.Markers)
	})
	if err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Info("serial created",
		zap.String("user_id", userID),
		zap.String("serial_id", serial.ID),
		zap.Int("members", len(input.Markers)),
	)
	return serial, nil
}

// Update replaces the metadata and the full member list. The serial row is
// written first so that concurrent updates of the same serial queue on it.
func (s *SerialService) Update(ctx context.Context, userID, serialID string, input SerialInput) (*model.Serial, error) {
	input, err := s.normalize(input)
	if err != nil {
		return nil, err
	}
	var updated *model.Serial
	err = s.coord.Atomic(ctx, "serial.update", func(r *repo.Repos) error {
		if err := r.Serials.Update(ctx, &model.Serial{
			ID:          serialID,
			UserID:      userID,
			Name:        input.Name,
			Description: input.Description,
			Color:       input.Color,
			Mtime:       timeutil.NowUnix(),
		}); err != nil {
			return err
		}
		if err := s.coord.CheckOwnership(ctx, r, userID, input.Markers); err != nil {
			return err
		}
		if err := r.SerialMembers.ReplaceBySerial(ctx, serialID, input.Markers); err != nil {
			return err
		}
		var err error
		updated, err = r.Serials.GetByID(ctx, userID, serialID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *SerialService) Delete(ctx context.Context, userID, serialID string) error {
	return s.coord.Atomic(ctx, "serial.delete", func(r *repo.Repos) error {
		if _, err := r.Serials.GetByID(ctx, userID, serialID); err != nil {
			return err
		}
		if err := r.SerialMembers.DeleteBySerial(ctx, serialID); err != nil {
			return err
		}
		return r.Serials.Delete(ctx, userID, serialID)
	})
}

func (s *SerialService) normalize(input SerialInput) (SerialInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return input, appErr.ErrInvalid
	}
	input.Color = strings.TrimSpace(input.Color)
	if input.Color == "" {
		input.Color = DefaultSerialColor
	}
	if err := s.validate.Var(input.Color, "hexcolor"); err != nil {
		return input, appErr.ErrInvalid
	}
	if err := ValidateMembers(input.Markers); err != nil {
		return input, err
	}
	return input, nil
}
