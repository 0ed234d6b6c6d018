package service

import (
	"context"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/trailmark/internal/model"
	appErr "github.com/xxxsen/trailmark/internal/pkg/errors"
	"github.com/xxxsen/trailmark/internal/pkg/timeutil"
	"github.com/xxxsen/trailmark/internal/repo"
)

type MarkerService struct {
	reads *repo.Repos
	coord *Coordinator
	tags  *TagRegistry
}

type MarkerInput struct {
	Title       string
	Description string
	Weather     string
	Date        string
	Latitude    *float64
	Longitude   *float64
	Tags        []string
}

type MarkerView struct {
	model.Marker
	Tags []string `json:"tags"`
}

func NewMarkerService(reads *repo.Repos, coord *Coordinator, tags *TagRegistry) *MarkerService {
	return &MarkerService{reads: reads, coord: coord, tags: tags}
}

func (s *MarkerService) List(ctx context.Context, userID string, filter repo.MarkerFilter) ([]MarkerView, error) {
	if (filter.From != "" && !timeutil.ValidDate(filter.From)) || (filter.To != "" && !timeutil.ValidDate(filter.To)) {
		return nil, appErr.ErrInvalid
	}
	markers, err := s.reads.Markers.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	tagMap, err := s.reads.MarkerTags.ListNamesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]MarkerView, 0, len(markers))
	for _, marker := range markers {
		names := tagMap[marker.ID]
		if names == nil {
			names = []string{}
		}
		items = append(items, MarkerView{Marker: marker, Tags: names})
	}
	return items, nil
}

func (s *MarkerService) Create(ctx context.Context, userID string, input MarkerInput) (*MarkerView, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || input.Latitude == nil || input.Longitude == nil {
		return nil, appErr.ErrInvalid
	}
	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = timeutil.Today()
	} else if !timeutil.ValidDate(date) {
		return nil, appErr.ErrInvalid
	}
	names, err := dedupTagNames(input.Tags)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	marker := model.Marker{
		ID:          newID(),
		UserID:      userID,
		Title:       title,
		Description: input.Description,
		Weather:     input.Weather,
		Latitude:    *input.Latitude,
		Longitude:   *input.Longitude,
		Date:        date,
		Ctime:       now,
		Mtime:       now,
	}
	var resolved map[string]string
	err = s.coord.Atomic(ctx, "marker.create", func(r *repo.Repos) error {
		if err := r.Markers.Create(ctx, &marker); err != nil {
			return err
		}
		var err error
		resolved, err = s.linkTags(ctx, r, marker.ID, names)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.tags.remember(resolved)
	logutil.GetLogger(ctx).Info("marker created",
		zap.String("user_id", userID),
		zap.String("marker_id", marker.ID),
		zap.Int("tags", len(names)),
	)
	return &MarkerView{Marker: marker, Tags: names}, nil
}

// Update replaces title, description, weather, date and the whole tag set.
// Position never changes.
func (s *MarkerService) Update(ctx context.Context, userID, markerID string, input MarkerInput) (*MarkerView, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, appErr.ErrInvalid
	}
	date := strings.TrimSpace(input.Date)
	if date != "" && !timeutil.ValidDate(date) {
		return nil, appErr.ErrInvalid
	}
	names, err := dedupTagNames(input.Tags)
	if err != nil {
		return nil, err
	}
	var (
		resolved map[string]string
		updated  *model.Marker
	)
	err = s.coord.Atomic(ctx, "marker.update", func(r *repo.Repos) error {
		if err := r.Markers.Update(ctx, &model.Marker{
			ID:          markerID,
			UserID:      userID,
			Title:       title,
			Description: input.Description,
			Weather:     input.Weather,
			Date:        date,
			Mtime:       timeutil.NowUnix(),
		}); err != nil {
			return err
		}
		var err error
		if resolved, err = s.linkTags(ctx, r, markerID, names); err != nil {
			return err
		}
		updated, err = r.Markers.GetByID(ctx, userID, markerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.tags.remember(resolved)
	return &MarkerView{Marker: *updated, Tags: names}, nil
}

// Delete is refused with ErrMarkerInUse while any serial references the
// marker. Photo blobs are queued for removal in the same transaction.
func (s *MarkerService) Delete(ctx context.Context, userID, markerID string) error {
	var fileKeys []string
	err := s.coord.Atomic(ctx, "marker.delete", func(r *repo.Repos) error {
		if _, err := r.Markers.GetByID(ctx, userID, markerID); err != nil {
			return err
		}
		refs, err := r.SerialMembers.CountByMarker(ctx, markerID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return appErr.ErrMarkerInUse
		}
		photos, err := r.Photos.ListByMarker(ctx, userID, markerID)
		if err != nil {
			return err
		}
		fileKeys = make([]string, 0, len(photos))
		for _, photo := range photos {
			fileKeys = append(fileKeys, photo.FileKey)
		}
		if err := r.PhotoGC.Enqueue(ctx, fileKeys, timeutil.NowUnix()); err != nil {
			return err
		}
		if err := r.Photos.DeleteByMarker(ctx, markerID); err != nil {
			return err
		}
		if err := r.MarkerTags.DeleteByMarker(ctx, markerID); err != nil {
			return err
		}
		return r.Markers.Delete(ctx, userID, markerID)
	})
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("marker deleted",
		zap.String("user_id", userID),
		zap.String("marker_id", markerID),
		zap.Int("queued_photos", len(fileKeys)),
	)
	return nil
}

func (s *MarkerService) ListTags(ctx context.Context, userID string) ([]string, error) {
	return s.tags.ListNames(ctx, userID)
}

func (s *MarkerService) linkTags(ctx context.Context, r *repo.Repos, markerID string, names []string) (map[string]string, error) {
	resolved := make(map[string]string, len(names))
	tagIDs := make([]string, 0, len(names))
	for _, name := range names {
		id, err := s.tags.resolveIn(ctx, r.Tags, name)
		if err != nil {
			return nil, err
		}
		resolved[name] = id
		tagIDs = append(tagIDs, id)
	}
	if err := r.MarkerTags.ReplaceByMarker(ctx, markerID, tagIDs); err != nil {
		return nil, err
	}
	return resolved, nil
}

// dedupTagNames keeps the first occurrence of each exact name. Blank names
// are rejected rather than dropped.
func dedupTagNames(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, appErr.ErrInvalid
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}
