package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/trip-planner/internal/model"
)

// TripStore is the capability the trip handlers need from trip storage.
// Every operation is scoped to an owner; a trip belonging to someone else
// behaves exactly like a missing trip.
type TripStore interface {
	Create(ctx context.Context, ownerID string, t model.Trip) (model.Trip, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Trip, error)
	Get(ctx context.Context, ownerID, tripID string) (model.Trip, error)
	Update(ctx context.Context, ownerID, tripID string, patch model.Trip) (model.Trip, error)
	Delete(ctx context.Context, ownerID, tripID string) error
	AddItineraryItem(ctx context.Context, ownerID, tripID string, item model.ItineraryItem) (model.ItineraryItem, error)
	UpdateItineraryItem(ctx context.Context, ownerID, tripID, itemID string, patch model.ItineraryItem) (model.ItineraryItem, error)
	DeleteItineraryItem(ctx context.Context, ownerID, tripID, itemID string) error
	AddActivity(ctx context.Context, ownerID, tripID, itemID string, a model.Activity) (model.Activity, error)
	UpdateActivity(ctx context.Context, ownerID, tripID, itemID, activityID string, patch model.Activity) (model.Activity, error)
	DeleteActivity(ctx context.Context, ownerID, tripID, itemID, activityID string) error
	Dashboard(ctx context.Context, ownerID string) (model.Dashboard, error)
}

// MemoryTripStore keeps trips in process memory behind one RWMutex.  Reads
// hand out deep copies so handlers can serialize them without holding the
// lock.
type MemoryTripStore struct {
	mu    sync.RWMutex
	trips map[string]*model.Trip
}

func NewMemoryTripStore() *MemoryTripStore {
	return &MemoryTripStore{trips: make(map[string]*model.Trip)}
}

func (s *MemoryTripStore) Create(_ context.Context, ownerID string, t model.Trip) (model.Trip, error) {
	t.ID = uuid.NewString()
	t.OwnerID = ownerID
	t.CreatedAt = time.Now().UTC()
	if t.Itinerary == nil {
		t.Itinerary = []model.ItineraryItem{}
	}

	s.mu.Lock()
	s.trips[t.ID] = &t
	s.mu.Unlock()
	return t.Clone(), nil
}

func (s *MemoryTripStore) ListByOwner(_ context.Context, ownerID string) ([]model.Trip, error) {
	s.mu.RLock()
	out := make([]model.Trip, 0)
	for _, t := range s.trips {
		if t.OwnerID == ownerID {
			out = append(out, t.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate < out[j].StartDate
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryTripStore) Get(_ context.Context, ownerID, tripID string) (model.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.owned(ownerID, tripID)
	if err != nil {
		return model.Trip{}, err
	}
	return t.Clone(), nil
}

// Update patches the mutable trip fields.  Empty patch fields keep the
// stored value.  The merged result is rejected before anything is written
// when it would end before it starts.
func (s *MemoryTripStore) Update(_ context.Context, ownerID, tripID string, patch model.Trip) (model.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.owned(ownerID, tripID)
	if err != nil {
		return model.Trip{}, err
	}
	start, end := t.StartDate, t.EndDate
	if patch.StartDate != "" {
		start = patch.StartDate
	}
	if patch.EndDate != "" {
		end = patch.EndDate
	}
	if end < start {
		return model.Trip{}, ErrInvalidDateRange
	}
	if patch.Title != "" {
		t.Title = patch.Title
	}
	if patch.Description != "" {
		t.Description = patch.Description
	}
	t.StartDate, t.EndDate = start, end
	return t.Clone(), nil
}

func (s *MemoryTripStore) Delete(_ context.Context, ownerID, tripID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.owned(ownerID, tripID); err != nil {
		return err
	}
	delete(s.trips, tripID)
	return nil
}

func (s *MemoryTripStore) AddItineraryItem(_ context.Context, ownerID, tripID string, item model.ItineraryItem) (model.ItineraryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.owned(ownerID, tripID)
	if err != nil {
		return model.ItineraryItem{}, err
	}
	item.ID = uuid.NewString()
	if item.Activities == nil {
		item.Activities = []model.Activity{}
	}
	t.Itinerary = append(t.Itinerary, item)
	return item, nil
}

// UpdateItineraryItem patches one item of a trip.  Empty patch fields keep
// the stored value; zero times keep the stored schedule.
func (s *MemoryTripStore) UpdateItineraryItem(_ context.Context, ownerID, tripID, itemID string, patch model.ItineraryItem) (model.ItineraryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.ownedItem(ownerID, tripID, itemID)
	if err != nil {
		return model.ItineraryItem{}, err
	}
	if patch.Title != "" {
		item.Title = patch.Title
	}
	if patch.Description != "" {
		item.Description = patch.Description
	}
	if patch.Location != "" {
		item.Location = patch.Location
	}
	if !patch.StartTime.IsZero() {
		item.StartTime = patch.StartTime
	}
	if !patch.EndTime.IsZero() {
		item.EndTime = patch.EndTime
	}
	out := *item
	out.Activities = append([]model.Activity(nil), item.Activities...)
	return out, nil
}

// DeleteItineraryItem removes an item and its activities from a trip.
func (s *MemoryTripStore) DeleteItineraryItem(_ context.Context, ownerID, tripID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.owned(ownerID, tripID)
	if err != nil {
		return err
	}
	for i := range t.Itinerary {
		if t.Itinerary[i].ID == itemID {
			t.Itinerary = append(t.Itinerary[:i], t.Itinerary[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryTripStore) AddActivity(_ context.Context, ownerID, tripID, itemID string, a model.Activity) (model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.ownedItem(ownerID, tripID, itemID)
	if err != nil {
		return model.Activity{}, err
	}
	a.ID = uuid.NewString()
	item.Activities = append(item.Activities, a)
	return a, nil
}

// UpdateActivity patches one activity of an itinerary item.
func (s *MemoryTripStore) UpdateActivity(_ context.Context, ownerID, tripID, itemID, activityID string, patch model.Activity) (model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.ownedItem(ownerID, tripID, itemID)
	if err != nil {
		return model.Activity{}, err
	}
	for i := range item.Activities {
		if item.Activities[i].ID != activityID {
			continue
		}
		a := &item.Activities[i]
		if patch.Title != "" {
			a.Title = patch.Title
		}
		if patch.Description != "" {
			a.Description = patch.Description
		}
		if patch.Location != "" {
			a.Location = patch.Location
		}
		if patch.StartTime != "" {
			a.StartTime = patch.StartTime
		}
		if patch.EndTime != "" {
			a.EndTime = patch.EndTime
		}
		return *a, nil
	}
	return model.Activity{}, ErrNotFound
}

// DeleteActivity removes one activity from an itinerary item.
func (s *MemoryTripStore) DeleteActivity(_ context.Context, ownerID, tripID, itemID, activityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.ownedItem(ownerID, tripID, itemID)
	if err != nil {
		return err
	}
	for i := range item.Activities {
		if item.Activities[i].ID == activityID {
			item.Activities = append(item.Activities[:i], item.Activities[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryTripStore) Dashboard(_ context.Context, ownerID string) (model.Dashboard, error) {
	today := time.Now().UTC().Format("2006-01-02")

	s.mu.RLock()
	defer s.mu.RUnlock()
	var d model.Dashboard
	nextStart := ""
	for _, t := range s.trips {
		if t.OwnerID != ownerID {
			continue
		}
		d.TripCount++
		d.ItineraryItemCount += len(t.Itinerary)
		for _, it := range t.Itinerary {
			d.ActivityCount += len(it.Activities)
		}
		if t.StartDate >= today {
			d.UpcomingTripCount++
			if nextStart == "" || t.StartDate < nextStart {
				nextStart = t.StartDate
				d.NextTripID = t.ID
			}
		}
	}
	return d, nil
}

// owned returns the stored trip only when it exists and belongs to ownerID.
// Callers must hold the lock.
func (s *MemoryTripStore) owned(ownerID, tripID string) (*model.Trip, error) {
	t, ok := s.trips[tripID]
	if !ok || t.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return t, nil
}

// ownedItem resolves one itinerary item of an owned trip.  Callers must
// hold the lock; the returned pointer aliases store state.
func (s *MemoryTripStore) ownedItem(ownerID, tripID, itemID string) (*model.ItineraryItem, error) {
	t, err := s.owned(ownerID, tripID)
	if err != nil {
		return nil, err
	}
	for i := range t.Itinerary {
		if t.Itinerary[i].ID == itemID {
			return &t.Itinerary[i], nil
		}
	}
	return nil, ErrNotFound
}
