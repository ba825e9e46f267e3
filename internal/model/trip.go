package model

import "time"

// Trip is a planned trip owned by a single user.  Dates use the
// "YYYY-MM-DD" form; handlers validate them before storage.
type Trip struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"-"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
	Itinerary   []ItineraryItem `json:"itinerary"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ItineraryItem is one scheduled block of a trip (a day, an excursion)
// holding its own list of activities.
type ItineraryItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     time.Time  `json:"endTime"`
	Activities  []Activity `json:"activities"`
}

// Activity is a single entry inside an itinerary item.  Times are clock
// times in "HH:MM" form, matching how clients present them.
type Activity struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}

// Dashboard aggregates a user's planning state for the home view.
type Dashboard struct {
	TripCount          int    `json:"tripCount"`
	UpcomingTripCount  int    `json:"upcomingTripCount"`
	ItineraryItemCount int    `json:"itineraryItemCount"`
	ActivityCount      int    `json:"activityCount"`
	NextTripID         string `json:"nextTripId,omitempty"`
}

// Clone returns a deep copy so store readers never share slices with
// writers.
func (t Trip) Clone() Trip {
	out := t
	out.Itinerary = make([]ItineraryItem, len(t.Itinerary))
	for i, it := range t.Itinerary {
		out.Itinerary[i] = it
		out.Itinerary[i].Activities = append([]Activity(nil), it.Activities...)
	}
	return out
}
