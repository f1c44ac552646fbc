package search

import (
	"time"

	"unigo/internal/domain"
	"unigo/internal/geo"
)

// Universities is the partner campus catalogue. Short names double as
// search aliases.
var Universities = []domain.University{
	{ID: "uir", Name: "Université Internationale de Rabat", ShortName: "UIR", City: "Salé", Coordinates: domain.Coordinate{Lat: 33.9547, Lng: -6.8326}},
	{ID: "um5", Name: "Université Mohammed V", ShortName: "UM5", City: "Rabat", Coordinates: domain.Coordinate{Lat: 34.0037, Lng: -6.8498}},
	{ID: "ensias", Name: "École Nationale Supérieure d'Informatique et d'Analyse des Systèmes", ShortName: "ENSIAS", City: "Rabat", Coordinates: domain.Coordinate{Lat: 33.9847, Lng: -6.8673}},
	{ID: "emi", Name: "École Mohammadia d'Ingénieurs", ShortName: "EMI", City: "Rabat", Coordinates: domain.Coordinate{Lat: 34.0005, Lng: -6.8526}},
	{ID: "uit", Name: "Université Ibn Tofail", ShortName: "UIT", City: "Kénitra", Coordinates: domain.Coordinate{Lat: 34.2466, Lng: -6.5861}},
	{ID: "insea", Name: "Institut National de Statistique et d'Économie Appliquée", ShortName: "INSEA", City: "Rabat", Coordinates: domain.Coordinate{Lat: 33.9823, Lng: -6.8640}},
}

// SeedTrips is the offline fixture served when no live trip source answers.
// Departures are scheduled on the day after now, in now's location.
func SeedTrips(now time.Time) []domain.Trip {
	y, m, d := now.AddDate(0, 0, 1).Date()
	at := func(hour, min int) time.Time {
		return time.Date(y, m, d, hour, min, 0, 0, now.Location())
	}

	trips := []domain.Trip{
		{
			ID:       "1",
			DriverID: "driver-1",
			Driver: &domain.Driver{
				ID: "driver-1", Name: "Youssef El Amrani", Gender: domain.GenderMale,
				Rating: 4.8, CompletedTrips: 34, Status: domain.DriverStatusActive,
			},
			Departure:      place("Agdal, Rabat", 33.9716, -6.8498),
			Arrival:        place("Université Internationale de Rabat, Salé", 33.9547, -6.8326),
			DepartureTime:  at(8, 0),
			ArrivalTime:    at(8, 20),
			PricePerSeat:   15,
			TotalSeats:     4,
			AvailableSeats: 3,
			Tags:           []string{domain.TagNonSmoke},
			PaymentModes:   []domain.PaymentMode{domain.PaymentModeCash, domain.PaymentModeUniCard},
			TripType:       domain.TripTypeOneWay,
			UniversityID:   "uir",
			Status:         domain.TripStatusPublished,
		},
		{
			ID:       "2",
			DriverID: "driver-2",
			Driver: &domain.Driver{
				ID: "driver-2", Name: "Salma Bennani", Gender: domain.GenderFemale,
				Rating: 4.9, CompletedTrips: 62, Status: domain.DriverStatusActive,
			},
			Departure:      place("Hay Riad, Rabat", 33.9591, -6.8756),
			Arrival:        place("Technopolis, Salé", 33.9925, -6.7230),
			DepartureTime:  at(9, 30),
			ArrivalTime:    at(10, 0),
			PricePerSeat:   20,
			TotalSeats:     3,
			AvailableSeats: 2,
			Tags:           []string{domain.TagNonSmoke, domain.TagFemaleOnly},
			PaymentModes:   []domain.PaymentMode{domain.PaymentModeUniCard},
			TripType:       domain.TripTypeRecurring,
			Status:         domain.TripStatusPublished,
		},
		{
			ID:       "3",
			DriverID: "driver-3",
			Driver: &domain.Driver{
				ID: "driver-3", Name: "Karim Tazi", Gender: domain.GenderMale,
				Rating: 4.2, CompletedTrips: 5, Status: domain.DriverStatusPending,
			},
			Departure:      place("Hassan, Rabat", 34.0209, -6.8317),
			Arrival:        place("Centre Ville, Kénitra", 34.2610, -6.5802),
			DepartureTime:  at(7, 45),
			ArrivalTime:    at(8, 40),
			PricePerSeat:   25,
			TotalSeats:     4,
			AvailableSeats: 4,
			PaymentModes:   []domain.PaymentMode{domain.PaymentModeCash},
			TripType:       domain.TripTypeOneWay,
			Status:         domain.TripStatusPublished,
		},
	}

	for i := range trips {
		t := &trips[i]
		t.DistanceKm = geo.DistanceKm(t.Departure.Coordinates.Lat, t.Departure.Coordinates.Lng,
			t.Arrival.Coordinates.Lat, t.Arrival.Coordinates.Lng)
		t.CreatedAt = now
		t.UpdatedAt = now
	}
	return trips
}

func place(address string, lat, lng float64) domain.Place {
	return domain.Place{Address: address, Coordinates: domain.Coordinate{Lat: lat, Lng: lng}}
}
