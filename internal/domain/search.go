package domain

// SortKey selects the ordering of search results.
type SortKey string

const (
	SortByPrice         SortKey = "price_per_seat"
	SortByDepartureTime SortKey = "departure_time"
	SortByDistance      SortKey = "distance_km"
)

// TimeOfDay buckets departure hours.
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "morning"   // [6,12)
	TimeOfDayAfternoon TimeOfDay = "afternoon" // [12,18)
	TimeOfDayEvening   TimeOfDay = "evening"   // [18,22)
	TimeOfDayNight     TimeOfDay = "night"     // [22,6)
)

// ExperienceTier buckets drivers by completed trips.
type ExperienceTier string

const (
	ExperienceNew         ExperienceTier = "new"         // < 10
	ExperienceExperienced ExperienceTier = "experienced" // [10,50)
	ExperienceExpert      ExperienceTier = "expert"      // >= 50
)

// SmokingPolicy is derived from the non_smoke tag.
type SmokingPolicy string

const (
	SmokingForbidden SmokingPolicy = "non_smoking"
	SmokingAllowed   SmokingPolicy = "smoking"
)

// SearchQuery is a passenger's trip search.
type SearchQuery struct {
	Departure      string
	Arrival        string
	DepartureCoord *Coordinate // Enables proximity matching on the departure leg
	ArrivalCoord   *Coordinate // Enables proximity matching on the arrival leg
	Date           string      // Prefix of the departure time string, e.g. 2025-01-15
	RadiusKm       float64
	MaxPrice       float64 // 0 means no ceiling
	MinSeats       int
	Facets         Facets
	SortBy         SortKey
	Descending     bool
}

// Facets are optional secondary constraints; zero values disable them.
type Facets struct {
	MinPrice       float64
	MaxPrice       float64
	MinSeats       int
	TripType       TripType
	PaymentMethods []PaymentMode
	TimeOfDay      TimeOfDay
	MinRating      float64
	Experience     ExperienceTier
	Smoking        SmokingPolicy
	Gender         string
	VerifiedOnly   bool
}
