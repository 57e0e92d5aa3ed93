package scoreboard

// Tour is one of the two professional singles circuits whose feeds are queried.
type Tour string

const (
	TourATP Tour = "atp"
	TourWTA Tour = "wta"
)

// Tours lists every feed variant fetched for a day, in merge order.
var Tours = []Tour{TourATP, TourWTA}

// Scoreboard is one tour's daily feed. Events are untrusted records.
type Scoreboard struct {
	Tour   Tour
	Events []Record
}

// FromPayload wraps a decoded scoreboard document.
func FromPayload(tour Tour, payload map[string]any) Scoreboard {
	return Scoreboard{
		Tour:   tour,
		Events: Wrap(payload).Records("events"),
	}
}
