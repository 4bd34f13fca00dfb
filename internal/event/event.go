package event

// Venue identifies where an event takes place. IDs are assigned
// sequentially within a single scrape run and are not stable across runs.
type Venue struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	City   string `json:"city"`
	Region string `json:"region"`
}

// Event is the canonical record produced by one scrape run.
//
// Date holds either an ISO calendar date (YYYY-MM-DD) when the source
// text could be resolved, or the original free text when it could not.
// Links maps link labels to URLs; EventURL, when set, is always one of
// the values in Links.
type Event struct {
	ID             int               `json:"id"`
	Title          string            `json:"title"`
	Date           string            `json:"date"`
	Time           string            `json:"time"`
	Price          string            `json:"price,omitempty"`
	AgeRestriction string            `json:"age_restriction,omitempty"`
	Venue          Venue             `json:"venue"`
	Tags           []string          `json:"tags"`
	Organizers     []string          `json:"organizers"`
	Links          map[string]string `json:"links"`
	EventURL       string            `json:"eventUrl,omitempty"`
}
