package events

// Event is the unit all admin operations are scoped to: a wedding, a
// gathering, a party. Mirrors the core API representation.
type Event struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	MediaURLs   []string `json:"mediaUrls,omitempty"`
}
