package airport

import "strings"

// Airport is one entry of the static reference list used to help travelers
// pick origin and destination codes. The workflow core never reads this.
type Airport struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

var airports = []Airport{
	{Code: "CGK", Name: "Soekarno-Hatta International", City: "Jakarta", Country: "Indonesia"},
	{Code: "DPS", Name: "Ngurah Rai International", City: "Bali", Country: "Indonesia"},
	{Code: "SUB", Name: "Juanda International", City: "Surabaya", Country: "Indonesia"},
	{Code: "JOG", Name: "Adisucipto International", City: "Yogyakarta", Country: "Indonesia"},
	{Code: "SIN", Name: "Changi Airport", City: "Singapore", Country: "Singapore"},
	{Code: "KUL", Name: "Kuala Lumpur International", City: "Kuala Lumpur", Country: "Malaysia"},
	{Code: "BKK", Name: "Suvarnabhumi Airport", City: "Bangkok", Country: "Thailand"},
	{Code: "HKG", Name: "Hong Kong International", City: "Hong Kong", Country: "Hong Kong"},
	{Code: "NRT", Name: "Narita International", City: "Tokyo", Country: "Japan"},
	{Code: "ICN", Name: "Incheon International", City: "Seoul", Country: "South Korea"},
	{Code: "SYD", Name: "Sydney Airport", City: "Sydney", Country: "Australia"},
	{Code: "MEL", Name: "Melbourne Airport", City: "Melbourne", Country: "Australia"},
}

// All returns the full reference list.
func All() []Airport {
	out := make([]Airport, len(airports))
	copy(out, airports)
	return out
}

// Search filters the reference list by a case-insensitive substring match
// against code, city, name and country. Queries shorter than two
// characters return the full list, matching the picker's behavior of
// showing popular airports until the traveler has typed something useful.
func Search(query string) []Airport {
	query = strings.ToLower(strings.TrimSpace(query))
	if len(query) < 2 {
		return All()
	}

	matched := make([]Airport, 0, len(airports))
	for _, a := range airports {
		if strings.Contains(strings.ToLower(a.Code), query) ||
			strings.Contains(strings.ToLower(a.City), query) ||
			strings.Contains(strings.ToLower(a.Name), query) ||
			strings.Contains(strings.ToLower(a.Country), query) {
			matched = append(matched, a)
		}
	}
	return matched
}
