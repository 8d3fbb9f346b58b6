package models

// NotAvailable is stored in a Listing field when the ad card carries no value
// for it.
const NotAvailable = "N/A"

// Listing represents a single classified ad taken from an OLX results page.
// Field order is the column order of every output format.
type Listing struct {
	Title    string `json:"title" csv:"title"`
	Price    string `json:"price" csv:"price"`
	Location string `json:"location" csv:"location"`
	URL      string `json:"url" csv:"url"`
	ImageURL string `json:"image_url" csv:"image_url"`
}

// Fields returns the field names in output order.
func Fields() []string {
	return []string{"title", "price", "location", "url", "image_url"}
}

// Values returns the listing values in the same order as Fields.
func (l Listing) Values() []string {
	return []string{l.Title, l.Price, l.Location, l.URL, l.ImageURL}
}
