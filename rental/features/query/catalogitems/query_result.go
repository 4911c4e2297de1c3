package catalogitems

const (
	StatusAvailable = "Available"
	StatusRented    = "Rented"
)

// Item is the stored record of one catalog item.
type Item struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	RentalID  string `json:"rentalID,omitempty"`
}

// ItemListing is one item as shown in the catalog listing.
type ItemListing struct {
	Name   string
	Status string
}

// CatalogItems represents the query result containing the listed catalog items.
type CatalogItems struct {
	Items          []ItemListing
	Count          int
	SequenceNumber uint
}

// GetSequenceNumber returns the highest event sequence number reflected in the result.
func (r CatalogItems) GetSequenceNumber() uint {
	return r.SequenceNumber
}
