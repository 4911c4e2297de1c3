package openrentals

// Rental is the stored record of one open rental.
type Rental struct {
	RentalID          string `json:"rentalID"`
	ClientID          string `json:"clientID"`
	ClientDisplayName string `json:"clientDisplayName"`
	ItemName          string `json:"itemName"`
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate"`
	RentalDays        int    `json:"rentalDays"`
	DailyRate         int    `json:"dailyRate"`
	Cost              int    `json:"cost"`
}

// OpenRentals represents the query result containing all open rentals.
type OpenRentals struct {
	Rentals        []Rental
	Count          int
	SequenceNumber uint
}

// GetSequenceNumber returns the highest event sequence number reflected in the result.
func (r OpenRentals) GetSequenceNumber() uint {
	return r.SequenceNumber
}
