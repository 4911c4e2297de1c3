package rentalhistory

// Entry is one stored history entry. Timestamp has the form "2006-01-02 15:04:05".
type Entry struct {
	Timestamp         string `json:"timestamp"`
	EntryType         string `json:"entryType"`
	ItemName          string `json:"itemName"`
	ClientDisplayName string `json:"clientDisplayName"`
	BaseCost          int    `json:"baseCost"`
	LateFee           int    `json:"lateFee"`
	Total             int    `json:"total"`
}

// RentalHistory represents the query result containing the history entries in append order.
type RentalHistory struct {
	Entries        []Entry
	Count          int
	SequenceNumber uint
}

// GetSequenceNumber returns the highest event sequence number reflected in the result.
func (r RentalHistory) GetSequenceNumber() uint {
	return r.SequenceNumber
}
