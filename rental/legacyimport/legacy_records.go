package legacyimport

import (
	"bytes"
	"math"
	"strconv"
)

// File names of the original application.
const (
	GamesFile   = "games.json"
	ClientsFile = "clients.json"
	RentalsFile = "rentals.json"
	HistoryFile = "history.json"
)

// Event labels of legacy history entries.
const (
	legacyEntryOpen  = "Wypożyczenie"
	legacyEntryClose = "Zwrot"
)

// Game is a record of games.json.
type Game struct {
	Name      string `json:"Nazwa Gry"`
	Available *bool  `json:"Dostępna"`
}

// IsAvailable treats a missing flag as available.
func (g Game) IsAvailable() bool {
	return g.Available == nil || *g.Available
}

// Client is a record of clients.json.
type Client struct {
	FirstName string `json:"Imię"`
	LastName  string `json:"Nazwisko"`
	Phone     string `json:"Telefon"`
}

// Rental is a record of rentals.json. Client is the display name "First Last (Phone)".
type Rental struct {
	Client    string  `json:"Klient"`
	ItemName  string  `json:"Tytuł Gry"`
	StartDate string  `json:"Od"`
	EndDate   string  `json:"Do"`
	Cost      Number  `json:"Koszt"`
	DailyRate *Number `json:"Cena za dzień"`
}

// HistoryEntry is a record of history.json.
type HistoryEntry struct {
	Timestamp string `json:"Data"`
	EntryType string `json:"Typ zdarzenia"`
	ItemName  string `json:"Tytuł Gry"`
	Client    string `json:"Klient"`
	Cost      Number `json:"Koszt"`
	LateFee   Number `json:"Opłata za zwłokę"`
	Total     Number `json:"Suma"`
}

// Number is a money or count value of the legacy files, given as integer, float or numeric string.
type Number int

func (n *Number) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if raw == "" || raw == "null" {
		*n = 0
		return nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}

	*n = Number(math.Round(value))

	return nil
}

// Data is the content of the four legacy files.
type Data struct {
	Games   []Game
	Clients []Client
	Rentals []Rental
	History []HistoryEntry
}
