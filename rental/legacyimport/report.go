package legacyimport

import "fmt"

const (
	problemUnreadableFile       = "file could not be read, treated as empty"
	problemUnparsableFile       = "file is not valid JSON, treated as empty"
	problemBlankGameName        = "game without name skipped"
	problemDuplicateGameName    = "duplicate game name skipped"
	problemBlankClientField     = "client with blank name or phone skipped"
	problemUnknownGame          = "rental for a game that is not in the catalog skipped"
	problemGameAlreadyRented    = "second rental for the same game skipped"
	problemGameFlaggedAvailable = "rental for a game flagged available skipped"
	problemInvalidRentalDate    = "rental with invalid dates skipped"
	problemUnknownClient        = "rental for an unknown client imported without client ID"
	problemUnavailableNoRental  = "game flagged unavailable without a rental imported as available"
	problemUnknownEntryType     = "history entry with unknown event type skipped"
	problemInvalidTimestamp     = "history entry with invalid timestamp imported with import time"
	problemTotalMismatch        = "history entry total repaired to cost plus late fee"
)

// Issue describes one skipped or repaired legacy record. Index is the position in the file, -1 for the whole file.
type Issue struct {
	File    string
	Index   int
	Record  string
	Problem string
}

func (i Issue) String() string {
	if i.Index < 0 {
		return fmt.Sprintf("%s: %s", i.File, i.Problem)
	}

	return fmt.Sprintf("%s[%d] %q: %s", i.File, i.Index, i.Record, i.Problem)
}

// Report summarizes an import.
type Report struct {
	ItemsImported          int
	ClientsImported        int
	RentalsImported        int
	HistoryEntriesImported int
	AppendedEvents         int
	Issues                 []Issue
}
