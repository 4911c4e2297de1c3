package legacyimport

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

// Plan turns legacy data into the events an import appends, in the order games, clients, rentals, history.
// It performs no I/O. newID supplies client and rental IDs.
func Plan(data Data, now time.Time, newID func() uuid.UUID) (core.DomainEvents, Report) {
	p := planner{
		now:       now,
		newID:     newID,
		games:     make(map[string]Game),
		rented:    make(map[string]bool),
		clientIDs: make(map[string]string),
	}

	p.planGames(data.Games)
	p.planClients(data.Clients)
	p.planRentals(data.Rentals)
	p.reportUnavailableWithoutRental(data.Games)
	p.planHistory(data.History)

	p.report.AppendedEvents = len(p.events)

	return p.events, p.report
}

type planner struct {
	now       time.Time
	newID     func() uuid.UUID
	events    core.DomainEvents
	report    Report
	games     map[string]Game
	rented    map[string]bool
	clientIDs map[string]string // display name -> client ID, first registration wins
}

func (p *planner) issue(file string, index int, record string, problem string) {
	p.report.Issues = append(p.report.Issues, Issue{File: file, Index: index, Record: record, Problem: problem})
}

func (p *planner) planGames(games []Game) {
	for i, game := range games {
		name := strings.TrimSpace(game.Name)

		if name == "" {
			p.issue(GamesFile, i, game.Name, problemBlankGameName)
			continue
		}

		if _, exists := p.games[name]; exists {
			p.issue(GamesFile, i, name, problemDuplicateGameName)
			continue
		}

		p.games[name] = game
		p.events = append(p.events, core.BuildItemAddedToCatalog(name, p.now))
		p.report.ItemsImported++
	}
}

func (p *planner) planClients(clients []Client) {
	for i, client := range clients {
		first := strings.TrimSpace(client.FirstName)
		last := strings.TrimSpace(client.LastName)
		phone := strings.TrimSpace(client.Phone)

		if core.IsBlank(first) || core.IsBlank(last) || core.IsBlank(phone) {
			p.issue(ClientsFile, i, core.ClientDisplayName(first, last, phone), problemBlankClientField)
			continue
		}

		clientID := p.newID()
		displayName := core.ClientDisplayName(first, last, phone)

		if _, exists := p.clientIDs[displayName]; !exists {
			p.clientIDs[displayName] = clientID.String()
		}

		p.events = append(p.events, core.BuildClientRegistered(clientID, first, last, phone, p.now))
		p.report.ClientsImported++
	}
}

func (p *planner) planRentals(rentals []Rental) {
	for i, rental := range rentals {
		itemName := strings.TrimSpace(rental.ItemName)
		clientDisplayName := strings.TrimSpace(rental.Client)

		game, known := p.games[itemName]
		switch {
		case !known:
			p.issue(RentalsFile, i, itemName, problemUnknownGame)
			continue
		case p.rented[itemName]:
			p.issue(RentalsFile, i, itemName, problemGameAlreadyRented)
			continue
		case game.IsAvailable():
			p.issue(RentalsFile, i, itemName, problemGameFlaggedAvailable)
			continue
		}

		start, startErr := core.ParseDate(rental.StartDate)
		end, endErr := core.ParseDate(rental.EndDate)
		if startErr != nil || endErr != nil {
			p.issue(RentalsFile, i, itemName, problemInvalidRentalDate)
			continue
		}

		clientID, registered := p.clientIDs[clientDisplayName]
		if !registered {
			p.issue(RentalsFile, i, clientDisplayName, problemUnknownClient)
		}

		dailyRate := 0
		if rental.DailyRate != nil {
			dailyRate = int(*rental.DailyRate)
		}

		opened := core.BuildRentalOpened(
			p.newID(),
			clientID,
			clientDisplayName,
			itemName,
			core.RentalTerms{
				StartDate:  core.FormatDate(start),
				EndDate:    core.FormatDate(end),
				RentalDays: core.RentalDays(start, end),
				DailyRate:  dailyRate,
			},
			p.now,
		)
		opened.Cost = int(rental.Cost)
		opened.Imported = true

		p.rented[itemName] = true
		p.events = append(p.events, opened)
		p.report.RentalsImported++
	}
}

func (p *planner) reportUnavailableWithoutRental(games []Game) {
	reported := make(map[string]bool)

	for i, game := range games {
		name := strings.TrimSpace(game.Name)
		if name == "" || game.IsAvailable() || p.rented[name] || reported[name] {
			continue
		}

		reported[name] = true
		p.issue(GamesFile, i, name, problemUnavailableNoRental)
	}
}

func (p *planner) planHistory(entries []HistoryEntry) {
	for i, entry := range entries {
		var entryType string
		switch strings.TrimSpace(entry.EntryType) {
		case legacyEntryOpen:
			entryType = core.HistoryEntryOpen
		case legacyEntryClose:
			entryType = core.HistoryEntryClose
		default:
			p.issue(HistoryFile, i, entry.EntryType, problemUnknownEntryType)
			continue
		}

		timestamp := strings.TrimSpace(entry.Timestamp)
		occurredAt := p.now

		parsed, err := time.ParseInLocation(core.TimestampLayout, timestamp, time.UTC)
		if err != nil {
			p.issue(HistoryFile, i, entry.Timestamp, problemInvalidTimestamp)
			timestamp = core.FormatTimestamp(p.now)
		} else {
			occurredAt = parsed
		}

		imported := core.BuildHistoryEntryImported(
			timestamp,
			entryType,
			strings.TrimSpace(entry.ItemName),
			strings.TrimSpace(entry.Client),
			int(entry.Cost),
			int(entry.LateFee),
			occurredAt,
		)

		if imported.Total != int(entry.Total) {
			p.issue(HistoryFile, i, imported.ItemName, problemTotalMismatch)
		}

		p.events = append(p.events, imported)
		p.report.HistoryEntriesImported++
	}
}
