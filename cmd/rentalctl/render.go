package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/tabletop-rentals/rental-ledger-go/rental/features/query/catalogitems"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/query/openrentals"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/query/registeredclients"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/query/rentalhistory"
	"github.com/tabletop-rentals/rental-ledger-go/rental/legacyimport"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeResult(w io.Writer, result shell.HandlerResult) error {
	if result.Idempotent {
		_, err := fmt.Fprintln(w, "nothing to change")
		return err
	}

	_, err := fmt.Fprintf(w, "done, %d event(s) appended\n", result.AppendedEvents)

	return err
}

func writeItems(w io.Writer, items catalogitems.CatalogItems) error {
	t := newTable(w)
	_, _ = fmt.Fprintln(t, "NAME\tSTATUS")
	for _, item := range items.Items {
		_, _ = fmt.Fprintf(t, "%s\t%s\n", item.Name, item.Status)
	}

	return t.Flush()
}

func writeClients(w io.Writer, clients registeredclients.RegisteredClients) error {
	t := newTable(w)
	_, _ = fmt.Fprintln(t, "ID\tNAME\tPHONE")
	for _, client := range clients.Clients {
		_, _ = fmt.Fprintf(t, "%s\t%s\t%s\n", client.ClientID, client.DisplayName(), client.Phone)
	}

	return t.Flush()
}

func writeRentals(w io.Writer, rentals []openrentals.Rental) error {
	t := newTable(w)
	_, _ = fmt.Fprintln(t, "RENTAL\tITEM\tCLIENT\tFROM\tTO\tDAYS\tRATE\tCOST")
	for _, r := range rentals {
		_, _ = fmt.Fprintf(t, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			r.RentalID, r.ItemName, r.ClientDisplayName, r.StartDate, r.EndDate, r.RentalDays, r.DailyRate, r.Cost)
	}

	return t.Flush()
}

func writeHistory(w io.Writer, history rentalhistory.RentalHistory) error {
	t := newTable(w)
	_, _ = fmt.Fprintln(t, "TIME\tTYPE\tITEM\tCLIENT\tCOST\tLATE FEE\tTOTAL")
	for _, e := range history.Entries {
		_, _ = fmt.Fprintf(t, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			e.Timestamp, e.EntryType, e.ItemName, e.ClientDisplayName, e.BaseCost, e.LateFee, e.Total)
	}

	return t.Flush()
}

func writeImportReport(w io.Writer, report legacyimport.Report) error {
	_, err := fmt.Fprintf(w, "imported %d items, %d clients, %d rentals, %d history entries (%d events)\n",
		report.ItemsImported, report.ClientsImported, report.RentalsImported,
		report.HistoryEntriesImported, report.AppendedEvents)
	if err != nil {
		return err
	}

	for _, issue := range report.Issues {
		if _, err := fmt.Fprintf(w, "  %s\n", issue); err != nil {
			return err
		}
	}

	return nil
}
