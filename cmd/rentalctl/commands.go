package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/tabletop-rentals/rental-ledger-go/rental/confirm"
	"github.com/tabletop-rentals/rental-ledger-go/rental/ledger"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell"
)

var (
	errUsage          = errors.New("usage")
	errUnknownCommand = errors.New("unknown command")
	errClientNotFound = errors.New("no client with this id or name")
	errRentalNotFound = errors.New("no returnable rental with this id or item name")
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

func commandList() []command {
	return []command{
		{"items", "list catalog items [-filter TEXT]", runItems},
		{"add-item", "add-item NAME", runAddItem},
		{"rename-item", "rename-item NAME NEW_NAME", runRenameItem},
		{"remove-item", "remove-item NAME", runRemoveItem},
		{"clients", "list registered clients", runClients},
		{"register-client", "register-client FIRST LAST PHONE", runRegisterClient},
		{"update-client", "update-client CLIENT_ID FIRST LAST PHONE", runUpdateClient},
		{"update-client-named", "update-client-named \"FIRST LAST\" FIRST LAST PHONE", runUpdateClientNamed},
		{"remove-client", "remove-client CLIENT_ID", runRemoveClient},
		{"remove-clients-named", "remove-clients-named \"FIRST LAST\"", runRemoveClientsNamed},
		{"rentals", "list open rentals [-returnable]", runRentals},
		{"open-rental", "open-rental -client ID|NAME -item NAME -from DATE -to DATE [-rate N] [-days N]", runOpenRental},
		{"close-rental", "close-rental -rental ID|ITEM (-late-days N | -returned DATE)", runCloseRental},
		{"history", "list the rental history", runHistory},
		{"clear-history", "remove all history entries", runClearHistory},
		{"import-legacy", "import-legacy DIR", runImportLegacy},
		{"session", "read commands from stdin until exit", runSession},
	}
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	for _, c := range commandList() {
		if c.name == args[0] {
			return c.run(ctx, a, args[1:])
		}
	}

	return fmt.Errorf("%w: %w: %s", errUsage, errUnknownCommand, args[0])
}

// newFlagSet returns the flag set of a subcommand, it reports parse errors to stderr.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	return fs
}

func exactArgs(name string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: %s expects %d arguments, got %d", errUsage, name, n, len(args))
	}

	return nil
}

func runItems(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("items")
	filter := fs.String("filter", "", "only items whose name contains TEXT")
	if err := fs.Parse(args); err != nil {
		return errors.Join(errUsage, err)
	}

	items, err := a.ledger.ListItems(ctx, *filter)
	if err != nil {
		return err
	}

	return writeItems(a.stdout, items)
}

func runAddItem(ctx context.Context, a *app, args []string) error {
	if err := exactArgs("add-item", args, 1); err != nil {
		return err
	}

	result, err := a.ledger.AddItem(ctx, args[0])
	if err != nil {
		return err
	}

	return writeResult(a.stdout, result)
}

func runRenameItem(ctx context.Context, a *app, args []string) error {
	if err := exactArgs("rename-item", args, 2); err != nil {
		return err
	}

	result, err := a.ledger.RenameItem(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	return writeResult(a.stdout, result)
}

func runRemoveItem(ctx context.Context, a *app, args []string) error {
	if err := exactArgs("remove-item", args, 1); err != nil {
		return err
	}

	pending, err := a.ledger.RequestItemRemoval(ctx, args[0])
	if err != nil {
		return err
	}

	return a.confirmPending(ctx, pending)
}

func runClients(ctx context.Context, a *app, args []string) error {
	if err := exactArgs("clients", args, 0); err != nil {
		return err
	}

	clients, err := a.ledger.ListClients(ctx)
	if err != nil {
		return err
	}

	return writeClients(a.stdout, clients)
}

func runRegisterClient(ctx context.Context, a *app, args []string) error {
	if err := exactArgs("register-client", args, 3); err != nil {
		return err
	}

	clientID, _, err := a.ledger.RegisterClient(ctx, args[0], args[1], args[2])
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(a.stdout, "registered client %s\n", clientID)

	return err
}

func runUpdateClient(ctx context.Context, a *app, args []string) error {
	if err := exactArgs("update-client", args, 4); err != nil {
		return err
	}

	clientID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("%w: client id: %w", errUsage, err)
	}

	result, err := a.ledger.UpdateClient(ctx, clientID, args[1], args[2], args[3])
	if err != nil {
		return err
	}

	return writeResult(a.stdout, result)
}

func runUpdateClientNamed(ctx context.Context, a *app, args []string) error {
	if err := exactArgs("update-client-named", args, 4); err != nil {
		return err
	}

	result, err := a.ledger.UpdateFirstClientNamed(ctx, args[0], args[1], args[2], args[3])
	if err != nil {
		return err
	}

	return writeResult(a.stdout, result)
}

func runRemoveClient(ctx context.Context, a *app, args []string) error {
	if err := exactArgs("remove-client", args, 1); err != nil {
		return err
	}

	clientID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("%w: client id: %w", errUsage, err)
	}

	pending, err := a.ledger.RequestClientRemoval(ctx, clientID)
	if err != nil {
		return err
	}

	return a.confirmPending(ctx, pending)
}

func runRemoveClientsNamed(ctx context.Context, a *app, args []string) error {
	if err := exactArgs("remove-clients-named", args, 1); err != nil {
		return err
	}

	pending, err := a.ledger.RequestClientsNamedRemoval(ctx, args[0])
	if err != nil {
		return err
	}

	return a.confirmPending(ctx, pending)
}

func runRentals(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("rentals")
	returnable := fs.Bool("returnable", false, "only rentals whose item is flagged as rented")
	if err := fs.Parse(args); err != nil {
		return errors.Join(errUsage, err)
	}

	if *returnable {
		rentals, err := a.ledger.ReturnableRentals(ctx)
		if err != nil {
			return err
		}

		return writeRentals(a.stdout, rentals)
	}

	rentals, err := a.ledger.OpenRentals(ctx)
	if err != nil {
		return err
	}

	return writeRentals(a.stdout, rentals.Rentals)
}

func runOpenRental(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("open-rental")
	client := fs.String("client", "", "client ID or display name \"First Last\"")
	item := fs.String("item", "", "item name")
	from := fs.String("from", "", "start date YYYY-MM-DD")
	to := fs.String("to", "", "end date YYYY-MM-DD")
	rate := fs.Int("rate", a.cfg.DefaultDailyRate, "daily rate")
	days := fs.Int("days", 0, "rental days instead of the days between the dates")
	if err := fs.Parse(args); err != nil {
		return errors.Join(errUsage, err)
	}

	clientID, err := a.resolveClient(ctx, *client)
	if err != nil {
		return err
	}

	request := ledger.OpenRentalRequest{
		ClientID:  clientID,
		ItemName:  *item,
		StartDate: *from,
		EndDate:   *to,
		DailyRate: *rate,
	}
	if isFlagSet(fs, "days") {
		request.RentalDaysOverride = days
	}

	rentalID, _, err := a.ledger.OpenRental(ctx, request)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(a.stdout, "opened rental %s\n", rentalID)

	return err
}

func runCloseRental(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("close-rental")
	rental := fs.String("rental", "", "rental ID or item name")
	lateDays := fs.Int("late-days", 0, "days the item came back late")
	returned := fs.String("returned", "", "return date YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return errors.Join(errUsage, err)
	}

	if isFlagSet(fs, "late-days") == isFlagSet(fs, "returned") {
		return fmt.Errorf("%w: close-rental needs exactly one of -late-days and -returned", errUsage)
	}

	rentalID, err := a.resolveRental(ctx, *rental)
	if err != nil {
		return err
	}

	var result shell.HandlerResult
	if isFlagSet(fs, "returned") {
		result, err = a.ledger.CloseRentalWithReturnDate(ctx, rentalID, *returned)
	} else {
		result, err = a.ledger.CloseRentalWithLateDays(ctx, rentalID, *lateDays)
	}
	if err != nil {
		return err
	}

	return writeResult(a.stdout, result)
}

func runHistory(ctx context.Context, a *app, args []string) error {
	if err := exactArgs("history", args, 0); err != nil {
		return err
	}

	history, err := a.ledger.History(ctx)
	if err != nil {
		return err
	}

	return writeHistory(a.stdout, history)
}

func runClearHistory(ctx context.Context, a *app, args []string) error {
	if err := exactArgs("clear-history", args, 0); err != nil {
		return err
	}

	pending, err := a.ledger.RequestHistoryClear(ctx)
	if err != nil {
		return err
	}

	return a.confirmPending(ctx, pending)
}

func runImportLegacy(ctx context.Context, a *app, args []string) error {
	if err := exactArgs("import-legacy", args, 1); err != nil {
		return err
	}

	report, err := a.ledger.ImportLegacy(ctx, os.DirFS(args[0]))
	if err != nil {
		return err
	}

	return writeImportReport(a.stdout, report)
}

// confirmPending asks on stdin before it runs the pending operation, -yes skips the question.
func (a *app) confirmPending(ctx context.Context, pending confirm.Pending) error {
	if !a.assumeYes && !a.askYesNo(fmt.Sprintf("%s %q: proceed? [y/N] ", pending.Kind, pending.Subject)) {
		a.ledger.CancelConfirmation(pending.Token)
		_, err := fmt.Fprintln(a.stdout, "cancelled")

		return err
	}

	result, err := a.ledger.Confirm(ctx, pending.Token)
	if err != nil {
		return err
	}

	return writeResult(a.stdout, result)
}

func (a *app) askYesNo(question string) bool {
	if _, err := fmt.Fprint(a.stdout, question); err != nil {
		return false
	}

	answer, err := a.stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// resolveClient accepts a client ID or the display name of a registered client.
func (a *app) resolveClient(ctx context.Context, value string) (uuid.UUID, error) {
	if clientID, err := uuid.Parse(value); err == nil {
		return clientID, nil
	}

	clients, err := a.ledger.ListClients(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	for _, client := range clients.Clients {
		if client.DisplayKey() == strings.TrimSpace(value) {
			return uuid.Parse(client.ClientID)
		}
	}

	return uuid.Nil, fmt.Errorf("%w: %q", errClientNotFound, value)
}

// resolveRental accepts a rental ID or the name of an item that is currently rented.
func (a *app) resolveRental(ctx context.Context, value string) (uuid.UUID, error) {
	if rentalID, err := uuid.Parse(value); err == nil {
		return rentalID, nil
	}

	rentals, err := a.ledger.ReturnableRentals(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	for _, rental := range rentals {
		if rental.ItemName == value {
			return uuid.Parse(rental.RentalID)
		}
	}

	return uuid.Nil, fmt.Errorf("%w: %q", errRentalNotFound, value)
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})

	return found
}
