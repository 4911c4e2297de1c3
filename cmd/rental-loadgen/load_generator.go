package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tabletop-rentals/rental-ledger-go/rental/features/query/catalogitems"
	"github.com/tabletop-rentals/rental-ledger-go/rental/ledger"
)

const (
	logMsgScenarioFailed = "scenario failed"
	logMsgStats          = "load generator stats"

	logAttrScenario = "scenario"
	logAttrError    = "error"
	logAttrRequests = "requests"
	logAttrRejected = "rejected"
	logAttrFailed   = "failed"
	logAttrRate     = "requests_per_second"
)

const (
	scenarioCatalog = iota
	scenarioRental
)

const statsInterval = 10 * time.Second

const rentalDateLayout = "2006-01-02"

// businessErrors are expected outcomes of random operations, they count as rejected and not as failed.
var businessErrors = []error{
	ledger.ErrDuplicateName,
	ledger.ErrNotFound,
	ledger.ErrMissingField,
	ledger.ErrItemUnavailable,
	ledger.ErrItemInUse,
}

// LoadGenerator runs random catalog and rental scenarios against a Ledger at a fixed rate.
type LoadGenerator struct {
	ledger *ledger.Ledger
	config Config
	logger *slog.Logger

	wg        sync.WaitGroup
	requests  atomic.Int64
	rejected  atomic.Int64
	failed    atomic.Int64
	itemSeq   atomic.Int64
	startTime time.Time
}

// NewLoadGenerator creates a LoadGenerator for l.
func NewLoadGenerator(l *ledger.Ledger, config Config, logger *slog.Logger) *LoadGenerator {
	return &LoadGenerator{
		ledger: l,
		config: config,
		logger: logger,
	}
}

// Seed adds the initial items and clients.
func (lg *LoadGenerator) Seed(ctx context.Context) error {
	for range lg.config.InitialItems {
		if _, err := lg.ledger.AddItem(ctx, lg.nextItemName()); err != nil && !isBusinessError(err) {
			return fmt.Errorf("seeding items: %w", err)
		}
	}

	for i := range lg.config.InitialClients {
		_, _, err := lg.ledger.RegisterClient(ctx, "Client", fmt.Sprintf("No%d", i+1), fmt.Sprintf("555-%04d", i+1))
		if err != nil {
			return fmt.Errorf("seeding clients: %w", err)
		}
	}

	return nil
}

// Run starts one scenario per tick until ctx is done, then waits for the running scenarios.
func (lg *LoadGenerator) Run(ctx context.Context) {
	lg.startTime = time.Now()

	ticker := time.NewTicker(time.Second / time.Duration(lg.config.Rate))
	defer ticker.Stop()

	statsTicker := time.NewTicker(statsInterval)
	defer statsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			lg.wg.Wait()
			lg.logStats()
			return

		case <-statsTicker.C:
			lg.logStats()

		case <-ticker.C:
			lg.wg.Add(1)
			go func() {
				defer lg.wg.Done()
				lg.executeScenario(ctx, lg.pickScenario(rand.IntN(100)))
			}()
		}
	}
}

// Stats returns the number of executed, rejected and failed scenarios.
func (lg *LoadGenerator) Stats() (requests, rejected, failed int64) {
	return lg.requests.Load(), lg.rejected.Load(), lg.failed.Load()
}

func (lg *LoadGenerator) pickScenario(roll int) int {
	if roll < lg.config.ScenarioWeights[scenarioCatalog] {
		return scenarioCatalog
	}

	return scenarioRental
}

func (lg *LoadGenerator) executeScenario(ctx context.Context, scenario int) {
	var (
		name string
		err  error
	)

	switch scenario {
	case scenarioCatalog:
		name, err = "catalog", lg.catalogScenario(ctx)
	default:
		name, err = "rental", lg.rentalScenario(ctx)
	}

	lg.requests.Add(1)

	switch {
	case err == nil:
	case isBusinessError(err):
		lg.rejected.Add(1)
	case errors.Is(err, context.Canceled):
	default:
		lg.failed.Add(1)
		lg.logger.Warn(logMsgScenarioFailed, logAttrScenario, name, logAttrError, err.Error())
	}
}

// catalogScenario adds a new item most of the time, otherwise it renames or removes an available one.
func (lg *LoadGenerator) catalogScenario(ctx context.Context) error {
	roll := rand.IntN(10)
	if roll < 6 {
		_, err := lg.ledger.AddItem(ctx, lg.nextItemName())
		return err
	}

	available, err := lg.availableItems(ctx)
	if err != nil || len(available) == 0 {
		return err
	}
	item := available[rand.IntN(len(available))]

	if roll < 8 {
		_, err := lg.ledger.RenameItem(ctx, item, lg.nextItemName())
		return err
	}

	pending, err := lg.ledger.RequestItemRemoval(ctx, item)
	if err != nil {
		return err
	}
	_, err = lg.ledger.Confirm(ctx, pending.Token)

	return err
}

// rentalScenario closes a returnable rental or opens a new one for a random client and item.
func (lg *LoadGenerator) rentalScenario(ctx context.Context) error {
	returnable, err := lg.ledger.ReturnableRentals(ctx)
	if err != nil {
		return err
	}

	if len(returnable) > 0 && rand.IntN(2) == 0 {
		rental := returnable[rand.IntN(len(returnable))]
		rentalID, err := uuid.Parse(rental.RentalID)
		if err != nil {
			return err
		}
		_, err = lg.ledger.CloseRentalWithLateDays(ctx, rentalID, rand.IntN(4))

		return err
	}

	clients, err := lg.ledger.ListClients(ctx)
	if err != nil || len(clients.Clients) == 0 {
		return err
	}
	available, err := lg.availableItems(ctx)
	if err != nil || len(available) == 0 {
		return err
	}

	clientID, err := uuid.Parse(clients.Clients[rand.IntN(len(clients.Clients))].ClientID)
	if err != nil {
		return err
	}

	start := time.Now()
	_, _, err = lg.ledger.OpenRental(ctx, ledger.OpenRentalRequest{
		ClientID:  clientID,
		ItemName:  available[rand.IntN(len(available))],
		StartDate: start.Format(rentalDateLayout),
		EndDate:   start.AddDate(0, 0, rand.IntN(7)).Format(rentalDateLayout),
		DailyRate: lg.config.DailyRate,
	})

	return err
}

func (lg *LoadGenerator) availableItems(ctx context.Context) ([]string, error) {
	catalog, err := lg.ledger.ListItems(ctx, "")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(catalog.Items))
	for _, item := range catalog.Items {
		if item.Status == catalogitems.StatusAvailable {
			names = append(names, item.Name)
		}
	}

	return names, nil
}

func (lg *LoadGenerator) nextItemName() string {
	return fmt.Sprintf("Game %06d", lg.itemSeq.Add(1))
}

func (lg *LoadGenerator) logStats() {
	requests, rejected, failed := lg.Stats()

	elapsed := time.Since(lg.startTime).Seconds()
	rate := 0.0
	if elapsed > 0 {
		rate = float64(requests) / elapsed
	}

	lg.logger.Info(logMsgStats,
		logAttrRequests, requests,
		logAttrRejected, rejected,
		logAttrFailed, failed,
		logAttrRate, fmt.Sprintf("%.1f", rate),
	)
}

func isBusinessError(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
