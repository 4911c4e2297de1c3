package ledger

import (
	"context"
	"io/fs"

	"github.com/tabletop-rentals/rental-ledger-go/rental/legacyimport"
)

// ImportLegacy takes over the data files of the original application, see legacyimport.
// It only works on an empty event log.
func (l *Ledger) ImportLegacy(ctx context.Context, fsys fs.FS) (legacyimport.Report, error) {
	report, err := l.importer.Import(ctx, fsys)

	return report, storageError(err)
}
