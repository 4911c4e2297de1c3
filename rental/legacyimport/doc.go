// Package legacyimport takes over the data files of the original rental application.
//
// The original kept four JSON files with Polish field names: games.json, clients.json, rentals.json and
// history.json. Import turns their content into one batch of domain events and appends it atomically,
// but only into an empty event log. Records that contradict each other are skipped or repaired and every
// such case is listed in the Report.
package legacyimport
