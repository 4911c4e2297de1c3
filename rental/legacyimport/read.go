package legacyimport

import (
	"errors"
	"io/fs"

	jsoniter "github.com/json-iterator/go"
)

// Read loads the legacy files from fsys.
// A missing file counts as empty, an unparsable file counts as empty and is reported.
func Read(fsys fs.FS) (Data, []Issue) {
	var (
		data   Data
		issues []Issue
	)

	issues = appendIssue(issues, readFile(fsys, GamesFile, &data.Games))
	issues = appendIssue(issues, readFile(fsys, ClientsFile, &data.Clients))
	issues = appendIssue(issues, readFile(fsys, RentalsFile, &data.Rentals))
	issues = appendIssue(issues, readFile(fsys, HistoryFile, &data.History))

	return data, issues
}

func readFile[T any](fsys fs.FS, name string, target *[]T) *Issue {
	raw, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return &Issue{File: name, Index: -1, Problem: problemUnreadableFile + ": " + err.Error()}
	}

	var records []T
	if unmarshalErr := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &records); unmarshalErr != nil {
		return &Issue{File: name, Index: -1, Problem: problemUnparsableFile + ": " + unmarshalErr.Error()}
	}

	*target = records

	return nil
}

func appendIssue(issues []Issue, issue *Issue) []Issue {
	if issue == nil {
		return issues
	}

	return append(issues, *issue)
}
