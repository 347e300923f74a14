// Package sheets adapts the Google Sheets API to the catalog's tabular
// source contract.
package sheets

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

var (
	errMissingSpreadsheetID   = errors.New("sheets: spreadsheet id required")
	errMissingCredentialsFile = errors.New("sheets: credentials file required")
)

const defaultReadRange = "A:Z"

// SourceConfig locates the spreadsheet and the service-account credentials
// used to read it.
type SourceConfig struct {
	SpreadsheetID   string
	ReadRange       string
	CredentialsFile string
}

// Source reads a spreadsheet range as a grid of text cells.
type Source struct {
	service       *sheets.Service
	spreadsheetID string
	readRange     string
}

// NewSource builds a read-only Sheets client from a service-account
// credentials file.
func NewSource(ctx context.Context, cfg SourceConfig) (*Source, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errMissingSpreadsheetID
	}
	if cfg.CredentialsFile == "" {
		return nil, errMissingCredentialsFile
	}
	readRange := cfg.ReadRange
	if readRange == "" {
		readRange = defaultReadRange
	}

	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets: building client: %w", err)
	}

	return &Source{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		readRange:     readRange,
	}, nil
}

// ReadGrid fetches the configured range. Cell values arrive untyped from
// the API and are rendered to strings; a missing trailing cell stays
// missing rather than becoming an empty column.
func (s *Source) ReadGrid(ctx context.Context) ([][]string, error) {
	response, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: reading range %s: %w", s.readRange, err)
	}

	grid := make([][]string, 0, len(response.Values))
	for _, row := range response.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			if cell == nil {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, fmt.Sprint(cell))
		}
		grid = append(grid, cells)
	}
	return grid, nil
}
