// Package sheets is the row-source boundary: it supplies the ordered raw
// rows of a named tab, either from a Google Sheets spreadsheet shared as
// "anyone with the link can view" (via the public CSV export) or from a
// local workbook file. Both sources strip the tab's header row, so callers
// always receive data rows only.
package sheets

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"

	alloerrors "contact-allocator/errors"
	"contact-allocator/workbook"
)

// RowSource supplies the raw data rows of a named tab.
type RowSource interface {
	FetchTab(tab string) ([][]string, error)
}

// Open picks a source for the input location: an existing local file is
// opened as a workbook, anything else must be a Google Sheets URL.
func Open(location string, client *http.Client) (RowSource, error) {
	if _, err := os.Stat(location); err == nil {
		return NewFileSource(location)
	}
	return NewHTTPSource(location, client)
}

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// HTTPSource fetches tabs through the Google Sheets CSV export endpoint.
type HTTPSource struct {
	// BaseURL exists so tests can point the source at a local server.
	BaseURL string

	client        *http.Client
	spreadsheetID string
}

// NewHTTPSource extracts the spreadsheet ID from a Google Sheets URL.
// A nil client falls back to http.DefaultClient.
func NewHTTPSource(sheetURL string, client *http.Client) (*HTTPSource, error) {
	m := spreadsheetIDPattern.FindStringSubmatch(sheetURL)
	if m == nil {
		return nil, fmt.Errorf("%w: %s", alloerrors.ErrBadSheetURL, sheetURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{
		BaseURL:       "https://docs.google.com",
		client:        client,
		spreadsheetID: m[1],
	}, nil
}

// FetchTab downloads one tab as CSV and returns its data rows.
func (s *HTTPSource) FetchTab(tab string) ([][]string, error) {
	exportURL := fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=%s",
		s.BaseURL, s.spreadsheetID, url.QueryEscape(tab))

	resp, err := s.client.Get(exportURL)
	if err != nil {
		return nil, &alloerrors.SheetError{Tab: tab, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &alloerrors.SheetError{
			Tab: tab,
			Err: fmt.Errorf("%w: HTTP %d", alloerrors.ErrFetchFailed, resp.StatusCode),
		}
	}

	reader := csv.NewReader(resp.Body)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &alloerrors.SheetError{Tab: tab, Err: err}
	}
	return stripHeader(rows), nil
}

// FileSource serves tabs from a local workbook, so an allocator output (or
// any xlsx with the right tabs) can be replayed as input.
type FileSource struct {
	tabs map[string][][]string
}

// NewFileSource loads every sheet of the workbook at path.
func NewFileSource(path string) (*FileSource, error) {
	sheets, err := workbook.ReadSheets(path)
	if err != nil {
		return nil, err
	}
	tabs := make(map[string][][]string, len(sheets))
	for _, sheet := range sheets {
		tabs[sheet.Name] = sheet.Rows
	}
	return &FileSource{tabs: tabs}, nil
}

// FetchTab returns the data rows of a sheet by name.
func (s *FileSource) FetchTab(tab string) ([][]string, error) {
	rows, ok := s.tabs[tab]
	if !ok {
		return nil, &alloerrors.SheetError{Tab: tab, Err: alloerrors.ErrTabNotFound}
	}
	return stripHeader(rows), nil
}

func stripHeader(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	return rows[1:]
}
