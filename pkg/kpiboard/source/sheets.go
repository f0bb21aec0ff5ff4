package source

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"k8s.io/klog/v2"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/parser"
)

// NewSheetsService authenticates with a service account key file and returns
// a Sheets API client. Extra options are passed to sheets.NewService.
func NewSheetsService(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*sheets.Service, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	config, err := google.JWTConfigFromJSON(b, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account file: %w", err)
	}
	opts = append([]option.ClientOption{option.WithHTTPClient(config.Client(ctx))}, opts...)
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return srv, nil
}

// Sheets reads and appends records directly in a spreadsheet through the
// Sheets API.
type Sheets struct {
	Service       *sheets.Service
	SpreadsheetID string
	// Range is the A1 range holding the record sheet, header row included.
	Range string
	// Clock is used for LastUpdated when the sheet holds no records.
	Clock func() time.Time
}

// Name implements Source.
func (s *Sheets) Name() string { return "sheets" }

func (s *Sheets) readTable(ctx context.Context) (models.Table, error) {
	resp, err := s.Service.Spreadsheets.Values.Get(s.SpreadsheetID, s.Range).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return models.Table{}, fmt.Errorf("read range %s: %w", s.Range, err)
	}
	if len(resp.Values) == 0 {
		return models.Table{}, nil
	}

	headers := make([]string, len(resp.Values[0]))
	for i, h := range resp.Values[0] {
		headers[i] = strings.TrimSpace(fmt.Sprint(h))
	}
	return models.Table{Headers: headers, Rows: resp.Values[1:]}, nil
}

// Fetch implements Source.
func (s *Sheets) Fetch(ctx context.Context) (*models.DashboardData, error) {
	table, err := s.readTable(ctx)
	if err != nil {
		return nil, err
	}
	if len(table.Headers) == 0 {
		return nil, fmt.Errorf("%w: range %s is empty", ErrInvalidPayload, s.Range)
	}
	return buildTable(ctx, s.Name(), table, clockOrNow(s.Clock)), nil
}

// Submit implements Writer. A record for a date, sector and indicator that
// already has a row is rejected with a duplicate-entry WriteError.
func (s *Sheets) Submit(ctx context.Context, entry models.FormEntry) error {
	log := klog.FromContext(ctx)

	table, err := s.readTable(ctx)
	if err != nil {
		return err
	}
	headers := table.Headers
	if len(headers) == 0 {
		headers = parser.RecordHeaders
	}
	if existing, ok := findRecord(table, entry); ok {
		return &WriteError{Message: fmt.Sprintf("%s a value for %s / %s on %s already exists (row %d)",
			DuplicateEntryMarker, entry.SectorID, entry.IndicatorID, entry.Date, existing+2)}
	}

	id := uuid.NewString()
	row := entryRow(headers, id, entry)
	_, err = s.Service.Spreadsheets.Values.Append(s.SpreadsheetID, s.Range, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	log.V(1).Info("appended record", "id", id, "sector", entry.SectorID, "indicator", entry.IndicatorID, "date", entry.Date)
	return nil
}

// findRecord returns the data row index of the record matching entry.
func findRecord(table models.Table, entry models.FormEntry) (int, bool) {
	for _, row := range table.RawRows() {
		raw := row.Get(parser.ColDate)
		if raw == nil {
			continue
		}
		date, ok := parser.ParseRecordDate(raw)
		if !ok || !date.Equal(entry.Date) {
			continue
		}
		if cellText(row.Get(parser.ColSectorID)) == entry.SectorID &&
			cellText(row.Get(parser.ColIndicatorID)) == entry.IndicatorID {
			return row.Index, true
		}
	}
	return 0, false
}

func cellText(v interface{}) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// entryRow lays entry out under headers. Unknown headers get empty cells.
func entryRow(headers []string, id string, entry models.FormEntry) []interface{} {
	var value interface{} = entry.Value.String()
	if n, ok := entry.Value.Number(); ok {
		value = n
	}
	cells := map[string]interface{}{
		parser.ColRecordID:          id,
		parser.ColDate:              entry.Date.String(),
		parser.ColResponsibleEmail:  entry.ResponsibleEmail,
		parser.ColSectorID:          entry.SectorID,
		parser.ColSectorName:        entry.SectorName,
		parser.ColIndicatorID:       entry.IndicatorID,
		parser.ColIndicatorName:     entry.IndicatorName,
		parser.ColValue:             value,
		parser.ColSectorObservation: entry.Observation,
		parser.ColSectorFilesLink:   entry.FilesLink,
	}
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		if v, ok := cells[strings.TrimSpace(h)]; ok {
			row[i] = v
		} else {
			row[i] = ""
		}
	}
	return row
}
