package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"spese-forecast/internal/core"
	ports "spese-forecast/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client reads yearly expense sheets named "<year> <base>" with columns
// Month, Day, Description, Amount, _, _, Primary, Secondary.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string
	years         []int

	// read and update access ranges of values; replaced in tests.
	read   func(ctx context.Context, rng string) ([][]interface{}, error)
	update func(ctx context.Context, rng string, values [][]interface{}) error
}

// Ensure interface conformance
var (
	_ ports.ObservationSource = (*Client)(nil)
	_ ports.ExpenseWriter     = (*Client)(nil)
)

// Options configures a Client.
type Options struct {
	SpreadsheetID string
	SheetName     string // base name without year, e.g. "Expenses"
	Years         []int
}

// New creates a Sheets client authenticated with Service Account credentials
// from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if len(opts.Years) == 0 {
		return nil, errors.New("no sheet years configured")
	}
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	c := newClient(opts)
	c.svc = svc
	c.read = c.readValues
	c.update = c.updateValues
	return c, nil
}

func newClient(opts Options) *Client {
	base := strings.TrimSpace(opts.SheetName)
	if base == "" {
		base = "Expenses"
	}
	return &Client{
		spreadsheetID: strings.TrimSpace(opts.SpreadsheetID),
		sheetBase:     base,
		years:         append([]int(nil), opts.Years...),
	}
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	// Also check the standard Google Cloud environment variable
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		slog.DebugContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.DebugContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) readValues(ctx context.Context, rng string) ([][]interface{}, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

func (c *Client) updateValues(ctx context.Context, rng string, values [][]interface{}) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

// Observations reads every configured year sheet and aggregates the expense
// rows into monthly totals.
func (c *Client) Observations(ctx context.Context) ([]core.Observation, error) {
	var all []core.Expense
	for _, year := range c.years {
		rows, err := c.readYear(ctx, year)
		if err != nil {
			return nil, err
		}
		slog.DebugContext(ctx, "Read expense sheet", "year", year, "rows", len(rows))
		all = append(all, rows...)
	}
	return core.AggregateMonthly(all), nil
}

func (c *Client) readYear(ctx context.Context, year int) ([]core.Expense, error) {
	if c.read == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:H", yearPrefixedName(c.sheetBase, year))
	values, err := c.read(ctx, rng)
	if err != nil {
		return nil, err
	}
	return parseExpenseRows(values, year), nil
}

// Append writes the expense to the sheet of its year, after the last used row.
func (c *Client) Append(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.read == nil || c.update == nil {
		return "", errors.New("sheets service not initialized")
	}
	sheet := yearPrefixedName(c.sheetBase, e.Date.Year())

	used, err := c.read(ctx, sheet+"!A:A")
	if err != nil {
		return "", fmt.Errorf("failed to get sheet dimensions for %s: %w", sheet, err)
	}
	nextRow := len(used) + 1

	// A:D (Month, Day, Description, Amount), then G:H (Primary, Secondary)
	row := [][]interface{}{{e.Date.Month(), e.Date.Day(), e.Description, e.Amount.Euros()}}
	if err := c.update(ctx, fmt.Sprintf("%s!A%d:D%d", sheet, nextRow, nextRow), row); err != nil {
		return "", fmt.Errorf("failed to update A:D in sheet %s: %w", sheet, err)
	}

	cats := [][]interface{}{{e.Primary, e.Secondary}}
	if err := c.update(ctx, fmt.Sprintf("%s!G%d:H%d", sheet, nextRow, nextRow), cats); err != nil {
		return "", fmt.Errorf("failed to update G:H in sheet %s: %w", sheet, err)
	}

	return fmt.Sprintf("%s!A%d:H%d", sheet, nextRow, nextRow), nil
}
