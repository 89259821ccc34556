package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/comerian/gmaildrafter/internal/instrumentation"
	"github.com/comerian/gmaildrafter/internal/logging"
)

// defaultWorksheetTitle is used when the spreadsheet metadata does not name
// a first worksheet.
const defaultWorksheetTitle = "Sheet1"

// Client wraps the Sheets Spreadsheets service for read-only table loads.
type Client struct {
	svc    *sheets.SpreadsheetsService
	logger *slog.Logger
}

// NewClient creates a Sheets client from the given client options. The
// options must carry credentials with spreadsheet read access, typically a
// service account key via option.WithCredentialsJSON.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	return &Client{
		svc:    svc.Spreadsheets,
		logger: logging.WithService(slog.Default(), "sheets"),
	}, nil
}

// NewClientFromService wraps an already-constructed Sheets service. Lets
// callers supply a service bound to a custom endpoint or transport.
func NewClientFromService(svc *sheets.Service) *Client {
	return &Client{
		svc:    svc.Spreadsheets,
		logger: logging.WithService(slog.Default(), "sheets"),
	}
}

// FetchTable loads the first worksheet of the spreadsheet and normalizes it
// into a Table. It performs one metadata call to resolve the worksheet
// title and one values call to read the populated cells.
func (c *Client) FetchTable(ctx context.Context, sheetID string) (*Table, error) {
	title, err := c.firstWorksheetTitle(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	valuesCtx, span := instrumentation.StartGoogleAPISpan(ctx, "sheets", "values_get")
	resp, err := c.svc.Values.Get(sheetID, title).Context(valuesCtx).Do()
	if err != nil {
		instrumentation.SetSpanError(span, err)
		span.End()
		c.logger.Error("failed to read sheet values",
			logging.Operation("fetch_table"),
			slog.String("sheet_id", sheetID),
			logging.Err(err))
		return nil, &UpstreamError{Err: err}
	}
	instrumentation.SetSpanSuccess(span)
	span.End()

	table, err := BuildTable(toStringGrid(resp.Values))
	if err != nil {
		return nil, err
	}

	c.logger.Info("sheet loaded",
		logging.Operation("fetch_table"),
		slog.String("sheet_id", sheetID),
		slog.Int("headers", len(table.Headers)),
		slog.Int("rows", len(table.Rows)))

	return table, nil
}

// firstWorksheetTitle resolves the title of the spreadsheet's first
// worksheet, falling back to the default name when metadata yields none.
func (c *Client) firstWorksheetTitle(ctx context.Context, sheetID string) (string, error) {
	metaCtx, span := instrumentation.StartGoogleAPISpan(ctx, "sheets", "spreadsheets_get")
	defer span.End()

	meta, err := c.svc.Get(sheetID).Context(metaCtx).Do()
	if err != nil {
		instrumentation.SetSpanError(span, err)
		c.logger.Error("failed to read spreadsheet metadata",
			logging.Operation("fetch_metadata"),
			slog.String("sheet_id", sheetID),
			logging.Err(err))
		return "", &UpstreamError{Err: err}
	}
	instrumentation.SetSpanSuccess(span)

	if len(meta.Sheets) > 0 && meta.Sheets[0].Properties != nil && meta.Sheets[0].Properties.Title != "" {
		return meta.Sheets[0].Properties.Title, nil
	}
	return defaultWorksheetTitle, nil
}

// toStringGrid converts the API's untyped cell values into strings. The
// Sheets API returns numbers and booleans for unformatted cells; drafts only
// ever deal in text, so everything is stringified.
func toStringGrid(values [][]interface{}) [][]string {
	grid := make([][]string, 0, len(values))
	for _, row := range values {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			if s, ok := v.(string); ok {
				cells = append(cells, s)
			} else {
				cells = append(cells, fmt.Sprint(v))
			}
		}
		grid = append(grid, cells)
	}
	return grid
}
