package sheetsclient

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/tmercier/roomplan/internal/config"
	"github.com/tmercier/roomplan/pkg/utils"
)

// Client wraps the Google Sheets API for reading timetable spreadsheets
type Client struct {
	service *sheets.Service
}

// NewClient creates a new Sheets client using OAuth credentials and performs
// the OAuth flow if needed
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	token, err := utils.GetTokenWithFlow(ctx, oauthConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	httpClient := oauthConfig.Client(ctx, token)

	service, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{service: service}, nil
}

// GetGrid reads a whole spreadsheet tab as a trimmed string grid, the same
// shape a timetable CSV produces
func (c *Client) GetGrid(spreadsheetID, tab string) ([][]string, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, tab).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values: %w", err)
	}

	grid := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			if s, ok := cell.(string); ok {
				cells = append(cells, strings.TrimSpace(s))
			} else {
				cells = append(cells, strings.TrimSpace(fmt.Sprint(cell)))
			}
		}
		grid = append(grid, cells)
	}

	return grid, nil
}
