// Package sheets pushes the monthly expense summary to a Google Sheets
// spreadsheet and reads the current balance back from it.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mvidal/gastos/internal/models"
	"github.com/mvidal/gastos/internal/repository"
)

// exportMonths is how many months beyond the current one the export covers.
const exportMonths = 6

// Service handles the Google Sheets integration.
type Service struct {
	baseURL  string
	tokenURL string
	client   *http.Client
	log      *logrus.Logger
	now      func() time.Time
}

// NewService initializes a new sheets service
func NewService(log *logrus.Logger) *Service {
	return &Service{
		baseURL:  "https://sheets.googleapis.com/v4/spreadsheets",
		tokenURL: "https://oauth2.googleapis.com/token",
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
		now: time.Now,
	}
}

// valueRange is the Sheets API payload for reading and writing cell ranges.
type valueRange struct {
	Range  string     `json:"range,omitempty"`
	Values [][]string `json:"values"`
}

// activeConfig loads the spreadsheet config and refreshes its access token
// when expired. Errors are phrased for direct display to the user.
func (s *Service) activeConfig(ctx context.Context, repo repository.Repository) (*models.SheetsConfig, error) {
	configs, err := repo.Sheets().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sheets config: %w", err)
	}
	if len(configs) == 0 {
		return nil, fmt.Errorf("google sheets is not configured yet")
	}
	config := &configs[0]
	if config.SpreadsheetID == "" || config.SheetName == "" {
		return nil, fmt.Errorf("sheets config is missing a spreadsheet id or sheet name")
	}

	if config.AccessToken == "" || !config.TokenExpiry.After(s.now()) {
		if err := s.refreshToken(ctx, repo, config); err != nil {
			return nil, err
		}
	}
	return config, nil
}

// refreshToken exchanges the stored refresh token for a fresh access token
// and persists the result.
func (s *Service) refreshToken(ctx context.Context, repo repository.Repository, config *models.SheetsConfig) error {
	if config.RefreshToken == "" {
		return fmt.Errorf("sheets config has no refresh token, reauthorize the spreadsheet access")
	}

	form := url.Values{}
	form.Set("client_id", config.ClientID)
	form.Set("client_secret", config.ClientSecret)
	form.Set("refresh_token", config.RefreshToken)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("token refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.log.Debugf("Token refresh response: %s", body)
		return fmt.Errorf("token refresh rejected with status %d", resp.StatusCode)
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}

	expiry := s.now().Add(time.Duration(token.ExpiresIn) * time.Second)
	updated, err := repo.Sheets().UpdateTokens(ctx, config.ID, token.AccessToken, config.RefreshToken, expiry)
	if err != nil {
		return fmt.Errorf("failed to store refreshed token: %w", err)
	}
	*config = *updated

	s.log.Info("Refreshed Google Sheets access token")
	return nil
}

// Export writes the current and next six months of projected expenses plus
// the balance into the configured sheet.
func (s *Service) Export(ctx context.Context, repo repository.Repository) error {
	config, err := s.activeConfig(ctx, repo)
	if err != nil {
		return err
	}

	values, err := s.buildExportRows(ctx, repo)
	if err != nil {
		return err
	}

	rangeRef := fmt.Sprintf("%s!A1:G%d", config.SheetName, len(values))
	endpoint := fmt.Sprintf("%s/%s/values/%s?valueInputOption=USER_ENTERED",
		s.baseURL, config.SpreadsheetID, url.PathEscape(rangeRef))

	payload, err := json.Marshal(valueRange{Values: values})
	if err != nil {
		return fmt.Errorf("failed to encode sheet values: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create sheets request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+config.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sheets request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.log.Debugf("Sheets export response: %s", body)
		return fmt.Errorf("sheets export rejected with status %d", resp.StatusCode)
	}

	syncTime := s.now()
	config.LastSync = &syncTime
	if err := repo.Sheets().Update(ctx, config); err != nil {
		return fmt.Errorf("failed to record sheets sync time: %w", err)
	}

	s.log.Infof("Exported %d rows to spreadsheet %s", len(values), config.SpreadsheetID)
	return nil
}

// buildExportRows renders the tabular layout: a title row, the sync date, a
// header row and one row per month.
func (s *Service) buildExportRows(ctx context.Context, repo repository.Repository) ([][]string, error) {
	balance, err := repo.Balance().Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load balance: %w", err)
	}

	currentAmount := ""
	realAmount := ""
	projectedAmount := ""
	if balance != nil {
		currentAmount = balance.Amount.StringFixed(2)
		if balance.RealAmount != nil {
			realAmount = balance.RealAmount.StringFixed(2)
		}
		if balance.ProjectedAmount != nil {
			projectedAmount = balance.ProjectedAmount.StringFixed(2)
		}
	}

	now := s.now()
	values := [][]string{
		{"Monthly Expense Summary"},
		{"Synced", now.Format("2006-01-02 15:04")},
		{"Month", "Total", "Paid", "Pending", "Current Balance", "Real Balance", "Projected Balance"},
	}

	for i := 0; i <= exportMonths; i++ {
		month := now.AddDate(0, i, 0)
		expenses, err := repo.Expenses().FindByMonth(ctx, month)
		if err != nil {
			return nil, fmt.Errorf("failed to project expenses for %s: %w", month.Format("2006-01"), err)
		}

		total, paid, pending := decimal.Zero, decimal.Zero, decimal.Zero
		for j := range expenses {
			total = total.Add(expenses[j].Amount)
			if expenses[j].IsPaid {
				paid = paid.Add(expenses[j].Amount)
			} else {
				pending = pending.Add(expenses[j].Amount)
			}
		}

		row := []string{
			month.Format("2006-01"),
			total.StringFixed(2),
			paid.StringFixed(2),
			pending.StringFixed(2),
			"", "", "",
		}
		if i == 0 {
			row[4] = currentAmount
			row[5] = realAmount
			row[6] = projectedAmount
		}
		values = append(values, row)
	}
	return values, nil
}

// Import reads the sheet back and updates the current month's balance from
// its Current Balance cell. Expense rows are informational and not imported.
func (s *Service) Import(ctx context.Context, repo repository.Repository) error {
	config, err := s.activeConfig(ctx, repo)
	if err != nil {
		return err
	}

	rangeRef := fmt.Sprintf("%s!A1:G100", config.SheetName)
	endpoint := fmt.Sprintf("%s/%s/values/%s", s.baseURL, config.SpreadsheetID, url.PathEscape(rangeRef))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create sheets request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+config.AccessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sheets request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.log.Debugf("Sheets import response: %s", body)
		return fmt.Errorf("sheets import rejected with status %d", resp.StatusCode)
	}

	var data valueRange
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return fmt.Errorf("failed to decode sheet values: %w", err)
	}

	now := s.now()
	currentMonth := now.Format("2006-01")
	for _, row := range data.Values {
		if len(row) < 5 || row[0] != currentMonth || row[4] == "" {
			continue
		}
		amount, err := decimal.NewFromString(row[4])
		if err != nil {
			return fmt.Errorf("unreadable balance value %q in sheet: %w", row[4], err)
		}

		balance, err := repo.Balance().Current(ctx)
		if err != nil {
			return fmt.Errorf("failed to load balance: %w", err)
		}
		if balance == nil {
			balance = &models.Balance{}
		}
		balance.Amount = amount
		balance.Date = now
		if err := repo.Balance().Upsert(ctx, balance); err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}

		s.log.Infof("Imported balance %s from spreadsheet", amount.StringFixed(2))
		break
	}

	syncTime := s.now()
	config.LastSync = &syncTime
	if err := repo.Sheets().Update(ctx, config); err != nil {
		return fmt.Errorf("failed to record sheets sync time: %w", err)
	}
	return nil
}
