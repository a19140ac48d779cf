// internal/export/portfolio.go
package export

import (
	"fmt"
	"io"

	"github.com/shrimpsizemoose/fusionx/internal/errs"
	"github.com/shrimpsizemoose/fusionx/internal/models"
	"github.com/shrimpsizemoose/fusionx/internal/store"
)

type PortfolioSheet struct {
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Projects []*models.Project `json:"projects"`
}

func BuildPortfolio(s store.RecordStore, accountID string) (*PortfolioSheet, error) {
	account, err := s.GetAccount(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, errs.NotFound("account", accountID)
	}
	projects, err := s.ListProjects(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return &PortfolioSheet{Name: account.Name, Email: account.Email, Projects: projects}, nil
}

func WritePortfolio(w io.Writer, sheet *PortfolioSheet) error {
	ew := &errWriter{w: w}
	ew.printf("%s's Portfolio\n", sheet.Name)
	if len(sheet.Projects) == 0 {
		ew.printf("\nNo projects yet.\n")
	}
	for _, p := range sheet.Projects {
		field := p.Field
		if field == "" {
			field = "N/A"
		}
		ew.printf("\nTitle: %s\nField: %s\nDescription: %s\n", p.Title, field, p.Description)
		if p.Verified {
			ew.printf("Verified by %s\n", p.VerifiedBy)
		}
	}
	return ew.err
}
