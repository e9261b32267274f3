package utils

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// NewSheetsService builds a Google Sheets client authenticated with a service account key.
func NewSheetsService(ctx context.Context, credentialsPath string) (*sheets.Service, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets: error creating service: %w", err)
	}
	return svc, nil
}
