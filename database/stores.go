package database

import (
	"context"
	"fmt"

	"attendify/config"
	membersRepo "attendify/database/repository/members"
	recordsRepo "attendify/database/repository/records"
	"attendify/utils"

	"go.uber.org/zap"
)

// Stores bundles the two tables of the configured backend.
type Stores struct {
	Backend string
	Records recordsRepo.RecordRepository
	Members membersRepo.MemberRepository

	// Ping checks the backend is reachable; nil for backends with nothing remote to reach.
	Ping  utils.HealthCheck
	close func(ctx context.Context) error
}

// Close releases backend connections.
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStores builds the record and member stores for cfg.StoreBackend.
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	s := &Stores{Backend: cfg.StoreBackend}

	switch cfg.StoreBackend {
	case config.BackendCSV:
		s.Records = recordsRepo.NewCSVRecordRepo(cfg.CSVDataDir)
		s.Members = membersRepo.NewCSVMemberRepo(cfg.CSVDataDir)

	case config.BackendMemory:
		s.Records = recordsRepo.NewMemoryRecordRepo()
		s.Members = membersRepo.NewMemoryMemberRepo()

	case config.BackendMongo:
		client, err := ConnectMongo(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		records := recordsRepo.NewMongoRecordRepo(client, cfg.DatabaseName)
		s.Records = records
		s.Members = membersRepo.NewMongoMemberRepo(client, cfg.DatabaseName)
		s.Ping = records.Ping
		s.close = client.Disconnect

	case config.BackendFirestore:
		projectID, err := cfg.FirebaseProject()
		if err != nil {
			return nil, err
		}
		client, err := utils.NewFirestoreClient(ctx, cfg.FirebaseCredentialsPath, projectID)
		if err != nil {
			return nil, err
		}
		records := recordsRepo.NewFirestoreRecordRepo(client, config.FirestoreRecordsCollection)
		s.Records = records
		s.Members = membersRepo.NewFirestoreMemberRepo(client, config.FirestoreMembersCollection)
		s.Ping = records.Ping
		s.close = func(context.Context) error { return client.Close() }

	case config.BackendSheets:
		svc, err := utils.NewSheetsService(ctx, cfg.SheetsCredentialsPath)
		if err != nil {
			return nil, err
		}
		records := recordsRepo.NewSheetsRecordRepo(svc, cfg.SheetsSpreadsheetID, cfg.SheetsRecordsSheet, cfg.SheetsMaxRetries)
		s.Records = records
		s.Members = membersRepo.NewSheetsMemberRepo(svc, cfg.SheetsSpreadsheetID, cfg.SheetsMembersSheet, cfg.SheetsMaxRetries)
		s.Ping = records.Ping

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	logger.Info("Store backend ready", zap.String("backend", cfg.StoreBackend))
	return s, nil
}
