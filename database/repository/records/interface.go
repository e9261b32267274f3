package recordsRepo

import (
	"context"
	"path/filepath"

	"attendify/database/tabular"
	"attendify/models"

	"cloud.google.com/go/firestore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/api/sheets/v4"
)

// RecordRepository is the attendance ledger's backing table. SaveAll replaces the whole
// table; the caller passes the complete desired final state.
type RecordRepository interface {
	LoadAll(ctx context.Context) ([]models.AttendanceRecord, error)
	SaveAll(ctx context.Context, records []models.AttendanceRecord) error
}

const (
	csvFileName     = "attendance.csv"
	mongoCollection = "attendance_records"
)

// NewCSVRecordRepo stores the ledger as dir/attendance.csv.
func NewCSVRecordRepo(dir string) *tabular.CSVTable[models.AttendanceRecord] {
	return tabular.NewCSVTable(filepath.Join(dir, csvFileName), Codec)
}

// NewMemoryRecordRepo returns a process-local ledger seeded with records.
func NewMemoryRecordRepo(records ...models.AttendanceRecord) *tabular.MemoryTable[models.AttendanceRecord] {
	return tabular.NewMemoryTable(records...)
}

// NewMongoRecordRepo stores the ledger in the attendance_records collection. The unique index
// on (date, group, membershipNumber) backs the one-row-per-member invariant.
func NewMongoRecordRepo(client *mongo.Client, database string) *tabular.MongoTable[models.AttendanceRecord] {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "date", Value: 1}, {Key: "group", Value: 1}, {Key: "membershipNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "membershipNumber", Value: 1}}},
	}
	return tabular.NewMongoTable(client, database, mongoCollection, Codec, indexes...)
}

// NewFirestoreRecordRepo stores one document per record in collection.
func NewFirestoreRecordRepo(client *firestore.Client, collection string) *tabular.FirestoreTable[models.AttendanceRecord] {
	return tabular.NewFirestoreTable(client, collection, Codec)
}

// NewSheetsRecordRepo stores the ledger in one tab of a spreadsheet.
func NewSheetsRecordRepo(svc *sheets.Service, spreadsheetID, sheet string, maxRetries int) *tabular.SheetsTable[models.AttendanceRecord] {
	return tabular.NewSheetsTable(svc, spreadsheetID, sheet, Codec, maxRetries)
}
