package membersRepo

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

// MemberRepository is the member directory's backing table; SaveAll is a full overwrite.
type MemberRepository interface {
	LoadAll(ctx context.Context) ([]models.Member, error)
	SaveAll(ctx context.Context, members []models.Member) error
}

const (
	csvFileName     = "members.csv"
	mongoCollection = "members"
)

// NewCSVMemberRepo stores the roster as dir/members.csv.
func NewCSVMemberRepo(dir string) *tabular.CSVTable[models.Member] {
	return tabular.NewCSVTable(filepath.Join(dir, csvFileName), Codec)
}

// NewMemoryMemberRepo returns a process-local roster seeded with members.
func NewMemoryMemberRepo(members ...models.Member) *tabular.MemoryTable[models.Member] {
	return tabular.NewMemoryTable(members...)
}

// NewMongoMemberRepo stores the roster in the members collection.
func NewMongoMemberRepo(client *mongo.Client, database string) *tabular.MongoTable[models.Member] {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "membershipNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "group", Value: 1}}},
	}
	return tabular.NewMongoTable(client, database, mongoCollection, Codec, indexes...)
}

// NewFirestoreMemberRepo stores one document per member in collection.
func NewFirestoreMemberRepo(client *firestore.Client, collection string) *tabular.FirestoreTable[models.Member] {
	return tabular.NewFirestoreTable(client, collection, Codec)
}

// NewSheetsMemberRepo stores the roster in one tab of a spreadsheet.
func NewSheetsMemberRepo(svc *sheets.Service, spreadsheetID, sheet string, maxRetries int) *tabular.SheetsTable[models.Member] {
	return tabular.NewSheetsTable(svc, spreadsheetID, sheet, Codec, maxRetries)
}
