package tabular

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
)

// firestoreNamespace seeds the deterministic document ids.
var firestoreNamespace = uuid.MustParse("6f1c3d1e-8a57-4d7e-9d0c-3b2f3f6f2a10")

// FirestoreTable keeps a table in one Firestore collection, one document per row. Document ids
// derive from the codec key, so a row can only ever exist once.
type FirestoreTable[T any] struct {
	client     *firestore.Client
	collection string
	codec      Codec[T]
}

func NewFirestoreTable[T any](client *firestore.Client, collection string, codec Codec[T]) *FirestoreTable[T] {
	return &FirestoreTable[T]{client: client, collection: collection, codec: codec}
}

func (t *FirestoreTable[T]) LoadAll(ctx context.Context) ([]T, error) {
	snaps, err := t.client.Collection(t.collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", t.collection, err)
	}
	out := make([]T, 0, len(snaps))
	for _, snap := range snaps {
		var v T
		if err := snap.DataTo(&v); err != nil {
			return nil, fmt.Errorf("%w: document %s: %v", ErrInvalidRow, snap.Ref.ID, err)
		}
		n, err := Normalize(t.codec, v)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// SaveAll replaces the collection contents inside one transaction: stale documents are
// deleted and every row is written, or nothing changes.
func (t *FirestoreTable[T]) SaveAll(ctx context.Context, rows []T) error {
	coll := t.client.Collection(t.collection)
	want := make(map[string]T, len(rows))
	order := make([]string, 0, len(rows))
	for _, r := range rows {
		id := DocumentID(t.codec.Key(r))
		if _, seen := want[id]; !seen {
			order = append(order, id)
		}
		want[id] = r
	}

	err := t.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(coll).GetAll()
		if err != nil {
			return err
		}
		for _, snap := range existing {
			if _, ok := want[snap.Ref.ID]; !ok {
				if err := tx.Delete(snap.Ref); err != nil {
					return err
				}
			}
		}
		for _, id := range order {
			if err := tx.Set(coll.Doc(id), want[id]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", t.collection, err)
	}
	return nil
}

// Ping reads at most one document to prove the project is reachable.
func (t *FirestoreTable[T]) Ping(ctx context.Context) error {
	_, err := t.client.Collection(t.collection).Limit(1).Documents(ctx).GetAll()
	return err
}

// DocumentID maps a row key onto a valid, stable Firestore document id.
func DocumentID(key string) string {
	return uuid.NewSHA1(firestoreNamespace, []byte(key)).String()
}
