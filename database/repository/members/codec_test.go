package membersRepo

import (
	"context"
	"testing"

	"attendify/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	m := models.Member{MembershipNumber: "M1", FullName: "Ann", Group: "Youth", Email: "ann@example.com", Phone: "555"}
	back, err := Codec.Decode(Codec.Encode(m))
	require.NoError(t, err)
	assert.Equal(t, m, back)
	assert.Equal(t, "M1", Codec.Key(m))
}

func TestCodec_OptionalColumns(t *testing.T) {
	m, err := Codec.Decode([]string{" M2 ", " Ben ", " Adults "})
	require.NoError(t, err)
	assert.Equal(t, models.Member{MembershipNumber: "M2", FullName: "Ben", Group: "Adults"}, m)
}

func TestCodec_RequiredFields(t *testing.T) {
	for _, row := range [][]string{
		{"", "Ann", "Youth"},
		{"M1", "", "Youth"},
		{"M1", "Ann", " "},
		{"M1", "Ann"},
	} {
		_, err := Codec.Decode(row)
		assert.Error(t, err, "%v", row)
	}
}

func TestCSVMemberRepo_SaveThenLoad(t *testing.T) {
	repo := NewCSVMemberRepo(t.TempDir())
	ctx := context.Background()
	roster := []models.Member{
		{MembershipNumber: "M1", FullName: "Ann", Group: "Youth"},
		{MembershipNumber: "M2", FullName: "Ben", Group: "Adults", Email: "ben@example.com"},
	}
	require.NoError(t, repo.SaveAll(ctx, roster))

	got, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, roster, got)
}
