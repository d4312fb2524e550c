// Package dbtest opens throwaway MongoDB databases for repository tests.
package dbtest

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/bogdanSgithub/autovitals-backend/internal/db"

	"github.com/stretchr/testify/require"
)

// Open connects to MONGO_TEST_URL, applies the schema to a fresh database
// and drops it when the test ends. Without MONGO_TEST_URL the test is
// skipped.
func Open(t testing.TB, prefix string) *db.DB {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URL")
	if uri == "" {
		t.Skip("MONGO_TEST_URL not set")
	}

	ctx := context.Background()
	d, err := db.Connect(ctx, uri, prefix+"_test_"+strconv.FormatInt(time.Now().UnixNano(), 36))
	require.NoError(t, err)
	require.NoError(t, db.EnsureSchema(ctx, d.Database))
	t.Cleanup(func() {
		_ = d.Drop(context.Background())
		_ = d.Close(context.Background())
	})
	return d
}
