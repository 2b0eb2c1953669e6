package schema

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/linemk/pricedesk/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	b, err := fs.ReadFile(migrationsFS, "migrations/"+name)
	require.NoError(t, err)
	return string(b)
}

func TestMigrations_AreUpDownPairs(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Greater(t, ups, 0)
	assert.Equal(t, ups, downs, "every up migration needs a down migration")
}

func TestInitMigration_CreatesAllTablesIfAbsent(t *testing.T) {
	up := readMigration(t, "000001_init.up.sql")

	tables := []string{
		"users", "stores", "categories", "costs", "marketplaces",
		"products", "product_prices", "orders", "order_items", "followups",
	}
	for _, table := range tables {
		assert.Contains(t, up, "CREATE TABLE IF NOT EXISTS "+table+" (", "table %s", table)
	}

	// каждый CREATE должен быть идемпотентным
	creates := regexp.MustCompile(`CREATE (TABLE|INDEX) `).FindAllString(up, -1)
	idempotent := regexp.MustCompile(`CREATE (TABLE|INDEX) IF NOT EXISTS `).FindAllString(up, -1)
	assert.Equal(t, len(creates), len(idempotent))
}

func TestInitMigration_Constraints(t *testing.T) {
	up := readMigration(t, "000001_init.up.sql")

	assert.Contains(t, up, "UNIQUE (product_id, marketplace_id)")
	assert.Contains(t, up, "REFERENCES categories (id) ON DELETE SET NULL")
	assert.Contains(t, up, "REFERENCES products (id) ON DELETE CASCADE")
	assert.Contains(t, up, "REFERENCES marketplaces (id) ON DELETE CASCADE")
	assert.Contains(t, up, "REFERENCES marketplaces (id) ON DELETE SET NULL")
	assert.Contains(t, up, "REFERENCES stores (id) ON DELETE SET NULL")
	assert.Contains(t, up, "REFERENCES orders (id) ON DELETE CASCADE")
	assert.Contains(t, up, "username   VARCHAR(255) NOT NULL UNIQUE")
}

func statusCheck(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, "'"+v+"'")
	}
	return "CHECK (status IN (" + strings.Join(quoted, ", ") + "))"
}

func TestInitMigration_StatusesMatchModels(t *testing.T) {
	up := readMigration(t, "000001_init.up.sql")

	assert.Contains(t, up, statusCheck(models.OrderStatuses))
	assert.Contains(t, up, statusCheck(models.FollowupStatuses))
	assert.Equal(t, 2, strings.Count(up, "DEFAULT '"+models.OrderStatusPending+"'"))
}

func TestInitMigration_DownDropsEverything(t *testing.T) {
	down := readMigration(t, "000001_init.down.sql")
	assert.Equal(t, 10, strings.Count(down, "DROP TABLE IF EXISTS"))
}

func TestMigrator_Up_CancelledContext(t *testing.T) {
	m := NewMigrator(slog.New(slog.NewTextHandler(os.Stdout, nil)), "postgres://invalid")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Up(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
