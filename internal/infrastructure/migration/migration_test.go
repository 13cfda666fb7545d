package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationsAreOrderedAndNamed(t *testing.T) {
	ms := Migrations()
	seen := map[string]bool{}
	for _, m := range ms {
		assert.NotEmpty(t, m.Name)
		assert.NotNil(t, m.Up)
		assert.False(t, seen[m.Name], "duplicate migration %s", m.Name)
		seen[m.Name] = true
	}
	// users must exist before the tables that reference it
	assert.Equal(t, "create_users", ms[0].Name)
}

func TestSchemaStatementsAreIdempotent(t *testing.T) {
	for _, q := range []string{createUsers, createResumes, createSubscriptions, createPaymentOrders} {
		assert.Contains(t, q, "IF NOT EXISTS")
	}
	assert.Contains(t, createSubscriptions, "owner_id          UUID NOT NULL UNIQUE")
}
