package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownMigration(t *testing.T) {
	m, ok := Lookup("area")
	require.True(t, ok)
	assert.Equal(t, "area", m.Source)
	assert.Equal(t, "echarts_area", m.Target)
	assert.True(t, m.HasXAxisControl)
}

func TestLookupUnknownMigration(t *testing.T) {
	_, ok := Lookup("no_such_migration")
	assert.False(t, ok)
}

func TestNamesAreSortedAndUnique(t *testing.T) {
	names := Names()
	require.NotEmpty(t, names)

	seen := make(map[string]bool)
	for i, name := range names {
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
		if i > 0 {
			assert.Less(t, names[i-1], name)
		}
		_, ok := Lookup(name)
		assert.True(t, ok)
	}
}

func TestRegisteredMigrationsAreWellFormed(t *testing.T) {
	for _, name := range Names() {
		m, _ := Lookup(name)
		assert.NotEmpty(t, m.Source, "migration %s", name)
		assert.NotEmpty(t, m.Target, "migration %s", name)
		assert.NotEqual(t, m.Source, m.Target, "migration %s", name)

		targets := make(map[string]bool)
		for _, target := range m.RenameKeys {
			assert.False(t, targets[target],
				"migration %s renames two keys onto %s", name, target)
			targets[target] = true
		}
	}
}
