package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func migrationNames(migrations []Migration) []string {
	names := make([]string, 0, len(migrations))
	for _, m := range migrations {
		names = append(names, m.Name)
	}
	return names
}

func TestLoadMigrationsOrdersByDependency(t *testing.T) {
	fsys := fstest.MapFS{
		"m/a_base.up.sql":    {Data: []byte("CREATE TABLE a ();")},
		"m/b_child.up.sql":   {Data: []byte("-- depends: c_other, a_base\nCREATE TABLE b ();")},
		"m/c_other.up.sql":   {Data: []byte("-- depends: a_base\nCREATE TABLE c ();")},
		"m/0_late.up.sql":    {Data: []byte("-- depends: b_child\nCREATE TABLE z ();")},
		"m/ignored.down.sql": {Data: []byte("DROP TABLE a;")},
	}

	migrations, err := loadMigrations(fsys, "m")
	require.NoError(t, err)
	assert.Equal(t, []string{"a_base", "c_other", "b_child", "0_late"}, migrationNames(migrations))
	assert.Equal(t, []string{"c_other", "a_base"}, migrations[2].DependsOn)
}

func TestSortMigrationsRejectsCycles(t *testing.T) {
	_, err := sortMigrations([]Migration{
		{Name: "a", DependsOn: []string{"b"}},
		{Name: "b", DependsOn: []string{"a"}},
	})
	assert.ErrorContains(t, err, "cycle")
}

func TestSortMigrationsRejectsUnknownDependency(t *testing.T) {
	_, err := sortMigrations([]Migration{{Name: "a", DependsOn: []string{"missing"}}})
	assert.ErrorContains(t, err, `unknown migration dependency "missing"`)
}

func TestParseDepends(t *testing.T) {
	assert.Nil(t, parseDepends("CREATE TABLE a ();"))
	assert.Equal(t, []string{"x", "y"}, parseDepends("-- header\n  -- depends: x, ,y\nSELECT 1;"))
}

func TestEmbeddedMigrationsChain(t *testing.T) {
	migrations, err := LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, "20190315_01_existing_structure", migrations[0].Name)

	seen := map[string]bool{}
	for _, m := range migrations {
		for _, dep := range m.DependsOn {
			assert.True(t, seen[dep], "%s applied before its dependency %s", m.Name, dep)
		}
		seen[m.Name] = true
	}
}
