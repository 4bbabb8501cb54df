package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/rileva/internal/catalog"
	"github.com/Tiliavir/rileva/internal/model"
)

func TestDefaultLayoutMatchesTemplate(t *testing.T) {
	cat := catalog.Default()

	require.Len(t, cat.Activities, 7)
	for i, a := range cat.Activities {
		assert.Equal(t, 28+i, cat.ActivityRows[a.Code], "row for %s", a.Code)
	}
	require.Len(t, cat.Extracts, 5)
	for i, ex := range cat.Extracts {
		assert.Equal(t, 39+i, cat.ExtractRows[ex.ID], "row for %s", ex.ID)
	}
	assert.Equal(t, "ST", cat.OvertimeCode)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cat, err := catalog.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, catalog.Default(), cat)
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `
extracts:
  - id: NEW001
    code: D
    description: New client
    client: NEW
    expected_days: 12
overtime_code: OT
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cat, err := catalog.Load(path)
	require.NoError(t, err)
	require.Len(t, cat.Extracts, 1)
	assert.Equal(t, "NEW001", cat.Extracts[0].ID)
	assert.Equal(t, 12.0, cat.ExpectedDaysFor(cat.Extracts[0]))
	assert.Equal(t, "OT", cat.OvertimeCode)
	assert.Len(t, cat.Activities, 7, "activities keep their defaults")
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extracts: [unclosed"), 0o600))
	_, err := catalog.Load(path)
	assert.Error(t, err)
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, catalog.Write(path, catalog.Default()))

	cat, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Equal(t, catalog.Default().ActivityRows, cat.ActivityRows)
}

func TestExpectedDaysFor(t *testing.T) {
	cat := catalog.Default()
	own := 5.0

	assert.Equal(t, 20.0, cat.ExpectedDaysFor(model.Extract{ID: "ESA3582021"}))
	assert.Equal(t, 5.0, cat.ExpectedDaysFor(model.Extract{ID: "ESA3582021", ExpectedDays: &own}))
	assert.Equal(t, 0.0, cat.ExpectedDaysFor(model.Extract{ID: "OTHER"}))
}

func TestActivityDescription(t *testing.T) {
	cat := catalog.Default()
	assert.Equal(t, "Ferie", cat.ActivityDescription("F"))
	assert.Equal(t, "", cat.ActivityDescription("XX"))
}
