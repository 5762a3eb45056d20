package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/nestpack/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	rot := false
	cfg := AppConfig{
		SheetWidth:    24,
		SheetHeight:   18,
		Spacing:       0.125,
		AllowRotation: &rot,
		Mode:          "bbox",
		Order:         "perimeter",
	}

	require.NoError(t, SaveAppConfig(path, cfg))

	loaded, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadAppConfig_MissingFileYieldsDefaults(t *testing.T) {
	loaded, err := LoadAppConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAppConfig(), loaded)
}

func TestLoadAppConfig_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadAppConfig(path)
	assert.Error(t, err)
}

func TestApply_OverlaysOnlySetFields(t *testing.T) {
	base := model.DefaultNestConfig()
	base.SheetWidth = model.ToUnits(12)
	base.SheetHeight = model.ToUnits(12)

	applied := AppConfig{SheetWidth: 48, Spacing: 0.5}.Apply(base)
	assert.Equal(t, model.ToUnits(48), applied.SheetWidth)
	assert.Equal(t, model.ToUnits(12), applied.SheetHeight, "unset field keeps the base value")
	assert.Equal(t, model.ToUnits(0.5), applied.Spacing)
	assert.Equal(t, base.Mode, applied.Mode)
	assert.Equal(t, base.Rotations, applied.Rotations)
}

func TestApply_DisablesRotation(t *testing.T) {
	rot := false
	applied := AppConfig{AllowRotation: &rot}.Apply(model.DefaultNestConfig())
	assert.Equal(t, []int{0}, applied.Rotations)
}

func TestApply_EmptyConfigIsIdentity(t *testing.T) {
	base := model.DefaultNestConfig()
	assert.Equal(t, base, DefaultAppConfig().Apply(base))
}
