package config

import (
	"os"
	"path/filepath"
	"testing"

	m "github.com/mouse-blink/pyintroduce/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := New(v)
	require.NoError(t, err)

	assert.Equal(t, IntroduceConfig{
		DefaultName: "x",
		Replace:     ReplaceAsk,
		InitPlace:   "same-scope",
		Inplace:     true,
		MaxSuffix:   1000,
	}, cfg.Introduce)
	assert.Equal(t, 1, cfg.Scan.Parallel)
	assert.Equal(t, 2, cfg.Scan.MinOccurrences)
	assert.Equal(t, "table", cfg.Scan.Format)
	assert.Equal(t, LogConfig{Level: "warn", Format: "console"}, cfg.Log)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  interface{}
		errMsg string
	}{
		{name: "empty default name", key: "introduce.default_name", value: "", errMsg: "introduce.default_name is required"},
		{name: "unknown replace mode", key: "introduce.replace", value: "some", errMsg: "introduce.replace"},
		{name: "unknown init place", key: "introduce.init_place", value: "module", errMsg: "introduce.init_place"},
		{name: "zero suffix cap", key: "introduce.max_suffix", value: 0, errMsg: "introduce.max_suffix"},
		{name: "zero workers", key: "scan.parallel", value: 0, errMsg: "scan.parallel"},
		{name: "single occurrence", key: "scan.min_occurrences", value: 1, errMsg: "scan.min_occurrences"},
		{name: "unknown scan format", key: "scan.format", value: "xml", errMsg: "scan.format"},
		{name: "unknown log format", key: "log.format", value: "text", errMsg: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.value)

			_, err := New(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_ValidateInitPlaces(t *testing.T) {
	for _, place := range []m.InitPlace{m.InitSameScope, m.InitConstructor, m.InitSetUp} {
		t.Run(string(place), func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set("introduce.init_place", string(place))

			cfg, err := New(v)
			require.NoError(t, err)
			assert.Equal(t, place, m.InitPlace(cfg.Introduce.InitPlace))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("reads an explicit file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(file, []byte("introduce:\n  replace: all\nscan:\n  exclude: [\"_test\\\\.py$\"]\n"), 0o600))

		v, err := Load(file)
		require.NoError(t, err)

		cfg, err := New(v)
		require.NoError(t, err)
		assert.Equal(t, ReplaceAll, cfg.Introduce.Replace)
		assert.Equal(t, []string{`_test\.py$`}, cfg.Scan.Exclude)
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("PYINTRODUCE_SCAN_PARALLEL", "4")

		v, err := Load("")
		require.NoError(t, err)

		cfg, err := New(v)
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Scan.Parallel)
	})
}

func TestIntroduceConfig_ReplaceAllPreset(t *testing.T) {
	assert.Nil(t, IntroduceConfig{Replace: ReplaceAsk}.ReplaceAllPreset())

	all := IntroduceConfig{Replace: ReplaceAll}.ReplaceAllPreset()
	require.NotNil(t, all)
	assert.True(t, *all)

	one := IntroduceConfig{Replace: ReplaceOne}.ReplaceAllPreset()
	require.NotNil(t, one)
	assert.False(t, *one)
}
