package curtain

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoCurtain/GoCurtain/internal/capability"
	"github.com/GoCurtain/GoCurtain/internal/db/models"
	"github.com/GoCurtain/GoCurtain/internal/options"
)

func setupPlugin(t *testing.T) *Plugin {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	for _, name := range []string{"administrator", "editor", "author"} {
		require.NoError(t, db.Create(&models.Role{Name: name}).Error)
	}

	p := New(db, "")
	require.NoError(t, p.Activate())

	return p
}

func TestActivate(t *testing.T) {
	p := setupPlugin(t)

	rec, err := p.Options()
	require.NoError(t, err)
	assert.Equal(t, options.Defaults(""), rec)

	granted, err := capability.Granted(p.DB())
	require.NoError(t, err)
	assert.Equal(t, []string{"administrator", "editor"}, granted)

	// a second activation keeps the existing record
	_, err = p.SetMode(options.ModeOn)
	require.NoError(t, err)
	require.NoError(t, p.Activate())

	mode, err := p.Mode()
	require.NoError(t, err)
	assert.Equal(t, options.ModeOn, mode)
}

func TestDeactivate(t *testing.T) {
	p := setupPlugin(t)

	require.NoError(t, p.Deactivate())

	rec, err := p.Options()
	require.NoError(t, err)
	assert.Equal(t, options.Record{}, rec)

	granted, err := capability.Granted(p.DB())
	require.NoError(t, err)
	assert.Empty(t, granted)

	require.NoError(t, p.Deactivate(), "deactivating twice is harmless")
}

func TestSetModeRoundTrip(t *testing.T) {
	p := setupPlugin(t)

	changed, err := p.SetMode(options.ModeOn)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = p.SetMode(options.ModeOn)
	require.NoError(t, err)
	assert.False(t, changed, "setting the same mode is a no-op")

	changed, err = p.SetMode(options.ModeOff)
	require.NoError(t, err)
	assert.True(t, changed)

	rec, err := p.Options()
	require.NoError(t, err)
	assert.Equal(t, options.Defaults(""), rec)
}

func TestReset(t *testing.T) {
	tests := []struct {
		name string
		mode int
	}{
		{name: "curtain down", mode: options.ModeOn},
		{name: "curtain up", mode: options.ModeOff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := setupPlugin(t)

			rec, err := p.Options()
			require.NoError(t, err)

			rec.Mode = tt.mode
			rec.Heading = "Back at noon"
			rec.Background = "#000000"

			_, err = options.Update(p.DB(), rec)
			require.NoError(t, err)
			require.NoError(t, capability.Replace(p.DB(), []string{"author"}))

			need, err := p.NeedReset()
			require.NoError(t, err)
			assert.True(t, need)

			require.NoError(t, p.Reset())

			rec, err = p.Options()
			require.NoError(t, err)
			assert.Equal(t, p.Defaults().Scalars(), rec.Scalars())
			assert.Equal(t, tt.mode, rec.Mode)

			granted, err := capability.Granted(p.DB())
			require.NoError(t, err)
			assert.Equal(t, []string{"administrator", "editor"}, granted)

			need, err = p.NeedReset()
			require.NoError(t, err)
			assert.False(t, need)
		})
	}
}

func TestNeedReset(t *testing.T) {
	p := setupPlugin(t)

	need, err := p.NeedReset()
	require.NoError(t, err)
	assert.False(t, need, "fresh activation")

	_, err = p.SetMode(options.ModeOn)
	require.NoError(t, err)

	need, err = p.NeedReset()
	require.NoError(t, err)
	assert.False(t, need, "mode is not compared")

	require.NoError(t, capability.Replace(p.DB(), []string{"editor"}))

	need, err = p.NeedReset()
	require.NoError(t, err)
	assert.True(t, need, "grants differ")
}

func TestThemeBackground(t *testing.T) {
	p := New(setupPlugin(t).DB(), "1e73be")
	assert.Equal(t, "#1e73be", p.Defaults().Background)
}
