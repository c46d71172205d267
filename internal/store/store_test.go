package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmsas95/caretrack/internal/config"
)

func TestNewAndClose(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.DataDir = t.TempDir()
	cfg.Storage.SQLitePath = filepath.Join(cfg.Storage.DataDir, "test.db")

	st, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, st.DB())

	assert.NoError(t, st.Close())
}

func TestNew_DefaultsPathToDataDir(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.DataDir = t.TempDir()

	st, err := New(cfg)
	require.NoError(t, err)
	defer st.Close()

	// A write must actually hit the file under the data dir.
	type row struct {
		ID   string `gorm:"primaryKey"`
		Name string
	}
	require.NoError(t, st.DB().AutoMigrate(&row{}))
	require.NoError(t, st.DB().Create(&row{ID: "1", Name: "x"}).Error)

	var got row
	require.NoError(t, st.DB().First(&got, "id = ?", "1").Error)
	assert.Equal(t, "x", got.Name)
}
