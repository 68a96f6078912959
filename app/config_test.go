// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitechat/server/v5/model"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("does_not_exist.json")
	require.NoError(t, err)

	assert.Equal(t, model.SERVICE_SETTINGS_DEFAULT_LISTEN_ADDRESS, *cfg.ServiceSettings.ListenAddress)
	assert.Equal(t, model.DATABASE_DRIVER_MYSQL, *cfg.SqlSettings.DriverName)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := &model.Config{}
	cfg.SetDefaults()
	*cfg.ServiceSettings.ListenAddress = ":9099"
	*cfg.ChatSettings.KickedUsersCacheSeconds = 5
	require.NoError(t, os.WriteFile(path, []byte(cfg.ToJson()), 0600))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9099", *loaded.ServiceSettings.ListenAddress)
	assert.Equal(t, 5, *loaded.ChatSettings.KickedUsersCacheSeconds)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := &model.Config{}
	cfg.SetDefaults()
	*cfg.SqlSettings.DriverName = "oracle"
	require.NoError(t, os.WriteFile(path, []byte(cfg.ToJson()), 0600))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestFindConfigFileAbsolute(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0600))

	assert.Equal(t, path, FindConfigFile(path))
	assert.Equal(t, "", FindConfigFile(filepath.Join(dir, "missing.json")))
}
