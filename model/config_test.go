// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	require.Nil(t, cfg.IsValid())
	assert.Equal(t, DATABASE_DRIVER_MYSQL, *cfg.SqlSettings.DriverName)
	assert.Equal(t, 15, *cfg.ChatSettings.ClientPingIntervalSeconds)

	// Derived so one missed ping makes a silent user visible as offline.
	assert.Equal(t, 6, *cfg.ChatSettings.OnlineUsersCacheSeconds)
	assert.Equal(t, 6, *cfg.ChatSettings.InitiatedChatsCacheSeconds)
}

func TestConfigIsValidOnlineCacheBound(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	*cfg.ChatSettings.OnlineUsersCacheSeconds = 8
	appErr := cfg.IsValid()
	require.NotNil(t, appErr)
	assert.Equal(t, "model.config.is_valid.chat_online_cache.app_error", appErr.Id)

	*cfg.ChatSettings.OnlineUsersCacheSeconds = 7
	require.Nil(t, cfg.IsValid())
}

func TestConfigIsValidSqlDriver(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	*cfg.SqlSettings.DriverName = "sqlite3"
	appErr := cfg.IsValid()
	require.NotNil(t, appErr)
	assert.Equal(t, "model.config.is_valid.sql_driver.app_error", appErr.Id)
}

func TestFloodSettingsIntervalSeconds(t *testing.T) {
	settings := FloodSettings{}
	settings.SetDefaults()

	assert.Equal(t, 1.0, settings.IntervalSeconds(FLOOD_OP_MESSAGE))
	assert.Equal(t, 10.0, settings.IntervalSeconds(FLOOD_OP_INITIATE_CHAT))

	// Unknown operations are unprotected.
	assert.Equal(t, 0.0, settings.IntervalSeconds("unknown_operation"))
}
