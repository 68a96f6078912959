// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package app

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/sitechat/server/v5/model"
)

const CONFIG_FILE_DEFAULT = "config.json"

// FindConfigFile resolves fileName against the usual config locations.
// An absolute path is used as is.
func FindConfigFile(fileName string) string {
	if filepath.IsAbs(fileName) {
		if _, err := os.Stat(fileName); err == nil {
			return fileName
		}
		return ""
	}

	for _, dir := range []string{"config", "../config", "../../config", "."} {
		path, err := filepath.Abs(filepath.Join(dir, fileName))
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

func LoadConfig(fileName string) (*model.Config, error) {
	if fileName == "" {
		fileName = CONFIG_FILE_DEFAULT
	}

	configPath := FindConfigFile(fileName)
	if configPath == "" {
		// No file on disk; run on defaults. Deployments that need more
		// than the defaults ship a config/config.json.
		cfg := &model.Config{}
		cfg.SetDefaults()
		if appErr := cfg.IsValid(); appErr != nil {
			return nil, errors.New(appErr.Error())
		}
		return cfg, nil
	}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open config file %s", configPath)
	}
	defer file.Close()

	cfg := model.ConfigFromJson(file)
	if cfg == nil {
		return nil, errors.Errorf("failed to parse config file %s", configPath)
	}

	cfg.SetDefaults()
	if appErr := cfg.IsValid(); appErr != nil {
		return nil, errors.New(appErr.Error())
	}

	return cfg, nil
}
