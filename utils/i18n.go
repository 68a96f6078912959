// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package utils

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattermost/go-i18n/i18n"

	"github.com/sitechat/server/v5/mlog"
	"github.com/sitechat/server/v5/model"
)

// T is the process-wide translation function installed by
// TranslationsPreInit. Translation files live in the i18n directory next
// to the binary.
var T i18n.TranslateFunc
var TDefault i18n.TranslateFunc
var locales map[string]string = make(map[string]string)

func TranslationsPreInit() error {
	if T != nil {
		return nil
	}

	// Set T before loading any files, so early error paths can still
	// produce a message.
	T = TfuncWithFallback(model.DEFAULT_LOCALE)
	TDefault = TfuncWithFallback(model.DEFAULT_LOCALE)

	return initTranslationsWithDir("i18n")
}

func initTranslationsWithDir(dir string) error {
	i18nDirectory, found := FindDir(dir)
	if !found {
		return fmt.Errorf("unable to find i18n directory")
	}

	files, _ := os.ReadDir(i18nDirectory)
	for _, f := range files {
		if filepath.Ext(f.Name()) == ".json" {
			filename := f.Name()
			locales[strings.Split(filename, ".")[0]] = filepath.Join(i18nDirectory, filename)

			if err := i18n.LoadTranslationFile(filepath.Join(i18nDirectory, filename)); err != nil {
				return err
			}
		}
	}

	return nil
}

func GetTranslationsBySystemLocale(locale string) (i18n.TranslateFunc, error) {
	if _, ok := locales[locale]; !ok {
		mlog.Warn("Failed to load system translations for locale, defaulting", mlog.String("locale", locale), mlog.String("default", model.DEFAULT_LOCALE))
		locale = model.DEFAULT_LOCALE
	}

	if locales[locale] == "" {
		return nil, fmt.Errorf("failed to load system translations for '%v'", model.DEFAULT_LOCALE)
	}

	translations := TfuncWithFallback(locale)
	if translations == nil {
		return nil, fmt.Errorf("failed to load system translations")
	}

	return translations, nil
}

func GetUserTranslations(locale string) i18n.TranslateFunc {
	if _, ok := locales[locale]; !ok {
		locale = model.DEFAULT_LOCALE
	}

	return TfuncWithFallback(locale)
}

func GetTranslationsAndLocale(r *http.Request) (i18n.TranslateFunc, string) {
	// Mirror the client's negotiated language when we carry it, fall
	// back to the Accept-Language header otherwise.
	headerLocaleFull := strings.Split(r.Header.Get("Accept-Language"), ",")[0]
	headerLocale := strings.Split(strings.Split(headerLocaleFull, ",")[0], "-")[0]
	if locales[headerLocaleFull] != "" {
		return TfuncWithFallback(headerLocaleFull), headerLocaleFull
	} else if locales[headerLocale] != "" {
		return TfuncWithFallback(headerLocale), headerLocale
	}

	return TfuncWithFallback(model.DEFAULT_LOCALE), model.DEFAULT_LOCALE
}

func TfuncWithFallback(pref string) i18n.TranslateFunc {
	t, _ := i18n.Tfunc(pref)
	return func(translationID string, args ...interface{}) string {
		if translated := t(translationID, args...); translated != translationID {
			return translated
		}

		t, _ := i18n.Tfunc(model.DEFAULT_LOCALE)
		return t(translationID, args...)
	}
}

// FindDir looks for the given directory in nearby ancestors relative to
// the current working directory as well as the directory of the
// executable, falling back to `./` if not found.
func FindDir(dir string) (string, bool) {
	commonBaseSearchPaths := []string{
		".",
		"..",
		"../..",
		"../../..",
	}

	found := fileutilsFindPath(dir, commonBaseSearchPaths)
	if found == "" {
		return "./", false
	}

	return found, true
}

func fileutilsFindPath(path string, baseSearchPaths []string) string {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		return ""
	}

	searchPaths := []string{}
	searchPaths = append(searchPaths, baseSearchPaths...)

	// Additionally attempt to search relative to the location of the
	// running binary.
	var binaryDir string
	if exe, err := os.Executable(); err == nil {
		if exe, err = filepath.EvalSymlinks(exe); err == nil {
			if exe, err = filepath.Abs(exe); err == nil {
				binaryDir = filepath.Dir(exe)
			}
		}
	}
	if binaryDir != "" {
		searchPaths = append(searchPaths, binaryDir, filepath.Join(binaryDir, ".."))
	}

	for _, parent := range searchPaths {
		found, err := filepath.Abs(filepath.Join(parent, path))
		if err != nil {
			continue
		} else if fileInfo, err := os.Stat(found); err == nil {
			if fileInfo.IsDir() {
				return found
			}
		}
	}

	return ""
}
