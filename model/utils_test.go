// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package model

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewId(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := NewId()
		require.Len(t, id, 26)
		require.True(t, IsValidId(id))
	}
}

func TestIsValidId(t *testing.T) {
	assert.True(t, IsValidId(NewId()))
	assert.False(t, IsValidId(""))
	assert.False(t, IsValidId("junk"))
	assert.False(t, IsValidId(strings.Repeat("0", 26)))
	assert.False(t, IsValidId(NewId()+"a"))
}

func TestAppErrorRoundTrip(t *testing.T) {
	appErr := NewAppError("TestAppError", "model.test.app_error", map[string]interface{}{"Name": "test"}, "details", http.StatusBadRequest)

	rerr := AppErrorFromJson(strings.NewReader(appErr.ToJson()))
	require.NotNil(t, rerr)
	assert.Equal(t, appErr.Id, rerr.Id)
	assert.Equal(t, appErr.StatusCode, rerr.StatusCode)
	assert.Equal(t, appErr.DetailedError, rerr.DetailedError)
}

func TestAppErrorTranslateWithoutFunc(t *testing.T) {
	appErr := NewAppError("TestAppError", "model.test.app_error", nil, "", http.StatusBadRequest)
	appErr.Translate(nil)

	// Without translations the id doubles as the message.
	assert.Equal(t, "model.test.app_error", appErr.Message)
}

func TestMapJson(t *testing.T) {
	m := map[string]string{"id": "id", "follow_id": "fid"}

	rm := MapFromJson(strings.NewReader(MapToJson(m)))
	assert.Equal(t, m, rm)

	rm = MapFromJson(strings.NewReader(""))
	assert.Len(t, rm, 0)
}
