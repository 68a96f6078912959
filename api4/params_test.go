// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package api4

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v4/chat/rooms?site_id=site1&user_id=user1&since=12345&anonymous=true&term=joe&per_page=25", nil)

	params := ParamsFromRequest(r)

	assert.Equal(t, "site1", params.SiteId)
	assert.Equal(t, "user1", params.UserId)
	assert.True(t, params.Anonymous)
	assert.Equal(t, "joe", params.Term)
	assert.Equal(t, 25, params.PerPage)
	require.NotNil(t, params.Since)
	assert.Equal(t, int64(12345), *params.Since)
}

func TestParamsFromRequestFirstPoll(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v4/chat/rooms?site_id=site1", nil)

	params := ParamsFromRequest(r)

	// A first poll carries no since mark at all.
	assert.Nil(t, params.Since)
	assert.False(t, params.Anonymous)
	assert.Equal(t, "", params.UserId)
	assert.Equal(t, PER_PAGE_DEFAULT, params.PerPage)
}

func TestParamsFromRequestPerPageBounds(t *testing.T) {
	r := httptest.NewRequest("GET", "/?per_page=5000", nil)
	assert.Equal(t, PER_PAGE_MAXIMUM, ParamsFromRequest(r).PerPage)

	r = httptest.NewRequest("GET", "/?per_page=-1", nil)
	assert.Equal(t, PER_PAGE_DEFAULT, ParamsFromRequest(r).PerPage)

	r = httptest.NewRequest("GET", "/?per_page=junk", nil)
	assert.Equal(t, PER_PAGE_DEFAULT, ParamsFromRequest(r).PerPage)
}

func TestParamsFromRequestSinceZeroIsEcho(t *testing.T) {
	r := httptest.NewRequest("GET", "/?since=0", nil)

	params := ParamsFromRequest(r)

	// since=0 is an explicit mark, distinct from a missing one.
	require.NotNil(t, params.Since)
	assert.Equal(t, int64(0), *params.Since)
}
