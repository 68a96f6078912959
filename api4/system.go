// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package api4

import (
	"net/http"

	"github.com/sitechat/server/v5/model"
)

func (api *API) InitSystem() {
	api.BaseRoutes.System.Handle("/ping", api.ApiHandler(getSystemPing)).Methods("GET")
}

func getSystemPing(c *Context, w http.ResponseWriter, r *http.Request) {
	s := make(map[string]string)
	s[model.STATUS] = model.STATUS_OK

	// The database round trip doubles as a health probe for the store
	// clock the cache layer depends on.
	if _, appErr := c.App.Store.System().Now(); appErr != nil {
		s[model.STATUS] = "UNHEALTHY"
		w.WriteHeader(http.StatusInternalServerError)
	}

	w.Write([]byte(model.MapToJson(s)))
}
