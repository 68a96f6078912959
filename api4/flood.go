// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package api4

import (
	"net/http"

	"github.com/sitechat/server/v5/model"
)

func (api *API) InitFlood() {
	api.BaseRoutes.Flood.Handle("/{operation:[a-z_]+}", api.ApiHandler(checkFloodOperation)).Methods("POST")
}

// checkFloodOperation consumes a protection slot: calling it restarts
// the caller's window for the operation whether or not it is allowed.
func checkFloodOperation(c *Context, w http.ResponseWriter, r *http.Request) {
	if c.RequireUserId(); c.Err != nil {
		return
	}

	if !c.App.ChatCache.CheckFloodOperation(c.Params.UserId, c.Params.Operation) {
		c.Err = model.NewAppError("checkFloodOperation", "api.flood.check.rejected.app_error", map[string]interface{}{"Operation": c.Params.Operation}, "userId="+c.Params.UserId, http.StatusTooManyRequests)
		return
	}

	ReturnStatusOK(w)
}
