// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package api4

import (
	"net/http"

	"github.com/sitechat/server/v5/model"
)

func (api *API) InitKicked() {
	api.BaseRoutes.Kicked.Handle("/{user_id:[A-Za-z0-9]+}", api.ApiHandler(getKickedStatus)).Methods("GET")
}

func getKickedStatus(c *Context, w http.ResponseWriter, r *http.Request) {
	if c.RequireUserId(); c.Err != nil {
		return
	}

	kicked, secondsLeft, appErr := c.App.ChatCache.IsKicked(c.Params.UserId)
	if appErr != nil {
		c.Err = appErr
		return
	}

	status := &model.KickedStatus{
		Kicked:      kicked,
		SecondsLeft: secondsLeft,
	}
	w.Write([]byte(status.ToJson()))
}
