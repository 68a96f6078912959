// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package api4

import (
	"net/http"

	"github.com/sitechat/server/v5/model"
)

func (api *API) InitSupport() {
	api.BaseRoutes.Support.Handle("/online", api.ApiHandler(getOnlineSupport)).Methods("GET")
}

func getOnlineSupport(c *Context, w http.ResponseWriter, r *http.Request) {
	if c.RequireSiteId(); c.Err != nil {
		return
	}

	userIds, appErr := c.App.ChatCache.ForSite(c.Params.SiteId).Support.GetOnlineSupportUserIds()
	if appErr != nil {
		c.Err = appErr
		return
	}

	w.Write([]byte(model.ArrayToJson(userIds)))
}
