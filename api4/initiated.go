// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package api4

import (
	"net/http"

	"github.com/sitechat/server/v5/model"
)

func (api *API) InitInitiated() {
	api.BaseRoutes.Initiated.Handle("", api.ApiHandler(getInitiatedChat)).Methods("GET")
	api.BaseRoutes.Initiated.Handle("", api.ApiHandler(initiateChat)).Methods("POST")
	api.BaseRoutes.Initiated.Handle("/{request_id:[A-Za-z0-9]+}", api.ApiHandler(closeInitiatedChat)).Methods("DELETE")
}

// getInitiatedChat looks the poller up as a contact first and as an
// account second. 304 means no pending request newer than since.
func getInitiatedChat(c *Context, w http.ResponseWriter, r *http.Request) {
	if c.Params.ContactId == "" && c.Params.UserId == "" {
		c.SetInvalidParam("contact_id")
		return
	}

	request, appErr := c.App.ChatCache.GetInitiatedChatRequest(c.Params.ContactId, c.Params.UserId, c.Params.Since)
	if appErr != nil {
		c.Err = appErr
		return
	}

	if request == nil {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Write([]byte(request.ToJson()))
}

func initiateChat(c *Context, w http.ResponseWriter, r *http.Request) {
	props := model.MapFromJson(r.Body)

	siteId := props["site_id"]
	contactId := props["contact_id"]
	userId := props["user_id"]
	if !model.IsValidId(siteId) {
		c.SetInvalidParam("site_id")
		return
	}
	if !model.IsValidId(contactId) {
		c.SetInvalidParam("contact_id")
		return
	}
	if !model.IsValidId(userId) {
		c.SetInvalidParam("user_id")
		return
	}

	request, appErr := c.App.InitiateChat(siteId, contactId, userId)
	if appErr != nil {
		c.Err = appErr
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(request.ToJson()))
}

func closeInitiatedChat(c *Context, w http.ResponseWriter, r *http.Request) {
	if !model.IsValidId(c.Params.RequestId) {
		c.SetInvalidParam("request_id")
		return
	}

	if appErr := c.App.CloseInitiatedChat(c.Params.SiteId, c.Params.RequestId); appErr != nil {
		c.Err = appErr
		return
	}

	ReturnStatusOK(w)
}
