// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package api4

import (
	"net/http"
	"strconv"

	"github.com/sitechat/server/v5/model"
)

func (api *API) InitUser() {
	api.BaseRoutes.Users.Handle("/online", api.ApiHandler(getOnlineUsers)).Methods("GET")
	api.BaseRoutes.Users.Handle("/online", api.ApiHandler(setUserOnline)).Methods("POST")
	api.BaseRoutes.Users.Handle("/search", api.ApiHandler(searchOnlineUsers)).Methods("GET")
	api.BaseRoutes.User.Handle("/online", api.ApiHandler(isUserOnline)).Methods("GET")
	api.BaseRoutes.User.Handle("/online", api.ApiHandler(setUserOffline)).Methods("DELETE")
	api.BaseRoutes.User.Handle("/notifications", api.ApiHandler(getNotifications)).Methods("GET")
}

func getOnlineUsers(c *Context, w http.ResponseWriter, r *http.Request) {
	if c.RequireSiteId(); c.Err != nil {
		return
	}

	view, hasData, appErr := c.App.ChatCache.ForSite(c.Params.SiteId).OnlineUsers.GetOnlineUsers(c.Params.Since)
	if appErr != nil {
		c.Err = appErr
		return
	}

	if !hasData {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Write([]byte(view.ToJson()))
}

func setUserOnline(c *Context, w http.ResponseWriter, r *http.Request) {
	if c.RequireSiteId(); c.Err != nil {
		return
	}

	user := model.OnlineUserFromJson(r.Body)
	if user == nil || !model.IsValidId(user.UserId) {
		c.SetInvalidParam("online_user")
		return
	}

	user, appErr := c.App.SetUserOnline(c.Params.SiteId, user)
	if appErr != nil {
		c.Err = appErr
		return
	}

	w.Write([]byte(user.ToJson()))
}

func setUserOffline(c *Context, w http.ResponseWriter, r *http.Request) {
	if c.RequireSiteId().RequireUserId(); c.Err != nil {
		return
	}

	if appErr := c.App.SetUserOffline(c.Params.SiteId, c.Params.UserId); appErr != nil {
		c.Err = appErr
		return
	}

	ReturnStatusOK(w)
}

func searchOnlineUsers(c *Context, w http.ResponseWriter, r *http.Request) {
	if c.RequireSiteId(); c.Err != nil {
		return
	}

	if c.Params.Term == "" {
		c.SetInvalidParam("term")
		return
	}

	invitedToRoomId := r.URL.Query().Get("invited_to")

	users, appErr := c.App.ChatCache.ForSite(c.Params.SiteId).OnlineUsers.SearchOnlineUsers(c.Params.Term, c.Params.PerPage, invitedToRoomId)
	if appErr != nil {
		c.Err = appErr
		return
	}

	w.Write([]byte(model.OnlineUserListToJson(users)))
}

func isUserOnline(c *Context, w http.ResponseWriter, r *http.Request) {
	if c.RequireSiteId().RequireUserId(); c.Err != nil {
		return
	}

	online, appErr := c.App.ChatCache.ForSite(c.Params.SiteId).OnlineUsers.IsUserOnline(c.Params.UserId)
	if appErr != nil {
		c.Err = appErr
		return
	}

	w.Write([]byte(model.MapToJson(map[string]string{"user_id": c.Params.UserId, "online": strconv.FormatBool(online)})))
}

func getNotifications(c *Context, w http.ResponseWriter, r *http.Request) {
	if c.RequireSiteId().RequireUserId(); c.Err != nil {
		return
	}

	var since int64
	if c.Params.Since != nil {
		since = *c.Params.Since
	}

	notifications, hasData, appErr := c.App.ChatCache.ForSite(c.Params.SiteId).OnlineUsers.GetNotifications(c.Params.UserId, since)
	if appErr != nil {
		c.Err = appErr
		return
	}

	if !hasData {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Write([]byte(model.NotificationListToJson(notifications)))
}
