// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package api4

import (
	"net/http"

	"github.com/sitechat/server/v5/model"
)

func (api *API) InitRoom() {
	api.BaseRoutes.Rooms.Handle("", api.ApiHandler(getRooms)).Methods("GET")
	api.BaseRoutes.Room.Handle("", api.ApiHandler(getRoom)).Methods("GET")
	api.BaseRoutes.Room.Handle("", api.ApiHandler(deleteRoom)).Methods("DELETE")
	api.BaseRoutes.Room.Handle("/messages", api.ApiHandler(postChatMessage)).Methods("POST")
	api.BaseRoutes.Room.Handle("/kick/{user_id:[A-Za-z0-9]+}", api.ApiHandler(kickUser)).Methods("POST")
}

// getRooms serves the polling loop. Without a user_id the caller gets
// the anonymous view; 304 means nothing changed since the echoed mark.
func getRooms(c *Context, w http.ResponseWriter, r *http.Request) {
	if c.RequireSiteId(); c.Err != nil {
		return
	}

	rooms := c.App.ChatCache.ForSite(c.Params.SiteId).Rooms

	var view *model.RoomsView
	var hasData bool
	var appErr *model.AppError

	if c.Params.UserId == "" {
		view, hasData, appErr = rooms.GetChangedRoomsForAnonymous(c.Params.Since)
	} else {
		view, hasData, appErr = rooms.GetChangedRooms(c.Params.UserId, c.Params.Anonymous, c.Params.Since)
	}

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

func getRoom(c *Context, w http.ResponseWriter, r *http.Request) {
	if c.RequireSiteId().RequireRoomId(); c.Err != nil {
		return
	}

	room, appErr := c.App.ChatCache.ForSite(c.Params.SiteId).Rooms.ForceTryGetRoom(c.Params.RoomId)
	if appErr != nil {
		c.Err = appErr
		return
	}

	if room == nil {
		c.Err = model.NewAppError("getRoom", "api.room.get_room.not_found.app_error", nil, "roomId="+c.Params.RoomId, http.StatusNotFound)
		return
	}

	w.Write([]byte(room.ToJson()))
}

func deleteRoom(c *Context, w http.ResponseWriter, r *http.Request) {
	if c.RequireSiteId().RequireRoomId(); c.Err != nil {
		return
	}

	if appErr := c.App.DeleteRoom(c.Params.SiteId, c.Params.RoomId); appErr != nil {
		c.Err = appErr
		return
	}

	c.LogAudit("room=" + c.Params.RoomId)
	ReturnStatusOK(w)
}

func postChatMessage(c *Context, w http.ResponseWriter, r *http.Request) {
	if c.RequireSiteId().RequireRoomId(); c.Err != nil {
		return
	}

	message := model.ChatMessageFromJson(r.Body)
	if message == nil {
		c.SetInvalidParam("message")
		return
	}

	saved, appErr := c.App.PostChatMessage(c.Params.SiteId, message.UserId, c.Params.RoomId, message.Message)
	if appErr != nil {
		c.Err = appErr
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(saved.ToJson()))
}

func kickUser(c *Context, w http.ResponseWriter, r *http.Request) {
	if c.RequireSiteId().RequireRoomId().RequireUserId(); c.Err != nil {
		return
	}

	props := model.StringInterfaceFromJson(r.Body)
	seconds, _ := props["duration_seconds"].(float64)
	if seconds <= 0 {
		c.SetInvalidParam("duration_seconds")
		return
	}

	if appErr := c.App.KickUser(c.Params.SiteId, c.Params.UserId, c.Params.RoomId, int(seconds)); appErr != nil {
		c.Err = appErr
		return
	}

	c.LogAudit("user=" + c.Params.UserId + " room=" + c.Params.RoomId)
	ReturnStatusOK(w)
}
