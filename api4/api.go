// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package api4

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sitechat/server/v5/app"
	"github.com/sitechat/server/v5/model"
)

type Routes struct {
	Root    *mux.Router // ''
	ApiRoot *mux.Router // 'api/v4'

	Chat *mux.Router // 'api/v4/chat'

	Rooms *mux.Router // 'api/v4/chat/sites/{site_id:[A-Za-z0-9]+}/rooms'
	Room  *mux.Router // 'api/v4/chat/sites/{site_id:[A-Za-z0-9]+}/rooms/{room_id:[A-Za-z0-9]+}'

	Users *mux.Router // 'api/v4/chat/sites/{site_id:[A-Za-z0-9]+}/users'
	User  *mux.Router // 'api/v4/chat/sites/{site_id:[A-Za-z0-9]+}/users/{user_id:[A-Za-z0-9]+}'

	Support *mux.Router // 'api/v4/chat/sites/{site_id:[A-Za-z0-9]+}/support'

	Initiated *mux.Router // 'api/v4/chat/initiated'
	Kicked    *mux.Router // 'api/v4/chat/kicked'
	Flood     *mux.Router // 'api/v4/chat/flood'

	System *mux.Router // 'api/v4/system'
}

type API struct {
	App        *app.Server
	BaseRoutes *Routes
}

func Init(s *app.Server, root *mux.Router) *API {
	api := &API{
		App:        s,
		BaseRoutes: &Routes{},
	}

	api.BaseRoutes.Root = root
	api.BaseRoutes.ApiRoot = root.PathPrefix(model.API_URL_SUFFIX).Subrouter()

	api.BaseRoutes.Chat = api.BaseRoutes.ApiRoot.PathPrefix("/chat").Subrouter()

	site := api.BaseRoutes.Chat.PathPrefix("/sites/{site_id:[A-Za-z0-9]+}").Subrouter()
	api.BaseRoutes.Rooms = site.PathPrefix("/rooms").Subrouter()
	api.BaseRoutes.Room = api.BaseRoutes.Rooms.PathPrefix("/{room_id:[A-Za-z0-9]+}").Subrouter()
	api.BaseRoutes.Users = site.PathPrefix("/users").Subrouter()
	api.BaseRoutes.User = api.BaseRoutes.Users.PathPrefix("/{user_id:[A-Za-z0-9]+}").Subrouter()
	api.BaseRoutes.Support = site.PathPrefix("/support").Subrouter()

	api.BaseRoutes.Initiated = api.BaseRoutes.Chat.PathPrefix("/initiated").Subrouter()
	api.BaseRoutes.Kicked = api.BaseRoutes.Chat.PathPrefix("/kicked").Subrouter()
	api.BaseRoutes.Flood = api.BaseRoutes.Chat.PathPrefix("/flood").Subrouter()

	api.BaseRoutes.System = api.BaseRoutes.ApiRoot.PathPrefix("/system").Subrouter()

	api.InitRoom()
	api.InitUser()
	api.InitSupport()
	api.InitInitiated()
	api.InitKicked()
	api.InitFlood()
	api.InitSystem()

	root.Handle("/api/v4/{anything:.*}", http.HandlerFunc(api.Handle404))

	return api
}

func (api *API) Handle404(w http.ResponseWriter, r *http.Request) {
	err := model.NewAppError("Handle404", "api.context.404.app_error", nil, "path="+r.URL.Path, http.StatusNotFound)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	w.Write([]byte(err.ToJson()))
}
