// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package api4

import (
	"net/http"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/mattermost/go-i18n/i18n"

	"github.com/sitechat/server/v5/app"
	"github.com/sitechat/server/v5/mlog"
	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/utils"
)

type Context struct {
	App       *app.Server
	Log       *mlog.Logger
	Params    *Params
	Err       *model.AppError
	T         i18n.TranslateFunc
	RequestId string
	IpAddress string
	Path      string
}

type handler struct {
	app         *app.Server
	handleFunc  func(*Context, http.ResponseWriter, *http.Request)
	handlerName string
}

// ApiHandler wraps a handler func with context construction and error
// rendering. Authentication happens upstream; the site and user ids
// arrive as routed values.
func (api *API) ApiHandler(h func(*Context, http.ResponseWriter, *http.Request)) http.Handler {
	return &handler{
		app:         api.App,
		handleFunc:  h,
		handlerName: getHandlerName(h),
	}
}

func getHandlerName(h func(*Context, http.ResponseWriter, *http.Request)) string {
	handlerName := runtime.FuncForPC(reflect.ValueOf(h).Pointer()).Name()
	pos := strings.LastIndex(handlerName, ".")
	if pos != -1 && len(handlerName) > pos {
		handlerName = handlerName[pos+1:]
	}
	return handlerName
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	c := &Context{
		App:       h.app,
		Log:       h.app.Log,
		RequestId: model.NewId(),
		IpAddress: r.RemoteAddr,
		Path:      r.URL.Path,
	}
	c.T, _ = utils.GetTranslationsAndLocale(r)
	c.Params = ParamsFromRequest(r)

	w.Header().Set(model.HEADER_REQUEST_ID, c.RequestId)
	w.Header().Set("Content-Type", "application/json")

	if c.Err == nil {
		h.handleFunc(c, w, r)
	}

	if c.Err != nil {
		c.Err.Translate(c.T)
		c.Err.RequestId = c.RequestId

		if c.Err.Id == "api.context.permissions.app_error" {
			c.LogAudit("attempt")
		}

		w.WriteHeader(c.Err.StatusCode)
		w.Write([]byte(c.Err.ToJson()))

		c.Log.Debug(
			"Request error",
			mlog.String("err_where", c.Err.Where),
			mlog.Int("http_code", c.Err.StatusCode),
			mlog.String("err_details", c.Err.DetailedError),
			mlog.String("path", c.Path),
		)
	}

	if h.app.Metrics != nil {
		h.app.Metrics.ObserveApiEndpointDuration(h.handlerName, r.Method, time.Since(now).Seconds())
	}
}

func (c *Context) LogAudit(extraInfo string) {
	c.Log.Info("audit", mlog.String("ip_address", c.IpAddress), mlog.String("path", c.Path), mlog.String("extra_info", extraInfo))
}

func (c *Context) SetInvalidParam(parameter string) {
	c.Err = NewInvalidParamError(parameter)
}

func NewInvalidParamError(parameter string) *model.AppError {
	err := model.NewAppError("Context", "api.context.invalid_param.app_error", map[string]interface{}{"Name": parameter}, "", http.StatusBadRequest)
	return err
}

func (c *Context) RequireSiteId() *Context {
	if c.Err != nil {
		return c
	}

	if !model.IsValidId(c.Params.SiteId) {
		c.SetInvalidParam("site_id")
	}
	return c
}

func (c *Context) RequireUserId() *Context {
	if c.Err != nil {
		return c
	}

	if !model.IsValidId(c.Params.UserId) {
		c.SetInvalidParam("user_id")
	}
	return c
}

func (c *Context) RequireRoomId() *Context {
	if c.Err != nil {
		return c
	}

	if !model.IsValidId(c.Params.RoomId) {
		c.SetInvalidParam("room_id")
	}
	return c
}

func ReturnStatusOK(w http.ResponseWriter) {
	m := make(map[string]string)
	m[model.STATUS] = model.STATUS_OK
	w.Write([]byte(model.MapToJson(m)))
}
