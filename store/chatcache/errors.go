// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package chatcache

import (
	"net/http"

	"github.com/sitechat/server/v5/model"
)

// toAppError recovers the typed store error a generic cache loader had to
// smuggle through the plain error interface.
func toAppError(where string, err error) *model.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*model.AppError); ok {
		return appErr
	}
	return model.NewAppError(where, "chatcache.store.app_error", nil, err.Error(), http.StatusInternalServerError)
}
