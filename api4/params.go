// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package api4

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

const (
	PER_PAGE_DEFAULT = 10
	PER_PAGE_MAXIMUM = 100
)

type Params struct {
	SiteId    string
	UserId    string
	RoomId    string
	ContactId string
	RequestId string
	Operation string
	Term      string
	Anonymous bool
	// Since is nil on a client's first poll and carries the echoed
	// high-water mark afterwards.
	Since   *int64
	PerPage int
}

func ParamsFromRequest(r *http.Request) *Params {
	params := &Params{}

	props := mux.Vars(r)
	query := r.URL.Query()

	if val, ok := props["site_id"]; ok {
		params.SiteId = val
	} else {
		params.SiteId = query.Get("site_id")
	}

	if val, ok := props["user_id"]; ok {
		params.UserId = val
	} else {
		params.UserId = query.Get("user_id")
	}

	if val, ok := props["room_id"]; ok {
		params.RoomId = val
	}

	if val, ok := props["request_id"]; ok {
		params.RequestId = val
	}

	if val, ok := props["operation"]; ok {
		params.Operation = val
	}

	params.ContactId = query.Get("contact_id")
	params.Term = query.Get("term")
	params.Anonymous, _ = strconv.ParseBool(query.Get("anonymous"))

	if val := query.Get("since"); val != "" {
		if since, err := strconv.ParseInt(val, 10, 64); err == nil {
			params.Since = &since
		}
	}

	if val, err := strconv.Atoi(query.Get("per_page")); err != nil || val < 0 {
		params.PerPage = PER_PAGE_DEFAULT
	} else if val > PER_PAGE_MAXIMUM {
		params.PerPage = PER_PAGE_MAXIMUM
	} else {
		params.PerPage = val
	}

	return params
}
