// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package sqlstore

import (
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitechat/server/v5/model"
)

func TestIsUniqueConstraintError(t *testing.T) {
	mysqlErr := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'siteid-userid' for key 'PRIMARY'"}
	assert.True(t, IsUniqueConstraintError(mysqlErr, []string{"PRIMARY"}))
	assert.False(t, IsUniqueConstraintError(mysqlErr, []string{"idx_rooms_site_id"}))

	pqErr := &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint \"roommembers_pkey\"", Constraint: "roommembers_pkey"}
	assert.True(t, IsUniqueConstraintError(pqErr, []string{"roommembers_pkey"}))

	assert.False(t, IsUniqueConstraintError(errors.New("connection refused"), []string{"PRIMARY"}))
}

func TestConverterStringMapRoundTrip(t *testing.T) {
	converter := sitechatConverter{}

	data := model.StringMap{"room_id": "r1", "inviter_id": "u1"}
	dbValue, err := converter.ToDb(data)
	require.NoError(t, err)

	serialized, ok := dbValue.(string)
	require.True(t, ok)

	var restored model.StringMap
	scanner, handled := converter.FromDb(&restored)
	require.True(t, handled)

	holder := scanner.Holder.(*string)
	*holder = serialized
	require.NoError(t, scanner.Binder(holder, &restored))
	assert.Equal(t, data, restored)
}

func TestConverterEmptyStringMap(t *testing.T) {
	converter := sitechatConverter{}

	var restored model.StringMap
	scanner, handled := converter.FromDb(&restored)
	require.True(t, handled)

	holder := scanner.Holder.(*string)
	*holder = ""
	require.NoError(t, scanner.Binder(holder, &restored))
	assert.Nil(t, restored)
}
