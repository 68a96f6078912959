// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package sqlstore

import (
	"context"
	dbsql "database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattermost/gorp"
	"github.com/pkg/errors"

	"github.com/sitechat/server/v5/einterfaces"
	"github.com/sitechat/server/v5/mlog"
	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/store"
)

const (
	DB_PING_ATTEMPTS     = 18
	DB_PING_TIMEOUT_SECS = 10

	EXIT_DB_OPEN = 101
	EXIT_PING    = 102
)

type SqlSupplierStores struct {
	room            store.RoomStore
	onlineUser      store.OnlineUserStore
	initiateRequest store.InitiateRequestStore
	chatMessage     store.ChatMessageStore
	kickedUser      store.KickedUserStore
	notification    store.NotificationStore
	support         store.SupportStore
	rights          store.RightsStore
	system          store.SystemStore
}

type SqlSupplier struct {
	settings *model.SqlSettings
	master   *gorp.DbMap
	stores   SqlSupplierStores
	metrics  einterfaces.MetricsInterface
}

func NewSqlSupplier(settings model.SqlSettings, metrics einterfaces.MetricsInterface) *SqlSupplier {
	supplier := &SqlSupplier{
		settings: &settings,
		metrics:  metrics,
	}

	supplier.initConnection()

	supplier.stores.room = newSqlRoomStore(supplier)
	supplier.stores.onlineUser = newSqlOnlineUserStore(supplier)
	supplier.stores.initiateRequest = newSqlInitiateRequestStore(supplier)
	supplier.stores.chatMessage = newSqlChatMessageStore(supplier)
	supplier.stores.kickedUser = newSqlKickedUserStore(supplier)
	supplier.stores.notification = newSqlNotificationStore(supplier)
	supplier.stores.support = newSqlSupportStore(supplier)
	supplier.stores.rights = newSqlRightsStore(supplier)
	supplier.stores.system = newSqlSystemStore(supplier)

	err := supplier.GetMaster().CreateTablesIfNotExists()
	if err != nil {
		mlog.Critical("Error creating database tables.", mlog.Err(err))
		os.Exit(EXIT_DB_OPEN)
	}

	supplier.stores.room.(*SqlRoomStore).createIndexesIfNotExists()
	supplier.stores.onlineUser.(*SqlOnlineUserStore).createIndexesIfNotExists()
	supplier.stores.initiateRequest.(*SqlInitiateRequestStore).createIndexesIfNotExists()
	supplier.stores.chatMessage.(*SqlChatMessageStore).createIndexesIfNotExists()
	supplier.stores.kickedUser.(*SqlKickedUserStore).createIndexesIfNotExists()
	supplier.stores.notification.(*SqlNotificationStore).createIndexesIfNotExists()
	supplier.stores.rights.(*SqlRightsStore).createIndexesIfNotExists()

	return supplier
}

func setupConnection(connType string, dataSource string, settings *model.SqlSettings) *gorp.DbMap {
	db, err := dbsql.Open(*settings.DriverName, dataSource)
	if err != nil {
		mlog.Critical("Failed to open SQL connection to err.", mlog.Err(err))
		os.Exit(EXIT_DB_OPEN)
	}

	for i := 0; i < DB_PING_ATTEMPTS; i++ {
		mlog.Info("Pinging SQL", mlog.String("database", connType))
		ctx, cancel := context.WithTimeout(context.Background(), DB_PING_TIMEOUT_SECS*time.Second)
		defer cancel()
		err = db.PingContext(ctx)
		if err == nil {
			break
		}
		if i == DB_PING_ATTEMPTS-1 {
			mlog.Critical("Failed to ping DB, server will exit.", mlog.Err(err))
			os.Exit(EXIT_PING)
		} else {
			mlog.Error("Failed to ping DB", mlog.Err(err), mlog.Int("retrying in seconds", DB_PING_TIMEOUT_SECS))
			time.Sleep(DB_PING_TIMEOUT_SECS * time.Second)
		}
	}

	db.SetMaxIdleConns(*settings.MaxIdleConns)
	db.SetMaxOpenConns(*settings.MaxOpenConns)
	db.SetConnMaxLifetime(time.Duration(*settings.ConnMaxLifetimeMilliseconds) * time.Millisecond)

	var dbmap *gorp.DbMap

	connectionTimeout := time.Duration(*settings.QueryTimeout) * time.Second

	if *settings.DriverName == model.DATABASE_DRIVER_MYSQL {
		dbmap = &gorp.DbMap{Db: db, TypeConverter: sitechatConverter{}, Dialect: gorp.MySQLDialect{Engine: "InnoDB", Encoding: "UTF8MB4"}, QueryTimeout: connectionTimeout}
	} else if *settings.DriverName == model.DATABASE_DRIVER_POSTGRES {
		dbmap = &gorp.DbMap{Db: db, TypeConverter: sitechatConverter{}, Dialect: gorp.PostgresDialect{}, QueryTimeout: connectionTimeout}
	} else {
		mlog.Critical("Failed to create dialect specific driver")
		os.Exit(EXIT_DB_OPEN)
	}

	if settings.Trace != nil && *settings.Trace {
		dbmap.TraceOn("sql-trace:", &TraceOnAdapter{})
	}

	return dbmap
}

func (ss *SqlSupplier) initConnection() {
	ss.master = setupConnection("master", *ss.settings.DataSource, ss.settings)
}

func (ss *SqlSupplier) DriverName() string {
	return *ss.settings.DriverName
}

func (ss *SqlSupplier) GetMaster() *gorp.DbMap {
	return ss.master
}

// GetReplica returns the master connection. Read replicas are not wired
// for this deployment yet; callers still split reads from writes so a
// replica pool can be added here later.
func (ss *SqlSupplier) GetReplica() *gorp.DbMap {
	return ss.master
}

func (ss *SqlSupplier) GetAllConns() []*gorp.DbMap {
	return []*gorp.DbMap{ss.master}
}

func (ss *SqlSupplier) TotalMasterDbConnections() int {
	return ss.GetMaster().Db.Stats().OpenConnections
}

func (ss *SqlSupplier) getQueryBuilder() sq.StatementBuilderType {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if ss.DriverName() == model.DATABASE_DRIVER_POSTGRES {
		builder = builder.PlaceholderFormat(sq.Dollar)
	}
	return builder
}

func (ss *SqlSupplier) CreateIndexIfNotExists(indexName string, tableName string, columnName string) {
	if ss.DriverName() == model.DATABASE_DRIVER_POSTGRES {
		_, errExists := ss.GetMaster().SelectStr("SELECT $1::regclass", indexName)
		// It should fail if the index does not exist
		if errExists == nil {
			return
		}

		_, err := ss.GetMaster().ExecNoTimeout("CREATE INDEX " + indexName + " ON " + tableName + " (" + columnName + ")")
		if err != nil {
			mlog.Critical("Failed to create index", mlog.Err(err))
			os.Exit(EXIT_DB_OPEN)
		}
	} else if ss.DriverName() == model.DATABASE_DRIVER_MYSQL {
		count, err := ss.GetMaster().SelectInt("SELECT COUNT(0) AS index_exists FROM information_schema.statistics WHERE table_schema = DATABASE() and table_name = ? AND index_name = ?", tableName, indexName)
		if err != nil {
			mlog.Critical("Failed to check index", mlog.Err(err))
			os.Exit(EXIT_DB_OPEN)
		}
		if count > 0 {
			return
		}

		_, err = ss.GetMaster().ExecNoTimeout("CREATE INDEX " + indexName + " ON " + tableName + " (" + columnName + ")")
		if err != nil {
			mlog.Critical("Failed to create index", mlog.Err(err))
			os.Exit(EXIT_DB_OPEN)
		}
	} else {
		mlog.Critical("Failed to create index because of missing driver")
		os.Exit(EXIT_DB_OPEN)
	}
}

func (ss *SqlSupplier) Room() store.RoomStore {
	return ss.stores.room
}

func (ss *SqlSupplier) OnlineUser() store.OnlineUserStore {
	return ss.stores.onlineUser
}

func (ss *SqlSupplier) InitiateRequest() store.InitiateRequestStore {
	return ss.stores.initiateRequest
}

func (ss *SqlSupplier) ChatMessage() store.ChatMessageStore {
	return ss.stores.chatMessage
}

func (ss *SqlSupplier) KickedUser() store.KickedUserStore {
	return ss.stores.kickedUser
}

func (ss *SqlSupplier) Notification() store.NotificationStore {
	return ss.stores.notification
}

func (ss *SqlSupplier) Support() store.SupportStore {
	return ss.stores.support
}

func (ss *SqlSupplier) Rights() store.RightsStore {
	return ss.stores.rights
}

func (ss *SqlSupplier) System() store.SystemStore {
	return ss.stores.system
}

func (ss *SqlSupplier) Close() {
	ss.GetMaster().Db.Close()
}

func (ss *SqlSupplier) DropAllTables() {
	ss.master.TruncateTables()
}

// IsUniqueConstraintError identifies duplicate-key failures across the
// supported drivers.
func IsUniqueConstraintError(err error, indexName []string) bool {
	unique := false
	if cErr, ok := err.(*pq.Error); ok && cErr.Code == "23505" {
		unique = true
	}

	if cErr, ok := err.(*mysql.MySQLError); ok && cErr.Number == 1062 {
		unique = true
	}

	field := false
	for _, contain := range indexName {
		if strings.Contains(err.Error(), contain) {
			field = true
			break
		}
	}

	return unique && field
}

type sitechatConverter struct{}

func (me sitechatConverter) ToDb(val interface{}) (interface{}, error) {
	switch t := val.(type) {
	case model.StringMap:
		return model.MapToJson(t), nil
	case map[string]string:
		return model.MapToJson(model.StringMap(t)), nil
	}

	return val, nil
}

func (me sitechatConverter) FromDb(target interface{}) (gorp.CustomScanner, bool) {
	switch target.(type) {
	case *model.StringMap:
		binder := func(holder, target interface{}) error {
			s, ok := holder.(*string)
			if !ok {
				return errors.New("could not convert StringMap to *string")
			}
			if *s == "" {
				return nil
			}
			return json.Unmarshal([]byte(*s), target)
		}
		return gorp.CustomScanner{Holder: new(string), Target: target, Binder: binder}, true
	case *map[string]string:
		binder := func(holder, target interface{}) error {
			s, ok := holder.(*string)
			if !ok {
				return errors.New("could not convert map[string]string to *string")
			}
			if *s == "" {
				return nil
			}
			return json.Unmarshal([]byte(*s), target)
		}
		return gorp.CustomScanner{Holder: new(string), Target: target, Binder: binder}, true
	}

	return gorp.CustomScanner{}, false
}

type TraceOnAdapter struct{}

func (t *TraceOnAdapter) Printf(format string, v ...interface{}) {
	originalString := fmt.Sprintf(format, v...)
	newString := strings.ReplaceAll(originalString, "\n", " ")
	newString = strings.ReplaceAll(newString, "\t", " ")
	newString = strings.ReplaceAll(newString, "\"", "")
	mlog.Debug(newString)
}
