// Copyright (c) 2015-present SiteChat, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mattermost/viper"
	"github.com/spf13/cobra"

	"github.com/sitechat/server/v5/api4"
	"github.com/sitechat/server/v5/app"
	"github.com/sitechat/server/v5/mlog"
	"github.com/sitechat/server/v5/model"
	"github.com/sitechat/server/v5/utils"
)

var serverCmd = &cobra.Command{
	Use:          "server",
	Short:        "Run the SiteChat server",
	RunE:         serverCmdF,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(serverCmd)
	RootCmd.RunE = serverCmdF
}

func serverCmdF(command *cobra.Command, args []string) error {
	interruptChan := make(chan os.Signal, 1)
	return runServer(viper.GetString("config"), interruptChan)
}

func runServer(configFile string, interruptChan chan os.Signal) error {
	if err := utils.TranslationsPreInit(); err != nil {
		mlog.Error("Unable to load translation files.", mlog.Err(err))
	}
	model.AppErrorInit(utils.T)

	server, err := app.NewServer(app.ConfigFile(configFile))
	if err != nil {
		mlog.Critical("Unable to initialize the server", mlog.Err(err))
		return err
	}
	defer server.Shutdown()

	api4.Init(server, server.RootRouter)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	signal.Notify(interruptChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-interruptChan:
		return nil
	case err := <-serverErr:
		return err
	}
}
