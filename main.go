package main

import (
	"context"
	"embed"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/zaunist/filebox/backend/api/handler"
	"github.com/zaunist/filebox/backend/api/route"
	"github.com/zaunist/filebox/backend/common"
	"github.com/zaunist/filebox/backend/common/i18n"
	"github.com/zaunist/filebox/backend/filestore"
	"github.com/zaunist/filebox/backend/model"

	"github.com/gin-gonic/gin"
)

//go:embed frontend/dist
var buildFS embed.FS

//go:embed frontend/dist/index.html
var indexPage []byte

//go:embed VERSION
var versionFileContent string

func main() {
	common.Version = strings.TrimSpace(versionFileContent)
	flag.Parse()
	if *common.PrintVersion {
		println(common.Version)
		os.Exit(0)
	}
	if *common.PrintHelpFlag {
		common.PrintHelp()
		os.Exit(0)
	}
	common.SetupGinLog()
	common.SysLog(common.SystemName + " " + common.Version + " started")
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Redis is optional; the ORM cache and token blacklist fall back to
	// in-process state without it.
	err := common.InitRedisClient()
	if err != nil {
		common.FatalLog(err)
	}

	err = model.InitDB()
	if err != nil {
		common.FatalLog(err)
	}
	defer func() {
		err := model.CloseDB()
		if err != nil {
			common.FatalLog(err)
		}
	}()

	if err := model.InitOptionMap(); err != nil {
		common.FatalLog(err)
	}

	if err := i18n.Init(); err != nil {
		common.FatalLog(err)
	}

	store, err := filestore.New(context.Background())
	if err != nil {
		common.FatalLog(err)
	}
	handler.SetBlobStore(store)
	common.SysLog("blob store: " + common.StorageDriver)

	// Seed the root account so a fresh deployment has an admin.
	if err := model.EnsureRootUser(common.AdminUsername, common.AdminEmail, common.AdminPassword); err != nil {
		common.FatalLog(err)
	}

	server := gin.Default()
	route.SetRouter(server, buildFS, indexPage)

	setupGracefulShutdown()

	port := strconv.Itoa(*common.Port)
	common.SysLog("Server listening on port: " + port)
	err = server.Run(":" + port)
	if err != nil {
		log.Fatal("failed to start server: " + err.Error())
	}
}

// setupGracefulShutdown registers signal handlers to ensure clean shutdown
func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		common.SysLog("Shutting down...")
		if err := model.CloseDB(); err != nil {
			common.SysError("error closing database: " + err.Error())
		}
		os.Exit(0)
	}()
}
