package cmd

import (
	"github.com/labstack/echo/v4"
	"github.com/xjoerootx/smart-test/pkg/hvdb/stor"
	"github.com/xjoerootx/smart-test/pkg/ingest"
	"github.com/xjoerootx/smart-test/pkg/ingest/webapi"
)

type RouteOpts struct {
	serverStor stor.ServerStor
	fileStor   stor.FileStor
	scheduler  *ingest.Scheduler
}

func setupRoutes(e *echo.Echo, opts RouteOpts) {
	serversController := webapi.NewServersController(opts.serverStor, opts.fileStor, opts.scheduler)

	e.POST("/servers", serversController.CreateServer)
	e.GET("/servers/:id/files", serversController.ListFiles)
	e.POST("/servers/:id/files/download", serversController.TriggerDownload)
}
