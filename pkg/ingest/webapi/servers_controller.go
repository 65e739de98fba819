package webapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xjoerootx/smart-test/pkg/hvdb/hvmodel"
	"github.com/xjoerootx/smart-test/pkg/hvdb/stor"
)

// DiscoveryTrigger is the part of the scheduler the API needs: enqueue one
// ad-hoc discovery run for a server.
type DiscoveryTrigger interface {
	TriggerServer(serverID int) error
}

type ServersController struct {
	serverStor stor.ServerStor
	fileStor   stor.FileStor
	trigger    DiscoveryTrigger
}

func NewServersController(serverStor stor.ServerStor, fileStor stor.FileStor, trigger DiscoveryTrigger) *ServersController {
	return &ServersController{serverStor: serverStor, fileStor: fileStor, trigger: trigger}
}

func (c *ServersController) CreateServer(ctx echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		URL      string `json:"url"`
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if req.Name == "" || req.URL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and url are required")
	}

	server, err := c.serverStor.CreateServer(&hvmodel.Server{
		Name:     req.Name,
		URL:      req.URL,
		Username: req.Username,
		Password: req.Password,
	})

	switch {
	case errors.Is(err, stor.ErrServerNameTaken):
		return echo.NewHTTPError(http.StatusConflict, "server name already taken")
	case err != nil:
		return err
	}

	return ctx.JSON(http.StatusCreated, server)
}

func (c *ServersController) ListFiles(ctx echo.Context) error {
	serverID, err := serverIDParam(ctx)
	if err != nil {
		return err
	}

	if _, err := c.serverStor.GetServerByID(serverID); err != nil {
		if stor.IsRecordNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, "no such server")
		}
		return err
	}

	files, err := c.fileStor.GetFilesForServer(serverID)
	if err != nil {
		return err
	}

	if files == nil {
		files = []hvmodel.File{}
	}

	return ctx.JSON(http.StatusOK, files)
}

func (c *ServersController) TriggerDownload(ctx echo.Context) error {
	serverID, err := serverIDParam(ctx)
	if err != nil {
		return err
	}

	if err := c.trigger.TriggerServer(serverID); err != nil {
		if stor.IsRecordNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, "no such server")
		}
		return err
	}

	return ctx.JSON(http.StatusAccepted, map[string]string{"message": "file download triggered"})
}

func serverIDParam(ctx echo.Context) (int, error) {
	var serverID int
	if err := echo.PathParamsBinder(ctx).Int("id", &serverID).BindError(); err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid server id")
	}

	return serverID, nil
}
