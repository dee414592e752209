package medias

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hbomb79/Reel/internal/importer"
	"github.com/hbomb79/Reel/internal/media"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/labstack/echo/v4"
)

var (
	log = logger.Get("MediaController")

	ErrMediaNotFound = errors.New("media not found")
)

type (
	// Service is the subset of the import registry required by this controller.
	Service interface {
		Import(ctx context.Context, path string) (uuid.UUID, error)
		Get(id uuid.UUID) *media.Record
		List() []*media.Record
		Remove(id uuid.UUID) error
	}

	Controller struct {
		service  Service
		validate *validator.Validate
	}
)

func New(validate *validator.Validate, service Service) *Controller {
	return &Controller{service: service, validate: validate}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.POST("/", controller.create)
	eg.GET("/", controller.list)
	eg.GET("/:id/", controller.get)
	eg.DELETE("/:id/", controller.delete)
}

// create starts the import of the file at the path provided. The
// ID of the new media is returned immediately; the outcome of
// the import must be observed by polling the media (or by the
// activity socket).
func (controller *Controller) create(ec echo.Context) error {
	var request ImportRequest
	if err := ec.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid body: %s", err.Error()))
	}

	if err := controller.validate.Struct(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid body: %s", err.Error()))
	}

	id, err := controller.service.Import(ec.Request().Context(), request.Path)
	if err != nil {
		if errors.Is(err, importer.ErrRegistrySaturated) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		}

		log.Emit(logger.WARNING, "Import of %s failed: %v\n", request.Path, err)
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Failed to import media: %s", err.Error()))
	}

	return ec.JSON(http.StatusCreated, ImportResponse{ID: id})
}

// list returns every media record, oldest first.
func (controller *Controller) list(ec echo.Context) error {
	records := controller.service.List()
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	dtos := make([]*MediaDto, len(records))
	for k, v := range records {
		dtos[k] = NewDto(v)
	}

	return ec.JSON(http.StatusOK, dtos)
}

func (controller *Controller) get(ec echo.Context) error {
	id, err := uuid.Parse(ec.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Media ID is not a valid UUID")
	}

	record := controller.service.Get(id)
	if record == nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrMediaNotFound.Error())
	}

	return ec.JSON(http.StatusOK, NewDto(record))
}

// delete removes the media and its proxy. Removing media which
// does not exist succeeds.
func (controller *Controller) delete(ec echo.Context) error {
	id, err := uuid.Parse(ec.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Media ID is not a valid UUID")
	}

	if err := controller.service.Remove(id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ec.NoContent(http.StatusOK)
}
