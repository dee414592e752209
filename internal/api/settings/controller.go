package settings

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/hbomb79/Reel/internal/media"
	"github.com/labstack/echo/v4"
)

type (
	UpdateRequest struct {
		Resolution string  `json:"resolution" validate:"required"`
		Width      int     `json:"width" validate:"gte=0"`
		Height     int     `json:"height" validate:"gte=0"`
		Codec      string  `json:"codec" validate:"required"`
		Quality    *uint32 `json:"quality" validate:"required,lte=51"`
	}

	ProxySettingsDto struct {
		Resolution media.ResolutionKind `json:"resolution"`
		Width      *int                 `json:"width,omitempty"`
		Height     *int                 `json:"height,omitempty"`
		Codec      string               `json:"codec"`
		Quality    uint32               `json:"quality"`
	}

	Service interface {
		ProxySettings() media.ProxySettings
		UpdateProxySettings(media.ProxySettings) error
	}

	// Controller exposes the proxy settings used for all
	// subsequent imports.
	Controller struct {
		service  Service
		validate *validator.Validate
	}
)

func New(validate *validator.Validate, service Service) *Controller {
	return &Controller{service: service, validate: validate}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.GET("/", controller.get)
	eg.PUT("/", controller.update)
}

func (controller *Controller) get(ec echo.Context) error {
	return ec.JSON(http.StatusOK, NewDto(controller.service.ProxySettings()))
}

// update replaces the proxy settings. Imports which have
// already started are unaffected.
func (controller *Controller) update(ec echo.Context) error {
	var request UpdateRequest
	if err := ec.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid body: %s", err.Error()))
	}

	if err := controller.validate.Struct(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid body: %s", err.Error()))
	}

	resolution, err := media.ParseResolution(request.Resolution, request.Width, request.Height)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	settings := media.ProxySettings{Resolution: resolution, Codec: request.Codec, Quality: *request.Quality}
	if err := settings.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := controller.service.UpdateProxySettings(settings); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Failed to update proxy settings: %s", err.Error()))
	}

	return ec.JSON(http.StatusOK, NewDto(settings))
}

func NewDto(settings media.ProxySettings) *ProxySettingsDto {
	dto := &ProxySettingsDto{
		Resolution: settings.Resolution.Kind,
		Codec:      settings.Codec,
		Quality:    settings.Quality,
	}

	if settings.Resolution.Kind == media.ResolutionCustom {
		width, height := settings.Resolution.Width, settings.Resolution.Height
		dto.Width = &width
		dto.Height = &height
	}

	return dto
}
