package httpapi

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"

	"github.com/i474232898/weather-widget/internal/notify"
	"github.com/i474232898/weather-widget/internal/ui"
	"github.com/i474232898/weather-widget/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the widget page, its assets and the JSON API into the Fiber app.
func RegisterRoutes(app *fiber.App, controller *weather.Controller, feed *notify.Feed) {
	app.Use("/assets", filesystem.New(filesystem.Config{
		Root: http.FS(ui.Assets()),
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		city := c.Query("city")
		if c.Request().URI().QueryArgs().Has("city") {
			// Outcome is reflected in the state and the notification feed.
			_ = controller.Query(c.UserContext(), weather.CityQuery(city))
		}

		var buf bytes.Buffer
		err := ui.Render(&buf, ui.View{
			State:         controller.State(),
			Notifications: feed.Active(),
			Query:         city,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render widget")
		}

		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	})

	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		return c.JSON(controller.State())
	})

	v1.Get("/weather/search", func(c *fiber.Ctx) error {
		q, err := parseSearchQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		err = controller.Query(c.UserContext(), q)
		if errors.Is(err, weather.ErrLocationMissing) {
			return fiber.NewError(fiber.StatusBadRequest, weather.MessageLocationMissing)
		}

		return c.Status(statusFor(err)).JSON(controller.State())
	})

	v1.Get("/notifications", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"notifications": feed.Active(),
		})
	})

	v1.Delete("/notifications/:id", func(c *fiber.Ctx) error {
		if err := feed.Dismiss(c.Params("id")); err != nil {
			if errors.Is(err, notify.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "notification not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to dismiss notification")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// statusFor maps a query outcome onto the HTTP status of the search endpoint.
func statusFor(err error) int {
	var (
		rejected *weather.RejectedError
		failed   *weather.FetchError
	)
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, weather.ErrSuperseded):
		return fiber.StatusConflict
	case errors.As(err, &rejected):
		if rejected.Code >= 400 && rejected.Code < 500 {
			return rejected.Code
		}
		return fiber.StatusBadGateway
	case errors.As(err, &failed):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// searchQuery holds the raw query parameters of the search endpoint.
// City is passed through untouched; coordinates must come in pairs.
type searchQuery struct {
	City string
	Lat  string `validate:"required_with=Lon,omitempty,latitude"`
	Lon  string `validate:"required_with=Lat,omitempty,longitude"`
}

func parseSearchQuery(c *fiber.Ctx) (weather.Query, error) {
	raw := searchQuery{
		City: c.Query("city"),
		Lat:  c.Query("lat"),
		Lon:  c.Query("lon"),
	}

	if err := validate.Struct(raw); err != nil {
		return weather.Query{}, err
	}

	q := weather.Query{City: raw.City}
	if raw.Lat != "" && raw.Lon != "" {
		lat, err := strconv.ParseFloat(raw.Lat, 64)
		if err != nil {
			return weather.Query{}, err
		}
		lon, err := strconv.ParseFloat(raw.Lon, 64)
		if err != nil {
			return weather.Query{}, err
		}
		q.Lat, q.Lon = &lat, &lon
	}
	return q, nil
}
