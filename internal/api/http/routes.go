package httpapi

import (
	"errors"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/series-resampler/internal/pipeline"
	"github.com/i474232898/series-resampler/internal/series"
	"github.com/i474232898/series-resampler/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *pipeline.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/series", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"series": service.IDs(),
		})
	})

	v1.Get("/series/:id", func(c *fiber.Ctx) error {
		id, err := seriesID(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var req windowQuery
		req.From, req.To = c.Query("from"), c.Query("to")
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		from, to, err := req.bounds()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ser, err := service.Series(id)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(ser.Between(from, to))
	})

	v1.Get("/series/:id/resampled", func(c *fiber.Ctx) error {
		id, err := seriesID(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var req resampleQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		out, err := service.Resampled(id, req.options()...)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(out)
	})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "no series for requested identifier")
	case errors.Is(err, series.ErrInsufficientSamples),
		errors.Is(err, series.ErrAxisOutOfRange),
		errors.Is(err, series.ErrUnorderedSeries):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "series request failed")
	}
}

func seriesID(c *fiber.Ctx) (string, error) {
	var q struct {
		ID string `validate:"required,max=256"`
	}
	id, err := url.PathUnescape(c.Params("id"))
	if err != nil {
		return "", err
	}
	q.ID = id
	if err := validate.Struct(q); err != nil {
		return "", err
	}
	return q.ID, nil
}

// windowQuery bounds the points returned for a series. Either end may be omitted.
type windowQuery struct {
	From string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To   string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// bounds returns zero times for omitted ends. The validator has already checked
// the layout.
func (q windowQuery) bounds() (from, to time.Time, err error) {
	if q.From != "" {
		from, _ = time.Parse(time.RFC3339, q.From)
	}
	if q.To != "" {
		to, _ = time.Parse(time.RFC3339, q.To)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, errors.New("to must not be before from")
	}
	return from, to, nil
}

// resampleQuery holds query parameters for the resampled endpoint.
type resampleQuery struct {
	Mode   string `validate:"omitempty,oneof=index elapsed"`
	Method string `validate:"omitempty,oneof=not-a-knot natural"`
	Min    int    `validate:"omitempty,min=2,max=1000"`
}

func (q *resampleQuery) bind(c *fiber.Ctx) error {
	q.Mode = c.Query("mode")
	q.Method = c.Query("method")
	if c.Query("min_samples") != "" {
		n := c.QueryInt("min_samples", -1)
		if n < 0 {
			return errors.New("min_samples must be a positive integer")
		}
		q.Min = n
	}
	return nil
}

func (q resampleQuery) options() []series.Option {
	var opts []series.Option
	if q.Mode != "" {
		opts = append(opts, series.WithMode(series.Mode(q.Mode)))
	}
	if q.Method != "" {
		opts = append(opts, series.WithMethod(series.Method(q.Method)))
	}
	if q.Min > 0 {
		opts = append(opts, series.WithMinSamples(q.Min))
	}
	return opts
}
