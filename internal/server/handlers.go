package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"

	"github.com/YuminosukeSato/olsfit/pkg/errors"
	"github.com/YuminosukeSato/olsfit/render"
	"github.com/YuminosukeSato/olsfit/simulation"
)

// SimulationResponse is the payload of the simulate and resample endpoints.
type SimulationResponse struct {
	Params    simulation.Params   `json:"params"`
	Estimates Estimates           `json:"estimates"`
	Fit       simulation.FitStats `json:"fit"`
	View      *render.View        `json:"view"`
}

// Estimates carries the raw numbers behind the formatted view.
type Estimates struct {
	Coefficients     [simulation.Regressors]float64 `json:"coefficients"`
	StdErrors        [simulation.Regressors]float64 `json:"std_errors"`
	ResidualStdError float64                        `json:"residual_std_error"`
	RSquared         float64                        `json:"r_squared"`
	DegreesOfFreedom int                            `json:"degrees_of_freedom"`
}

// resampleRequest mirrors simulation.Params without the seed. Absent fields
// fall back to the slider defaults.
type resampleRequest struct {
	Intercept   *float64 `json:"intercept"`
	Slope       *float64 `json:"slope"`
	ErrorStdDev *float64 `json:"error_stddev"`
	SampleSize  *int     `json:"sample_size"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) sliders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"sliders":      s.cfg.Sliders,
			"default_seed": s.cfg.Simulation.DefaultSeed,
			"seed_bound":   s.cfg.Simulation.SeedBound,
		},
	})
}

func (s *Server) simulate(c *gin.Context) {
	params, err := s.paramsFromQuery(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	etag := etagFor(params)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	res, err := simulation.Generate(params)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("ETag", etag)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": newResponse(res)})
}

func (s *Server) resample(c *gin.Context) {
	var req resampleRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.fail(c, errors.NewValidationError("body", err.Error(), nil))
			return
		}
	}

	params := s.cfg.DefaultParams()
	if req.Intercept != nil {
		params.Intercept = *req.Intercept
	}
	if req.Slope != nil {
		params.Slope = *req.Slope
	}
	if req.ErrorStdDev != nil {
		params.ErrorStdDev = *req.ErrorStdDev
	}
	if req.SampleSize != nil {
		params.SampleSize = *req.SampleSize
	}

	seed, err := s.drawSeed()
	if err != nil {
		s.fail(c, err)
		return
	}
	params = s.cfg.Snap(params.WithSeed(seed))

	res, err := simulation.Generate(params)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("ETag", etagFor(params))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": newResponse(res)})
}

func (s *Server) plot(c *gin.Context) {
	params, err := s.paramsFromQuery(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	format, err := render.ParseFormat(c.DefaultQuery("format", s.cfg.Plot.Format))
	if err != nil {
		s.fail(c, err)
		return
	}

	res, err := simulation.Generate(params)
	if err != nil {
		s.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := render.WritePlot(&buf, res, format, s.cfg.Plot.SizeInches); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func newResponse(res *simulation.Result) SimulationResponse {
	return SimulationResponse{
		Params: res.Params,
		Estimates: Estimates{
			Coefficients:     res.Coefficients,
			StdErrors:        res.StdErrors,
			ResidualStdError: res.ResidualStdError,
			RSquared:         res.RSquared,
			DegreesOfFreedom: res.DegreesOfFreedom,
		},
		Fit:  res.Fit,
		View: render.NewView(res),
	}
}

// paramsFromQuery reads intercept, slope, sigma, n and seed. Missing values
// take the slider defaults; the rest are snapped onto the slider grid.
func (s *Server) paramsFromQuery(c *gin.Context) (simulation.Params, error) {
	p := s.cfg.DefaultParams()

	floats := []struct {
		key string
		dst *float64
	}{
		{"intercept", &p.Intercept},
		{"slope", &p.Slope},
		{"sigma", &p.ErrorStdDev},
	}
	for _, f := range floats {
		raw, ok := c.GetQuery(f.key)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, errors.NewValidationError(f.key, "must be a number", raw)
		}
		*f.dst = v
	}

	if raw, ok := c.GetQuery("n"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, errors.NewValidationError("n", "must be an integer", raw)
		}
		p.SampleSize = n
	}
	if raw, ok := c.GetQuery("seed"); ok {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return p, errors.NewValidationError("seed", "must be a non-negative integer", raw)
		}
		p.Seed = seed
	}

	return s.cfg.Snap(p), nil
}

// Results are a pure function of the parameters, so the parameters identify the response.
func etagFor(p simulation.Params) string {
	key := fmt.Sprintf("%g|%g|%g|%d|%d", p.Intercept, p.Slope, p.ErrorStdDev, p.SampleSize, p.Seed)
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64String(key))
}

func statusFor(err error) int {
	var verr *errors.ValidationError
	switch {
	case errors.Is(err, errors.ErrInvalidSampleSize),
		errors.Is(err, errors.ErrInvalidVariance),
		errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrComputation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   msg,
	})
}
