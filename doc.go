// Package olsfit simulates simple linear regression samples and reports the
// ordinary least squares fit statistics for them.
//
// Each draw takes population parameters β0, β1 and σ, a sample size n and a
// seed. It generates x ~ Uniform(-10, 10) and y = β0 + β1·x + ε with
// ε ~ Normal(0, σ), fits the line by least squares and returns the estimates,
// their standard errors, a 95% confidence band for the mean response, the
// residual standard error ŝ and R². The same parameters and seed always
// produce the same result.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/olsfit/simulation"
//	)
//
//	func main() {
//	    res, err := simulation.Generate(simulation.Params{
//	        Intercept:   1,
//	        Slope:       2,
//	        ErrorStdDev: 10,
//	        SampleSize:  500,
//	        Seed:        0,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(res.Coefficients, res.StdErrors, res.RSquared)
//	}
//
// # Packages
//
//   - simulation: parameters, sample generation, fit results and sessions
//   - linear: OLS with coefficient covariance and mean-response intervals
//   - metrics: sums of squares, R², adjusted R², information criteria, F test
//   - montecarlo: repeated draws for coverage and sampling distributions
//   - render: scatter, fitted line, band, coefficient table and plots
//   - core/model: model interfaces and fit state
//   - core/parallel: worker pools
//   - pkg/errors: typed errors and warnings
//   - pkg/log: structured logging
//
// The olsfit command in cmd/olsfit exposes simulate, study, serve and config
// subcommands on top of these packages.
package olsfit
