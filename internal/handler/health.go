package handler // declare the package name; contains HTTP handlers

import (
    "context"  // context bounds each dependency probe
    "net/http" // net/http provides status codes and response helpers
    "time"     // probe timeout

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a simple liveness endpoint used by load balancers and
// monitoring systems to verify that the process is serving.  It returns a
// plain text "ok" message with an HTTP 200 status code.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Check probes one dependency; a nil error means it is reachable.
type Check func(ctx context.Context) error

// Ready returns a readiness endpoint that runs every check and answers 503
// listing the failing ones, or 200 when all pass.
func Ready(checks map[string]Check) echo.HandlerFunc {
    return func(c echo.Context) error {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
        defer cancel()

        status := http.StatusOK
        report := make(map[string]string, len(checks))
        for name, check := range checks {
            if err := check(ctx); err != nil {
                report[name] = err.Error()
                status = http.StatusServiceUnavailable
                continue
            }
            report[name] = "ok"
        }
        return c.JSON(status, report)
    }
}
