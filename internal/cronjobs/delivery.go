package cronjobs

import "github.com/labstack/echo/v4"

// Handlers exposes the periodic maintenance tasks to an external trigger.
type Handlers interface {
	VerifyJobs() echo.HandlerFunc
	CleanupDevice() echo.HandlerFunc
}
