package assets

import "github.com/labstack/echo/v4"

type Handlers interface {
	Create() echo.HandlerFunc
	CreateFromUpload() echo.HandlerFunc
	CompleteUpload() echo.HandlerFunc
	GetByID() echo.HandlerFunc
	List() echo.HandlerFunc
	Files() echo.HandlerFunc
	Delete() echo.HandlerFunc
	GetPlaybackURL() echo.HandlerFunc
}
