package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestPaths(t *testing.T) {
	id := uuid.MustParse("7d3c2f1e-9a6b-4c8d-8e2f-1a2b3c4d5e6f")
	require.Equal(t, "/data/"+id.String(), AssetDir("/data", id))
	require.Equal(t, "/data/"+id.String()+"/720", RenditionDir("/data", id, 720))
	require.Equal(t, "/data/"+id.String()+"/"+id.String()+".mp4", SourceVideoPath("/data", id))
	require.Equal(t, "/data/"+id.String()+"/thumbnail.png", ThumbnailPath("/data", id))
}

func TestPaginationFromCtx(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("GET", "/?page=3&size=20", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	p, err := GetPaginationFromCtx(c)
	require.NoError(t, err)
	require.Equal(t, 40, p.GetOffset())
	require.Equal(t, 20, p.GetLimit())
	require.Equal(t, 3, GetTotalPages(41, 20))
	require.True(t, GetHasMore(2, 41, 20))
	require.False(t, GetHasMore(3, 41, 20))
}

func TestPaginationRejectsGarbage(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("GET", "/?size=abc", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	_, err := GetPaginationFromCtx(c)
	require.Error(t, err)
}

func TestValidateStruct(t *testing.T) {
	type input struct {
		Name string `validate:"required"`
	}
	require.Error(t, ValidateStruct(&input{}))
	require.NoError(t, ValidateStruct(&input{Name: "x"}))
}
