package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ListResponse[T any] struct {
	Data    []T  `json:"data"`
	Total   int  `json:"total"`
	Loading bool `json:"loading"`
}

type ItemResponse[T any] struct {
	Data T `json:"data"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Item[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, ItemResponse[T]{Data: data})
}

func Created[T any](c *gin.Context, data T) {
	c.JSON(http.StatusCreated, ItemResponse[T]{Data: data})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// List responde sempre com array, nunca null.
func List[T any](c *gin.Context, data []T, loading bool) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{
		Data:    data,
		Total:   len(data),
		Loading: loading,
	})
}
