// Package httpresp holds the success-response envelopes. Collection
// endpoints always answer {data, total} so clients never have to
// distinguish an empty list from a missing field.
package httpresp

import "github.com/gin-gonic/gin"

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func OK(c *gin.Context, data any) {
	c.JSON(200, data)
}

// List writes rows wrapped in the collection envelope. A nil slice
// serializes as data: [] rather than null.
func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(200, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}
