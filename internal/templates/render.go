package templates

//go:generate go run github.com/a-h/templ/cmd/templ generate -path .

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

// RenderTempl writes component as an HTML response with status.
// A render error yields a plain 500 and nothing of the partial page.
func RenderTempl(c *gin.Context, status int, component templ.Component) {
	var buf bytes.Buffer
	if err := component.Render(c.Request.Context(), &buf); err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
