package preview

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// NewRouter constructs a gin engine serving the registry's previews
func NewRouter(reg *Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, reg)
	return r
}

// RegisterRoutes adds the preview endpoints to r
func RegisterRoutes(r gin.IRoutes, reg *Registry) {
	r.GET(PathPrefix+":id/:name", func(c *gin.Context) {
		a, ok := reg.Lookup(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "preview not found"})
			return
		}
		c.Header("Content-Disposition", "inline; filename="+strconv.Quote(a.Filename))
		c.Data(http.StatusOK, a.MimeType, a.Data)
	})
}
