package echo

import e "github.com/labstack/echo/v4"

// RegisterRoutes mounts the API. A nil handler leaves its routes out.
func RegisterRoutes(server *e.Echo, importHandler *ImportHandler, userHandler *UserHandler) {
	v1 := server.Group("/api/v1")

	if importHandler != nil {
		v1.POST("/imports/users", importHandler.ImportUsers)
	}
	if userHandler != nil {
		v1.GET("/users", userHandler.SearchUsers)
		v1.GET("/users/:id", userHandler.GetUserByID)
	}
}
