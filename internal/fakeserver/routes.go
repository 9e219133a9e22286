package fakeserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func Register(e *echo.Echo, s *Server) {
	e.POST("/register", s.Register)
	e.POST("/users", s.Register)
	e.POST("/login", s.Login)
	e.GET("/users", s.ListUsers)
	e.GET("/users/:id", s.GetUser)

	e.GET("/todolists/:userID", s.FetchLists)
	e.POST("/todolists", s.CreateList)
	e.POST("/todolists/join", s.Join)
	e.GET("/todolists/:id/users", s.ListMembers)
	e.DELETE("/todolists/:id", s.DeleteList)
	e.POST("/todolists/:id/leave", s.Leave)

	e.GET("/tasks/:todolistID", s.FetchTasks)
	e.POST("/tasks", s.CreateTask)
	e.PUT("/tasks/:id", s.UpdateTask)
	e.DELETE("/tasks/:id", s.DeleteTask)
}

// Handler returns the server mounted on a fresh echo instance, for
// httptest in service and reconciler tests.
func Handler(s *Server) http.Handler {
	e := echo.New()
	Register(e, s)
	return e
}
