// Package fakeserver is an in-memory implementation of the to-do
// backend's wire protocol, used by `todosync serve-fake` for local
// development and mounted on httptest servers in tests. Response
// shapes deliberately mirror the real backend's historical variance
// (capitalized user keys, task_id on create, query-param writes) so
// the normalization boundary stays exercised.
package fakeserver

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var validProgress = map[string]bool{
	"Not Started": true,
	"Uncompleted": true,
	"Completed":   true,
}

type Server struct {
	store *store
}

func New() *Server {
	return &Server{store: newStore()}
}

func (s *Server) Register(c echo.Context) error {
	username := strings.TrimSpace(c.QueryParam("username"))
	if username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username is required")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, taken := s.store.userByName[username]; taken {
		// The real backend reports a taken username with a 200
		// and success=false.
		return c.JSON(http.StatusOK, echo.Map{
			"success": false,
			"message": "username already taken",
		})
	}

	id := s.store.nextID()
	s.store.users[id] = &user{ID: id, Username: username}
	s.store.userByName[username] = id

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user_id": id,
		"message": "user registered",
	})
}

func (s *Server) Login(c echo.Context) error {
	username := strings.TrimSpace(c.QueryParam("username"))
	if username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username is required")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	id, ok := s.store.userByName[username]
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{
			"success": false,
			"message": "user not found",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"user_id":  id,
		"username": username,
		"message":  "welcome back",
	})
}

func (s *Server) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	u, ok := s.store.users[id]
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"exists": false})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"exists":   true,
		"user_id":  u.ID,
		"username": u.Username,
	})
}

func (s *Server) ListUsers(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	users := make([]echo.Map, 0, len(s.store.users))
	for _, u := range s.store.users {
		// Legacy capitalized keys, kept as the real backend emits them.
		users = append(users, echo.Map{"UserID": u.ID, "Username": u.Username})
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i]["UserID"].(int64) < users[j]["UserID"].(int64)
	})
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

func (s *Server) FetchLists(c echo.Context) error {
	userID, err := pathID(c, "userID")
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	lists := s.store.listsForUser(userID)
	if len(lists) == 0 {
		// The real backend 404s a user with no lists.
		return echo.NewHTTPError(http.StatusNotFound, "no todolists for user")
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].ID < lists[j].ID })

	out := make([]echo.Map, 0, len(lists))
	for _, list := range lists {
		out = append(out, echo.Map{
			"id":       list.ID,
			"name":     list.Name,
			"shared":   list.Shared,
			"owner_id": list.OwnerID,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"todolists": out})
}

func (s *Server) CreateList(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	ownerID, err := strconv.ParseInt(c.QueryParam("user_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	sharedParam := c.QueryParam("shared")
	shared := sharedParam == "1" || sharedParam == "true"

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.users[ownerID]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	list := &todoList{
		ID:      s.store.nextID(),
		Name:    name,
		Shared:  shared,
		OwnerID: ownerID,
		Members: map[int64]string{ownerID: "owner"},
	}
	resp := echo.Map{"todolist_id": list.ID}
	if shared {
		list.InviteCode = newInviteCode()
		resp["inviteCode"] = list.InviteCode
	}
	s.store.lists[list.ID] = list

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) Join(c echo.Context) error {
	userID, err := strconv.ParseInt(c.QueryParam("user_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	code := strings.TrimSpace(c.QueryParam("invite_code"))
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invite_code is required")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.users[userID]; !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "user not found")
	}

	for _, list := range s.store.lists {
		if list.Shared && list.InviteCode == code {
			if _, member := list.Members[userID]; !member {
				list.Members[userID] = "member"
			}
			return c.JSON(http.StatusOK, echo.Map{"message": "joined " + list.Name})
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "invalid invite code")
}

func (s *Server) ListMembers(c echo.Context) error {
	listID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	list, ok := s.store.lists[listID]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "todolist not found")
	}

	members := make([]echo.Map, 0, len(list.Members))
	for userID, role := range list.Members {
		username := ""
		if u, ok := s.store.users[userID]; ok {
			username = u.Username
		}
		members = append(members, echo.Map{"id": userID, "username": username, "role": role})
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i]["id"].(int64) < members[j]["id"].(int64)
	})
	return c.JSON(http.StatusOK, echo.Map{"users": members})
}

func (s *Server) DeleteList(c echo.Context) error {
	listID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.lists[listID]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, "todolist not found")
	}
	delete(s.store.lists, listID)
	for id, t := range s.store.tasks {
		if t.TodoListID == listID {
			delete(s.store.tasks, id)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "todolist deleted"})
}

func (s *Server) Leave(c echo.Context) error {
	listID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var body struct {
		UserID int64 `json:"user_id"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	list, ok := s.store.lists[listID]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "todolist not found")
	}
	if list.OwnerID == body.UserID {
		return echo.NewHTTPError(http.StatusBadRequest, "owner cannot leave, delete the list instead")
	}
	if _, member := list.Members[body.UserID]; !member {
		return echo.NewHTTPError(http.StatusBadRequest, "not a member of this list")
	}
	delete(list.Members, body.UserID)
	return c.JSON(http.StatusOK, echo.Map{"message": "left " + list.Name})
}

func (s *Server) FetchTasks(c echo.Context) error {
	listID, err := pathID(c, "todolistID")
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var tasks []*task
	for _, t := range s.store.tasks {
		if t.TodoListID == listID {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	out := make([]echo.Map, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskJSON(t, "id"))
	}
	return c.JSON(http.StatusOK, echo.Map{"tasks": out})
}

func (s *Server) CreateTask(c echo.Context) error {
	var body struct {
		Description string `json:"description"`
		Assignee    int64  `json:"assignee"`
		DueDate     string `json:"due_date"`
		TodoListID  int64  `json:"todolist_id"`
		OwnerID     int64  `json:"owner_id"`
		Progress    string `json:"progress"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	body.Description = strings.TrimSpace(body.Description)
	if body.Description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "description is required")
	}
	if body.Progress == "" {
		body.Progress = "Uncompleted"
	}
	if !validProgress[body.Progress] {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown progress value")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.lists[body.TodoListID]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, "todolist not found")
	}

	t := &task{
		ID:          s.store.nextID(),
		Description: body.Description,
		Progress:    body.Progress,
		Assignee:    body.Assignee,
		OwnerID:     body.OwnerID,
		TodoListID:  body.TodoListID,
		DueDate:     body.DueDate,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	s.store.tasks[t.ID] = t

	// The create response still uses the legacy task_id key.
	return c.JSON(http.StatusOK, echo.Map{"task": taskJSON(t, "task_id")})
}

func (s *Server) UpdateTask(c echo.Context) error {
	taskID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	t, ok := s.store.tasks[taskID]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "task not found")
	}

	if v, ok := body["description"].(string); ok {
		v = strings.TrimSpace(v)
		if v == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "description cannot be empty")
		}
		t.Description = v
	}
	if v, ok := body["progress"].(string); ok {
		if !validProgress[v] {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown progress value")
		}
		t.Progress = v
	}
	if v, ok := body["assignee"].(float64); ok {
		t.Assignee = int64(v)
	}
	if v, ok := body["due_date"].(string); ok {
		t.DueDate = v
	}

	return c.JSON(http.StatusOK, echo.Map{"task": taskJSON(t, "id")})
}

func (s *Server) DeleteTask(c echo.Context) error {
	taskID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.tasks[taskID]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, "task not found")
	}
	delete(s.store.tasks, taskID)
	return c.JSON(http.StatusOK, echo.Map{"message": "task deleted"})
}

func taskJSON(t *task, idKey string) echo.Map {
	return echo.Map{
		idKey:         t.ID,
		"description": t.Description,
		"progress":    t.Progress,
		"assignee":    t.Assignee,
		"owner_id":    t.OwnerID,
		"todolist_id": t.TodoListID,
		"due_date":    t.DueDate,
		"created_at":  t.CreatedAt,
	}
}

func pathID(c echo.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, param+" must be numeric")
	}
	return id, nil
}

func newInviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}
