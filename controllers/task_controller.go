package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"collabboard/middleware"
	"collabboard/models"
	"collabboard/store"
	"collabboard/utils"
)

// Task reads and mutations carry no team-membership or ownership check:
// any authenticated caller may touch any task. Teams are owner-gated, tasks
// are not.
type TaskController struct {
	Store  *store.Store
	Logger *logrus.Logger
}

func NewTaskController(s *store.Store, logger *logrus.Logger) *TaskController {
	return &TaskController{
		Store:  s,
		Logger: logger,
	}
}

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"omitempty,max=2000"`
	Status      string     `json:"status" validate:"omitempty,oneof=todo in_progress review done"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	TeamID      string     `json:"teamId"`
	AssignedTo  string     `json:"assignedTo" validate:"omitempty,len=24"`
	DueDate     *time.Time `json:"dueDate"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=todo in_progress review done"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo  *string    `json:"assignedTo" validate:"omitempty,len=24"`
	DueDate     *time.Time `json:"dueDate"`
}

func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.TeamID == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Team ID is required", nil)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	teamID, err := primitive.ObjectIDFromHex(req.TeamID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid team id", err)
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StatusOrDefault(models.TaskStatus(req.Status)),
		Priority:    models.PriorityOrDefault(models.TaskPriority(req.Priority)),
		TeamID:      teamID,
		DueDate:     req.DueDate,
	}

	// The assignee is not required to be a member of the task's team.
	if req.AssignedTo != "" {
		assignedTo, err := primitive.ObjectIDFromHex(req.AssignedTo)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid assignee id", err)
		}
		task.AssignedTo = &assignedTo
	}

	if actor != nil {
		task.CreatedBy = &actor.ID
	}

	if err := tc.Store.CreateTask(c.Context(), &task); err != nil {
		utils.LogError(err, "task_create_failed", map[string]interface{}{"team_id": req.TeamID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create task", err)
	}

	tc.Logger.WithFields(logrus.Fields{
		"task_id": task.ID.Hex(),
		"team_id": task.TeamID.Hex(),
	}).Info("task created")

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(task))
}

// GetTasks lists tasks narrowed by the optional query filters. Absent
// filters impose no constraint.
func (tc *TaskController) GetTasks(c *fiber.Ctx) error {
	filter := store.TaskFilter{
		Status:   models.TaskStatus(c.Query("status")),
		Priority: models.TaskPriority(c.Query("priority")),
		Search:   c.Query("search"),
	}

	if raw := c.Query("teamId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid team id", err)
		}
		filter.TeamID = &id
	}
	if raw := c.Query("assignedTo"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid assignee id", err)
		}
		filter.AssignedTo = &id
	}

	tasks, err := tc.Store.FindTasks(c.Context(), filter)
	if err != nil {
		utils.LogError(err, "task_list_failed", nil)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch tasks", err)
	}

	return c.JSON(utils.ListResponse(tasks, len(tasks)))
}

func (tc *TaskController) GetTask(c *fiber.Ctx) error {
	task, err := tc.findTask(c)
	if err != nil || task == nil {
		return err
	}
	return c.JSON(utils.SuccessResponse(task))
}

func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	task, err := tc.findTask(c)
	if err != nil || task == nil {
		return err
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	patch := bson.M{}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.Status != nil {
		patch["status"] = models.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		patch["priority"] = models.TaskPriority(*req.Priority)
	}
	if req.AssignedTo != nil {
		assignedTo, err := primitive.ObjectIDFromHex(*req.AssignedTo)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid assignee id", err)
		}
		patch["assignedTo"] = assignedTo
	}
	if req.DueDate != nil {
		patch["dueDate"] = *req.DueDate
	}

	updated, err := tc.Store.UpdateTaskByID(c.Context(), task.ID, patch)
	if err != nil {
		utils.LogError(err, "task_update_failed", map[string]interface{}{"task_id": task.ID.Hex()})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update task", err)
	}

	return c.JSON(utils.SuccessResponse(updated))
}

func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	task, err := tc.findTask(c)
	if err != nil || task == nil {
		return err
	}

	if err := tc.Store.DeleteTaskByID(c.Context(), task.ID); err != nil {
		utils.LogError(err, "task_delete_failed", map[string]interface{}{"task_id": task.ID.Hex()})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete task", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{}))
}

// GetTaskStats groups tasks by status, optionally for a single team.
// Statuses with zero tasks are absent from the mapping.
func (tc *TaskController) GetTaskStats(c *fiber.Ctx) error {
	var teamID *primitive.ObjectID
	if raw := c.Query("teamId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid team id", err)
		}
		teamID = &id
	}

	stats, err := tc.Store.CountTasksByStatus(c.Context(), teamID)
	if err != nil {
		utils.LogError(err, "task_stats_failed", nil)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch task stats", err)
	}

	return c.JSON(utils.SuccessResponse(stats))
}

func (tc *TaskController) findTask(c *fiber.Ctx) (*models.Task, error) {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return nil, utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid task id", err)
	}

	task, err := tc.Store.FindTaskByID(c.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, utils.ErrorResponse(c, fiber.StatusNotFound, "No task found with id of "+c.Params("id"), nil)
		}
		return nil, utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch task", err)
	}
	return task, nil
}
