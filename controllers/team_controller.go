package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"collabboard/authz"
	"collabboard/middleware"
	"collabboard/models"
	"collabboard/store"
	"collabboard/utils"
)

type TeamController struct {
	Store  *store.Store
	Logger *logrus.Logger
}

func NewTeamController(s *store.Store, logger *logrus.Logger) *TeamController {
	return &TeamController{
		Store:  s,
		Logger: logger,
	}
}

type CreateTeamRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Members     []string `json:"members" validate:"omitempty,dive,len=24"`
}

type UpdateTeamRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type AddMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CreateTeam creates a team owned by the caller. The caller is always part
// of the members list, whether or not the request includes them.
func (tc *TeamController) CreateTeam(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var req CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.Name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Name is required", nil)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	members := make([]primitive.ObjectID, 0, len(req.Members))
	for _, raw := range req.Members {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid member id", err)
		}
		members = append(members, id)
	}

	team := models.Team{
		Name:        req.Name,
		Description: req.Description,
		Members:     models.NormalizeMembers(members, actor.ID),
		CreatedBy:   actor.ID,
	}

	if err := tc.Store.CreateTeam(c.Context(), &team); err != nil {
		utils.LogError(err, "team_create_failed", map[string]interface{}{"user_id": actor.ID.Hex()})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create team", err)
	}

	tc.Logger.WithFields(logrus.Fields{
		"team_id": team.ID.Hex(),
		"user_id": actor.ID.Hex(),
	}).Info("team created")

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(team))
}

// GetTeams returns the teams the caller belongs to.
func (tc *TeamController) GetTeams(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	teams, err := tc.Store.FindTeamsByMember(c.Context(), actor.ID)
	if err != nil {
		utils.LogError(err, "team_list_failed", map[string]interface{}{"user_id": actor.ID.Hex()})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch teams", err)
	}

	return c.JSON(utils.ListResponse(teams, len(teams)))
}

// GetTeam returns one team. Non-members get 403, not 404: the team is
// resolved first, the membership check runs second.
func (tc *TeamController) GetTeam(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	team, err := tc.findTeam(c)
	if err != nil {
		return err
	}
	if team == nil {
		return nil
	}

	if !authz.CanReadTeam(actor.ID, team) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Not authorized to access this team", nil)
	}

	return c.JSON(utils.SuccessResponse(team))
}

func (tc *TeamController) UpdateTeam(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	team, err := tc.findTeam(c)
	if err != nil {
		return err
	}
	if team == nil {
		return nil
	}

	if !authz.CanMutateTeam(actor.ID, team) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Not authorized to update this team", nil)
	}

	var req UpdateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	patch := bson.M{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}

	updated, err := tc.Store.UpdateTeamByID(c.Context(), team.ID, patch)
	if err != nil {
		utils.LogError(err, "team_update_failed", map[string]interface{}{"team_id": team.ID.Hex()})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update team", err)
	}

	return c.JSON(utils.SuccessResponse(updated))
}

func (tc *TeamController) DeleteTeam(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	team, err := tc.findTeam(c)
	if err != nil {
		return err
	}
	if team == nil {
		return nil
	}

	if !authz.CanMutateTeam(actor.ID, team) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Not authorized to delete this team", nil)
	}

	if err := tc.Store.DeleteTeamByID(c.Context(), team.ID); err != nil {
		utils.LogError(err, "team_delete_failed", map[string]interface{}{"team_id": team.ID.Hex()})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete team", err)
	}

	tc.Logger.WithField("team_id", team.ID.Hex()).Info("team deleted")

	return c.JSON(utils.SuccessResponse(fiber.Map{}))
}

// AddMember resolves the candidate by email and appends them to the team.
// Owner-only; duplicate additions are rejected and leave the members list
// untouched.
func (tc *TeamController) AddMember(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.Email == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Please provide an email", nil)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	team, err := tc.findTeam(c)
	if err != nil {
		return err
	}
	if team == nil {
		return nil
	}

	if !authz.CanAddMember(actor.ID, team) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Not authorized to add members to this team", nil)
	}

	userToAdd, err := tc.Store.FindUserByEmail(c.Context(), req.Email)
	if err != nil {
		if store.IsNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch user", err)
	}

	if team.HasMember(userToAdd.ID) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "User is already a member of this team", nil)
	}

	updated, err := tc.Store.PushTeamMember(c.Context(), team.ID, userToAdd.ID)
	if err != nil {
		utils.LogError(err, "team_add_member_failed", map[string]interface{}{
			"team_id": team.ID.Hex(),
			"user_id": userToAdd.ID.Hex(),
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add member", err)
	}

	return c.JSON(utils.SuccessResponse(updated))
}

// findTeam resolves the :id path param. On a handled failure it writes the
// response and returns (nil, nil) so callers just bail out.
func (tc *TeamController) findTeam(c *fiber.Ctx) (*models.Team, error) {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return nil, utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid team id", err)
	}

	team, err := tc.Store.FindTeamByID(c.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
		}
		return nil, utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch team", err)
	}
	return team, nil
}
