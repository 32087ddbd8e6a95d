package superAdminController

import (
	"learnhub/middleware"
	"learnhub/services/auth"
	superAdminValidator "learnhub/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	store *auth.CredentialStore
}

func NewUserController(store *auth.CredentialStore) *UserController {
	return &UserController{store: store}
}

func (h *UserController) UserList(c *fiber.Ctx) error {
	reqData := c.Locals("validateUserList").(*superAdminValidator.UserListQuery)

	page, err := h.store.ListUsers(c.UserContext(), auth.UserQuery{
		Page:   reqData.Page,
		Limit:  reqData.Limit,
		Search: reqData.Search,
	})
	if err != nil {
		return err
	}

	// Response structure
	response := map[string]interface{}{
		"users": page.Users,
		"pagination": map[string]interface{}{
			"total": page.Total,
			"page":  page.Page,
			"limit": page.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User List.", response)
}
