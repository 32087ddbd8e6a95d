package authController

import (
	"learnhub/middleware"
	"learnhub/services/auth"
	authValidator "learnhub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	store *auth.CredentialStore
}

func NewAuthController(store *auth.CredentialStore) *AuthController {
	return &AuthController{store: store}
}

func (h *AuthController) Register(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRegister").(*authValidator.RegisterRequest)

	userID, err := h.store.Register(c.UserContext(), auth.RegisterInput{
		FullName: reqData.FullName,
		Email:    reqData.Email,
		Username: reqData.Username,
		Password: reqData.Password,
		Phone:    reqData.Phone,
	})
	if err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Registration successful!", fiber.Map{"userId": userID})
}

func (h *AuthController) Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)

	result, err := h.store.Authenticate(c.UserContext(), reqData.Email, reqData.Password)
	if err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", result)
}

func (h *AuthController) Profile(c *fiber.Ctx) error {
	profile, err := h.store.Profile(c.UserContext(), middleware.Principal(c))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", profile)
}

func (h *AuthController) ChangePassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedChangePassword").(*authValidator.ChangePasswordRequest)

	if err := h.store.ChangePassword(c.UserContext(), middleware.Principal(c), reqData.OldPassword, reqData.NewPassword); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully!", nil)
}
