package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medplus/clinic-scheduler/internal/auth"
	"github.com/medplus/clinic-scheduler/internal/dto"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/models"
	ucUser "github.com/medplus/clinic-scheduler/internal/usecase/user"
)

type AuthHandler struct {
	register *ucUser.Register
	login    *ucUser.Login
	tokens   *auth.TokenService
	loc      *time.Location
}

func NewAuthHandler(
	register *ucUser.Register,
	login *ucUser.Login,
	tokens *auth.TokenService,
	loc *time.Location,
) *AuthHandler {
	return &AuthHandler{
		register: register,
		login:    login,
		tokens:   tokens,
		loc:      loc,
	}
}

// --------- Requests ---------

type RegisterPatientRequest struct {
	Name           string         `json:"name" binding:"required,max=100"`
	Email          string         `json:"email" binding:"required,email"`
	Password       string         `json:"password" binding:"required,min=6"`
	CPF            string         `json:"cpf" binding:"omitempty,max=14"`
	Phone          string         `json:"phone" binding:"omitempty,max=20"`
	BirthDate      string         `json:"birth_date"`
	Address        models.Address `json:"address"`
	MedicalHistory string         `json:"medical_history"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token string      `json:"token"`
	User  dto.UserDTO `json:"user"`
}

// --------- Handlers ---------

func (h *AuthHandler) RegisterPatient(c *gin.Context) {
	var req RegisterPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	birth, err := parseOptionalDate(h.loc, req.BirthDate)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	user, err := h.register.Execute(c.Request.Context(), ucUser.RegisterInput{
		Role:           models.RolePatient,
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		CPF:            req.CPF,
		Phone:          req.Phone,
		BirthDate:      birth,
		Address:        req.Address,
		MedicalHistory: req.MedicalHistory,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.login.Execute(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := h.tokens.Generate(user)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(status, tokenResponse{
		Token: token,
		User:  dto.User(*user),
	})
}
