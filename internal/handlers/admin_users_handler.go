package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domainUser "github.com/medplus/clinic-scheduler/internal/domain/user"
	"github.com/medplus/clinic-scheduler/internal/dto"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/httpresp"
	"github.com/medplus/clinic-scheduler/internal/models"
	ucUser "github.com/medplus/clinic-scheduler/internal/usecase/user"
)

type AdminUsersHandler struct {
	register  *ucUser.Register
	profile   *ucUser.Profile
	directory *ucUser.Directory
	loc       *time.Location
}

func NewAdminUsersHandler(
	register *ucUser.Register,
	profile *ucUser.Profile,
	directory *ucUser.Directory,
	loc *time.Location,
) *AdminUsersHandler {
	return &AdminUsersHandler{
		register:  register,
		profile:   profile,
		directory: directory,
		loc:       loc,
	}
}

type CreateUserRequest struct {
	Role      string         `json:"role" binding:"required,oneof=PACIENTE MEDICO ADMIN"`
	Name      string         `json:"name" binding:"required,max=100"`
	Email     string         `json:"email" binding:"required,email"`
	Password  string         `json:"password" binding:"required,min=6"`
	CPF       string         `json:"cpf" binding:"omitempty,max=14"`
	Phone     string         `json:"phone" binding:"omitempty,max=20"`
	BirthDate string         `json:"birth_date"`
	Address   models.Address `json:"address"`

	CRM            string `json:"crm" binding:"omitempty,max=20"`
	Specialty      string `json:"specialty" binding:"omitempty,max=100"`
	MedicalHistory string `json:"medical_history"`
	AccessLevel    string `json:"access_level" binding:"omitempty,max=50"`
}

// List accepts ?role=MEDICO&active=true.
func (h *AdminUsersHandler) List(c *gin.Context) {
	f := domainUser.Filter{
		Role:      models.Role(strings.ToUpper(c.Query("role"))),
		Specialty: c.Query("specialty"),
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_active", "Parâmetro active deve ser true ou false.")
			return
		}
		f.Active = &active
	}

	users, err := h.directory.List(c.Request.Context(), f)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.Users(users))
}

func (h *AdminUsersHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	birth, err := parseOptionalDate(h.loc, req.BirthDate)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	user, err := h.register.Execute(c.Request.Context(), ucUser.RegisterInput{
		Role:           models.Role(req.Role),
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		CPF:            req.CPF,
		Phone:          req.Phone,
		BirthDate:      birth,
		Address:        req.Address,
		CRM:            req.CRM,
		Specialty:      req.Specialty,
		MedicalHistory: req.MedicalHistory,
		AccessLevel:    req.AccessLevel,
		ActorID:        currentUserID(c),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, dto.User(*user))
}

func (h *AdminUsersHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, err := h.directory.Get(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.User(*user))
}

func (h *AdminUsersHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	in, err := req.toInput(h.loc)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	user, err := h.profile.Update(c.Request.Context(), id, in, currentUserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.User(*user))
}

func (h *AdminUsersHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

func (h *AdminUsersHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *AdminUsersHandler) setActive(c *gin.Context, active bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, err := h.profile.SetActive(c.Request.Context(), id, active, currentUserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.User(*user))
}
