package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medplus/clinic-scheduler/internal/dto"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/httpresp"
	"github.com/medplus/clinic-scheduler/internal/models"
	ucUser "github.com/medplus/clinic-scheduler/internal/usecase/user"
)

type MeHandler struct {
	profile *ucUser.Profile
	loc     *time.Location
}

func NewMeHandler(profile *ucUser.Profile, loc *time.Location) *MeHandler {
	return &MeHandler{profile: profile, loc: loc}
}

// UpdateProfileRequest is shared with the admin user update. Absent fields
// are left as they are.
type UpdateProfileRequest struct {
	Name      *string         `json:"name" binding:"omitempty,min=1,max=100"`
	Email     *string         `json:"email" binding:"omitempty,email"`
	CPF       *string         `json:"cpf" binding:"omitempty,max=14"`
	Phone     *string         `json:"phone" binding:"omitempty,max=20"`
	BirthDate *string         `json:"birth_date"`
	Address   *models.Address `json:"address"`

	Specialty      *string `json:"specialty" binding:"omitempty,max=100"`
	MedicalHistory *string `json:"medical_history"`
	AccessLevel    *string `json:"access_level" binding:"omitempty,max=50"`
}

func (r UpdateProfileRequest) toInput(loc *time.Location) (ucUser.ProfileInput, error) {
	in := ucUser.ProfileInput{
		Name:           r.Name,
		Email:          r.Email,
		CPF:            r.CPF,
		Phone:          r.Phone,
		Address:        r.Address,
		Specialty:      r.Specialty,
		MedicalHistory: r.MedicalHistory,
		AccessLevel:    r.AccessLevel,
	}
	if r.BirthDate != nil {
		birth, err := parseOptionalDate(loc, *r.BirthDate)
		if err != nil {
			return in, err
		}
		in.BirthDate = birth
	}
	return in, nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, err := h.profile.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.User(*user))
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	in, err := req.toInput(h.loc)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	userID := currentUserID(c)
	user, err := h.profile.Update(c.Request.Context(), userID, in, userID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.User(*user))
}

func (h *MeHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.profile.ChangePassword(c.Request.Context(), currentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.NoContent(c)
}

// DeactivateMe is the self-service account closure.
func (h *MeHandler) DeactivateMe(c *gin.Context) {
	userID := currentUserID(c)
	if _, err := h.profile.SetActive(c.Request.Context(), userID, false, userID); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.NoContent(c)
}
