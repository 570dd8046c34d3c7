package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medplus/clinic-scheduler/internal/dto"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/httpresp"
	ucAvailability "github.com/medplus/clinic-scheduler/internal/usecase/availability"
	ucUser "github.com/medplus/clinic-scheduler/internal/usecase/user"
)

// DirectoryHandler lets patients find doctors and their open times.
type DirectoryHandler struct {
	directory *ucUser.Directory
	freeTimes *ucAvailability.FreeTimes
	loc       *time.Location
}

func NewDirectoryHandler(
	directory *ucUser.Directory,
	freeTimes *ucAvailability.FreeTimes,
	loc *time.Location,
) *DirectoryHandler {
	return &DirectoryHandler{
		directory: directory,
		freeTimes: freeTimes,
		loc:       loc,
	}
}

func (h *DirectoryHandler) Doctors(c *gin.Context) {
	doctors, err := h.directory.Doctors(c.Request.Context(), c.Query("specialty"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.DoctorCards(doctors))
}

// FreeTimes requires ?date=YYYY-MM-DD.
func (h *DirectoryHandler) FreeTimes(c *gin.Context) {
	doctorID, ok := idParam(c, "id")
	if !ok {
		return
	}

	date, err := parseDate(h.loc, c.Query("date"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	slots, err := h.freeTimes.Execute(c.Request.Context(), doctorID, date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, slots)
}
