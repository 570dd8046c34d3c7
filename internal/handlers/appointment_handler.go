package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/medplus/clinic-scheduler/internal/domain/appointment"
	"github.com/medplus/clinic-scheduler/internal/dto"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/httpresp"
	"github.com/medplus/clinic-scheduler/internal/models"
	"github.com/medplus/clinic-scheduler/internal/timezone"
	ucAppointment "github.com/medplus/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book       *ucAppointment.Book
	cancel     *ucAppointment.Cancel
	reschedule *ucAppointment.Reschedule
	status     *ucAppointment.UpdateStatus
	queries    *ucAppointment.Queries
	dashboard  *ucAppointment.DoctorDashboard

	loc *time.Location
	now timezone.Clock
}

func NewAppointmentHandler(
	book *ucAppointment.Book,
	cancel *ucAppointment.Cancel,
	reschedule *ucAppointment.Reschedule,
	status *ucAppointment.UpdateStatus,
	queries *ucAppointment.Queries,
	dashboard *ucAppointment.DoctorDashboard,
	loc *time.Location,
	now timezone.Clock,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:       book,
		cancel:     cancel,
		reschedule: reschedule,
		status:     status,
		queries:    queries,
		dashboard:  dashboard,
		loc:        loc,
		now:        now,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookRequest struct {
	DoctorID uint   `json:"doctor_id" binding:"required"`
	DateTime string `json:"date_time" binding:"required"`
	Notes    string `json:"notes" binding:"max=500"`
	Online   bool   `json:"online"`
}

type AdminBookRequest struct {
	PatientID uint `json:"patient_id" binding:"required"`
	BookRequest
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type RescheduleRequest struct {
	DateTime string `json:"date_time" binding:"required"`
	Notes    string `json:"notes" binding:"max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type dashboardResponse struct {
	AppointmentsToday int                  `json:"appointments_today"`
	PatientsToday     int                  `json:"patients_today"`
	Upcoming          []dto.AppointmentDTO `json:"upcoming"`
}

// ======================================================
// PACIENTE
// ======================================================

// PatientList returns every appointment, or the days from..to with
// ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *AppointmentHandler) PatientList(c *gin.Context) {
	patientID := currentUserID(c)

	var (
		aps []models.Appointment
		err error
	)
	rawFrom, rawTo := c.Query("from"), c.Query("to")
	if rawFrom != "" || rawTo != "" {
		from, perr := parseDate(h.loc, rawFrom)
		if perr != nil {
			httperr.FromError(c, perr)
			return
		}
		to, perr := parseDate(h.loc, rawTo)
		if perr != nil {
			httperr.FromError(c, perr)
			return
		}
		start, _ := timezone.DayBounds(from)
		_, end := timezone.DayBounds(to)
		aps, err = h.queries.ListByPatientInRange(c.Request.Context(), patientID, start, end)
	} else {
		aps, err = h.queries.ListByPatient(c.Request.Context(), patientID)
	}
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.Appointments(aps))
}

func (h *AppointmentHandler) PatientBook(c *gin.Context) {
	var req BookRequest
	if !bindJSON(c, &req) {
		return
	}
	patientID := currentUserID(c)
	h.doBook(c, patientID, req, patientID)
}

func (h *AppointmentHandler) PatientCancel(c *gin.Context) {
	h.doCancel(c, models.RolePatient)
}

func (h *AppointmentHandler) PatientReschedule(c *gin.Context) {
	h.doReschedule(c, models.RolePatient)
}

// ======================================================
// MÉDICO
// ======================================================

// DoctorList returns the whole agenda, or one day with ?date=YYYY-MM-DD.
func (h *AppointmentHandler) DoctorList(c *gin.Context) {
	doctorID := currentUserID(c)

	var (
		aps []models.Appointment
		err error
	)
	if raw := c.Query("date"); raw != "" {
		day, perr := parseDate(h.loc, raw)
		if perr != nil {
			httperr.FromError(c, perr)
			return
		}
		aps, err = h.queries.ListByDoctorOnDate(c.Request.Context(), doctorID, day)
	} else {
		aps, err = h.queries.ListByDoctor(c.Request.Context(), doctorID)
	}
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.Appointments(aps))
}

func (h *AppointmentHandler) DoctorUpcoming(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	aps, err := h.queries.ListUpcomingByDoctor(c.Request.Context(), currentUserID(c), h.now(), limit)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.Appointments(aps))
}

func (h *AppointmentHandler) DoctorDashboard(c *gin.Context) {
	d, err := h.dashboard.Execute(c.Request.Context(), currentUserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dashboardResponse{
		AppointmentsToday: d.AppointmentsToday,
		PatientsToday:     d.PatientsToday,
		Upcoming:          dto.Appointments(d.Upcoming),
	})
}

func (h *AppointmentHandler) DoctorCancel(c *gin.Context) {
	h.doCancel(c, models.RoleDoctor)
}

// ======================================================
// ADMIN
// ======================================================

func (h *AppointmentHandler) AdminList(c *gin.Context) {
	aps, err := h.queries.ListAll(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.Appointments(aps))
}

func (h *AppointmentHandler) AdminGet(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.queries.Get(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.Appointment(*ap))
}

func (h *AppointmentHandler) AdminBook(c *gin.Context) {
	var req AdminBookRequest
	if !bindJSON(c, &req) {
		return
	}
	h.doBook(c, req.PatientID, req.BookRequest, currentUserID(c))
}

func (h *AppointmentHandler) AdminCancel(c *gin.Context) {
	h.doCancel(c, models.RoleAdmin)
}

func (h *AppointmentHandler) AdminReschedule(c *gin.Context) {
	h.doReschedule(c, models.RoleAdmin)
}

func (h *AppointmentHandler) AdminUpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	ap, err := h.status.Execute(c.Request.Context(), id, status, currentUserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.Appointment(*ap))
}

// ======================================================
// SHARED
// ======================================================

func (h *AppointmentHandler) doBook(c *gin.Context, patientID uint, req BookRequest, actorID uint) {
	at, err := parseDateTime(h.loc, req.DateTime)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), ucAppointment.BookInput{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		DateTime:  at,
		Notes:     req.Notes,
		Online:    req.Online,
		ActorID:   actorID,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, dto.Appointment(*ap))
}

func (h *AppointmentHandler) doCancel(c *gin.Context, role models.Role) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	// body is optional
	var req CancelRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), ucAppointment.CancelInput{
		AppointmentID: id,
		Reason:        req.Reason,
		Role:          role,
		ActorID:       currentUserID(c),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.Appointment(*ap))
}

func (h *AppointmentHandler) doReschedule(c *gin.Context, role models.Role) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	at, err := parseDateTime(h.loc, req.DateTime)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), ucAppointment.RescheduleInput{
		AppointmentID: id,
		DateTime:      at,
		Notes:         req.Notes,
		Role:          role,
		ActorID:       currentUserID(c),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.Appointment(*ap))
}
