package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/medplus/clinic-scheduler/internal/audit"
	"github.com/medplus/clinic-scheduler/internal/auth"
	domainAppointment "github.com/medplus/clinic-scheduler/internal/domain/appointment"
	domainAvailability "github.com/medplus/clinic-scheduler/internal/domain/availability"
	domainUser "github.com/medplus/clinic-scheduler/internal/domain/user"
	"github.com/medplus/clinic-scheduler/internal/handlers"
	"github.com/medplus/clinic-scheduler/internal/infra/lock"
	"github.com/medplus/clinic-scheduler/internal/middleware"
	"github.com/medplus/clinic-scheduler/internal/models"
	"github.com/medplus/clinic-scheduler/internal/timezone"
	ucAppointment "github.com/medplus/clinic-scheduler/internal/usecase/appointment"
	ucAvailability "github.com/medplus/clinic-scheduler/internal/usecase/availability"
	ucUser "github.com/medplus/clinic-scheduler/internal/usecase/user"
	"github.com/medplus/clinic-scheduler/internal/validators"
)

// PartyStore resolves doctors and patients for both registries.
type PartyStore interface {
	domainAppointment.PartyLookup
	domainAvailability.DoctorLookup
}

// Deps is everything the HTTP layer needs. cmd/api fills it with the gorm
// repositories; tests fill it with the in-memory store.
type Deps struct {
	Parties      PartyStore
	Users        domainUser.Repository
	Appointments domainAppointment.Repository
	Slots        domainAvailability.Repository
	AuditLogs    handlers.AuditLogReader

	Audit    audit.Recorder
	Notifier ucAppointment.Notifier
	Locker   lock.Locker
	Tokens   *auth.TokenService

	Location       *time.Location
	Clock          timezone.Clock
	EmailCheck     validators.EmailCheck
	OnlineLinkBase string
	CORSOrigins    []string
	Health         map[string]handlers.Check

	Log zerolog.Logger
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(d.Log),
		middleware.Logger(d.Log),
		middleware.CORSMiddleware(d.CORSOrigins),
	)

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🧠 USE CASES — AVAILABILITY
	// ======================================================
	checker := ucAvailability.NewChecker(d.Slots)

	addSlotUC := ucAvailability.NewAddSlot(d.Parties, d.Slots, d.Audit)
	updateSlotUC := ucAvailability.NewUpdateSlot(d.Slots, d.Audit)
	deactivateSlotUC := ucAvailability.NewDeactivateSlot(d.Slots, d.Audit)
	listSlotsUC := ucAvailability.NewListSlots(d.Parties, d.Slots)
	freeTimesUC := ucAvailability.NewFreeTimes(d.Parties, d.Slots, d.Appointments, d.Clock)

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	bookUC := ucAppointment.NewBook(
		d.Parties,
		d.Appointments,
		checker,
		d.Locker,
		d.Notifier,
		d.Audit,
		d.Clock,
		d.OnlineLinkBase,
	)

	cancelUC := ucAppointment.NewCancel(d.Appointments, d.Audit)

	rescheduleUC := ucAppointment.NewReschedule(
		d.Appointments,
		checker,
		d.Locker,
		d.Audit,
		d.Clock,
	)

	statusUC := ucAppointment.NewUpdateStatus(d.Appointments, d.Audit)
	queriesUC := ucAppointment.NewQueries(d.Parties, d.Appointments)
	dashboardUC := ucAppointment.NewDoctorDashboard(d.Appointments, d.Clock)

	// ======================================================
	// 🧠 USE CASES — USERS
	// ======================================================
	registerUC := ucUser.NewRegister(d.Users, d.EmailCheck, d.Audit)
	loginUC := ucUser.NewLogin(d.Users)
	profileUC := ucUser.NewProfile(d.Users, d.EmailCheck, d.Audit)
	directoryUC := ucUser.NewDirectory(d.Users)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(d.Health)
	authHandler := handlers.NewAuthHandler(registerUC, loginUC, d.Tokens, d.Location)
	meHandler := handlers.NewMeHandler(profileUC, d.Location)
	directoryHandler := handlers.NewDirectoryHandler(directoryUC, freeTimesUC, d.Location)
	availabilityHandler := handlers.NewAvailabilityHandler(addSlotUC, updateSlotUC, deactivateSlotUC, listSlotsUC)
	adminUsersHandler := handlers.NewAdminUsersHandler(registerUC, profileUC, directoryUC, d.Location)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditLogs, d.Location)

	appointmentHandler := handlers.NewAppointmentHandler(
		bookUC,
		cancelUC,
		rescheduleUC,
		statusUC,
		queriesUC,
		dashboardUC,
		d.Location,
		d.Clock,
	)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PÚBLICO
		// ------------------------------
		api.GET("/health", healthHandler.Health)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/register/patient", authHandler.RegisterPatient)

		// ------------------------------
		// 🔐 QUALQUER USUÁRIO AUTENTICADO
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Tokens))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PUT("/me", meHandler.UpdateMe)
			secured.POST("/me/password", meHandler.ChangePassword)
			secured.DELETE("/me", meHandler.DeactivateMe)
		}

		// ------------------------------
		// 🧑 PACIENTE
		// ------------------------------
		patient := secured.Group("/patient")
		patient.Use(middleware.RequireRole(models.RolePatient))
		{
			patient.GET("/appointments", appointmentHandler.PatientList)
			patient.POST("/appointments", appointmentHandler.PatientBook)
			patient.PATCH("/appointments/:id/cancel", appointmentHandler.PatientCancel)
			patient.PATCH("/appointments/:id/reschedule", appointmentHandler.PatientReschedule)

			patient.GET("/doctors", directoryHandler.Doctors)
			patient.GET("/doctors/:id/free-times", directoryHandler.FreeTimes)
		}

		// ------------------------------
		// 🩺 MÉDICO
		// ------------------------------
		doctor := secured.Group("/doctor")
		doctor.Use(middleware.RequireRole(models.RoleDoctor))
		{
			doctor.GET("/appointments", appointmentHandler.DoctorList)
			doctor.GET("/appointments/upcoming", appointmentHandler.DoctorUpcoming)
			doctor.PATCH("/appointments/:id/cancel", appointmentHandler.DoctorCancel)
			doctor.GET("/dashboard", appointmentHandler.DoctorDashboard)

			doctor.POST("/availability", availabilityHandler.Create)
			doctor.GET("/availability", availabilityHandler.List)
			doctor.PUT("/availability/:id", availabilityHandler.Update)
			doctor.DELETE("/availability/:id", availabilityHandler.Delete)
		}

		// ------------------------------
		// 🛠️ ADMIN
		// ------------------------------
		admin := secured.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/users", adminUsersHandler.List)
			admin.POST("/users", adminUsersHandler.Create)
			admin.GET("/users/:id", adminUsersHandler.Get)
			admin.PUT("/users/:id", adminUsersHandler.Update)
			admin.PATCH("/users/:id/activate", adminUsersHandler.Activate)
			admin.PATCH("/users/:id/deactivate", adminUsersHandler.Deactivate)

			admin.GET("/appointments", appointmentHandler.AdminList)
			admin.POST("/appointments", appointmentHandler.AdminBook)
			admin.GET("/appointments/:id", appointmentHandler.AdminGet)
			admin.PATCH("/appointments/:id/cancel", appointmentHandler.AdminCancel)
			admin.PATCH("/appointments/:id/reschedule", appointmentHandler.AdminReschedule)
			admin.PATCH("/appointments/:id/status", appointmentHandler.AdminUpdateStatus)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
