package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/twilio/twilio-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/audit"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/config"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/handlers"
	infraRepo "github.com/carosellagiuliano-max/salon-scheduler/internal/infra/repository"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/middleware"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/notify"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/payments"
	ucAppointment "github.com/carosellagiuliano-max/salon-scheduler/internal/usecase/appointment"
	ucWaitlist "github.com/carosellagiuliano-max/salon-scheduler/internal/usecase/waitlist"
)

// RegisterRoutes wires repositories, collaborators, use cases and handlers.
// It returns the expiry use case so main can hand it to the sweeper.
func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	log *zap.SugaredLogger,
) *ucAppointment.ExpireStale {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	schedulingRepo := infraRepo.NewSchedulingGormRepository(db)
	waitlistRepo := infraRepo.NewWaitlistGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	var smsClient *twilio.RestClient
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		smsClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}
	notifier := notify.NewDispatcher(db, rdb, smsClient, cfg.TwilioFromNumber, log)

	var charger ucAppointment.DepositCharger = payments.Disabled{}
	if cfg.MercadoPagoToken != "" {
		mp, err := payments.NewCharger(cfg.MercadoPagoToken)
		if err != nil {
			log.Fatalw("payment gateway init failed", "error", err)
		}
		charger = mp
	}

	// ======================================================
	// USE CASES: WAITLIST
	// ======================================================
	matchFreedSlotUC := ucWaitlist.NewMatchFreedSlot(schedulingRepo, waitlistRepo, notifier, log)
	joinWaitlistUC := ucWaitlist.NewJoin(schedulingRepo, waitlistRepo, auditDispatcher)
	withdrawWaitlistUC := ucWaitlist.NewWithdraw(waitlistRepo, auditDispatcher)
	listMatchesUC := ucWaitlist.NewListMatches(waitlistRepo)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	availabilityUC := ucAppointment.NewGetAvailability(schedulingRepo)
	reserveUC := ucAppointment.NewReserve(schedulingRepo, auditDispatcher)
	confirmUC := ucAppointment.NewConfirmReservation(schedulingRepo, auditDispatcher, notifier, charger)
	abandonUC := ucAppointment.NewAbandonHold(schedulingRepo, auditDispatcher)
	approveUC := ucAppointment.NewApproveAppointment(schedulingRepo, auditDispatcher, notifier)
	cancelUC := ucAppointment.NewCancelAppointment(schedulingRepo, auditDispatcher, notifier, matchFreedSlotUC)
	rescheduleUC := ucAppointment.NewRescheduleAppointment(schedulingRepo, auditDispatcher, matchFreedSlotUC)
	transitionUC := ucAppointment.NewTransitionAppointment(schedulingRepo, auditDispatcher)
	noShowUC := ucAppointment.NewMarkNoShow(schedulingRepo, auditDispatcher, charger)
	listDayUC := ucAppointment.NewListDay(schedulingRepo)
	expireStaleUC := ucAppointment.NewExpireStale(schedulingRepo, log)

	// ======================================================
	// HANDLERS
	// ======================================================
	publicHandler := handlers.NewPublicHandler(
		schedulingRepo,
		availabilityUC,
		reserveUC,
		confirmUC,
		abandonUC,
		joinWaitlistUC,
		withdrawWaitlistUC,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		schedulingRepo,
		listDayUC,
		reserveUC,
		confirmUC,
		approveUC,
		cancelUC,
		rescheduleUC,
		transitionUC,
		noShowUC,
	)

	workingHoursHandler := handlers.NewWorkingHoursHandler(schedulingRepo)
	absenceHandler := handlers.NewAbsenceHandler(schedulingRepo, auditDispatcher)
	bookingRulesHandler := handlers.NewBookingRulesHandler(schedulingRepo, auditDispatcher)
	waitlistHandler := handlers.NewWaitlistHandler(schedulingRepo, listMatchesUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC (anonymous, slug-scoped)
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.GetAvailability)

			publicAPI.POST("/:slug/reservations", publicHandler.CreateReservation)
			publicAPI.POST("/:slug/reservations/:token/confirm", publicHandler.ConfirmReservation)
			publicAPI.POST("/:slug/reservations/:token/cancel", publicHandler.AbandonReservation)

			publicAPI.POST("/:slug/waitlist", publicHandler.JoinWaitlist)
			publicAPI.DELETE("/:slug/waitlist/:token", publicHandler.WithdrawWaitlist)
		}

		// ------------------------------
		// SECURED (staff JWT, salon-scoped)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.PATCH("/me/appointments/:id/approve", appointmentHandler.Approve)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PATCH("/me/appointments/:id/check-in", appointmentHandler.CheckIn)
			secured.PATCH("/me/appointments/:id/start", appointmentHandler.Start)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/me/appointments/:id/no-show", appointmentHandler.NoShow)

			secured.GET("/me/working-hours", workingHoursHandler.Get)
			secured.PUT("/me/working-hours", workingHoursHandler.Update)
			secured.POST("/me/working-hours/overrides", workingHoursHandler.CreateOverride)
			secured.DELETE("/me/working-hours/overrides/:id", workingHoursHandler.DeleteOverride)

			secured.POST("/me/absences", absenceHandler.Create)
			secured.DELETE("/me/absences/:id", absenceHandler.Delete)

			secured.GET("/me/booking-rules", bookingRulesHandler.Get)
			secured.PUT("/me/booking-rules", bookingRulesHandler.Update)

			secured.GET("/me/waitlist/matches", waitlistHandler.ListMatches)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}

	return expireStaleUC
}
