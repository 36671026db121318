package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/api"
	"github.com/Jagog2026/Eutymia-crm/internal/auth"
	"github.com/Jagog2026/Eutymia-crm/internal/cache"
	"github.com/Jagog2026/Eutymia-crm/internal/config"
	"github.com/Jagog2026/Eutymia-crm/internal/email"
	"github.com/Jagog2026/Eutymia-crm/internal/middleware"
	"github.com/Jagog2026/Eutymia-crm/internal/migrate"
	"github.com/Jagog2026/Eutymia-crm/internal/seed"
	"github.com/Jagog2026/Eutymia-crm/internal/whatsapp"
	"github.com/gorilla/mux"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("conexión postgres: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("pool postgres: %v", err)
		}
		if cfg.DBMaxConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.DBMaxConns)
		}
		if err := sqlDB.Ping(); err != nil {
			log.Fatalf("ping postgres: %v", err)
		}
		if err := migrate.Run(context.Background(), db, "migrations"); err != nil {
			log.Fatalf("migrations: %v", err)
		}
		if err := seed.Run(context.Background(), db); err != nil {
			log.Printf("seed (ignorado si ya aplicó): %v", err)
		}
	}

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	r.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"no database"}`))
			return
		}
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"db unhealthy"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	h := &api.Handler{DB: db, Cfg: cfg, Cache: cache.New(60 * time.Second)}
	h.SetHashPassword(auth.HashPassword)

	if cfg.WhatsAppAccessToken != "" && cfg.WhatsAppPhoneNumberID != "" {
		h.WhatsApp = whatsapp.NewClient(whatsapp.Config{
			AccessToken:      cfg.WhatsAppAccessToken,
			PhoneNumberID:    cfg.WhatsAppPhoneNumberID,
			APIBase:          cfg.WhatsAppAPIBase,
			ReminderTemplate: cfg.ReminderTemplate,
		})
		log.Printf("[whatsapp] Cloud API configurada (phone number id %s)", cfg.WhatsAppPhoneNumberID)
	} else {
		log.Printf("[whatsapp] envío desactivado: faltan WHATSAPP_ACCESS_TOKEN / WHATSAPP_PHONE_NUMBER_ID")
	}

	mailCfg := &email.Config{
		Host:     cfg.SMTPHost,
		Port:     email.PortFromString(cfg.SMTPPort),
		User:     cfg.SMTPUser,
		Pass:     cfg.SMTPPass,
		FromName: cfg.SMTPFromName,
		FromAddr: cfg.SMTPFromEmail,
	}
	mailCfg.LogConfigSummary()
	h.SetSendCampaignEmail(mailCfg.SendCampaign)
	h.SetSendReportEmail(mailCfg.SendWithAttachment)

	// Webhook: endpoints públicos, Meta no manda JWT.
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	apiRouter.HandleFunc("/webhook", h.VerifyWebhook).Methods(http.MethodGet)
	apiRouter.HandleFunc("/webhook", h.ReceiveWebhook).Methods(http.MethodPost)

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.RequireAuth(cfg.JWTSecret))
	protected.HandleFunc("/auth/me", h.Me).Methods(http.MethodGet)

	protected.Handle("/users", middleware.RequireRole(auth.RoleAdmin)(http.HandlerFunc(h.ListUsers))).Methods(http.MethodGet)
	protected.Handle("/users", middleware.RequireRole(auth.RoleAdmin)(http.HandlerFunc(h.CreateUser))).Methods(http.MethodPost)
	protected.Handle("/users/{userId}", middleware.RequireRole(auth.RoleAdmin)(http.HandlerFunc(h.UpdateUser))).Methods(http.MethodPatch)
	protected.Handle("/users/{userId}", middleware.RequireRole(auth.RoleAdmin)(http.HandlerFunc(h.DeleteUser))).Methods(http.MethodDelete)

	protected.HandleFunc("/therapists", h.ListTherapists).Methods(http.MethodGet)
	protected.HandleFunc("/therapists/{therapistId}", h.GetTherapist).Methods(http.MethodGet)
	protected.Handle("/therapists", middleware.RequireRole(auth.RoleAdmin)(http.HandlerFunc(h.CreateTherapist))).Methods(http.MethodPost)
	protected.Handle("/therapists/{therapistId}", middleware.RequireRole(auth.RoleAdmin)(http.HandlerFunc(h.UpdateTherapist))).Methods(http.MethodPut)
	protected.Handle("/therapists/{therapistId}", middleware.RequireRole(auth.RoleAdmin)(http.HandlerFunc(h.DeleteTherapist))).Methods(http.MethodDelete)

	protected.HandleFunc("/agenda", h.GetAgenda).Methods(http.MethodGet)
	protected.HandleFunc("/agenda/block", h.CreateBlock).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", h.CreateAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", h.UpdateAppointment).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/move", h.MoveAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/pay", h.PayAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", h.DeleteAppointment).Methods(http.MethodDelete)

	protected.HandleFunc("/leads", h.ListLeads).Methods(http.MethodGet)
	protected.HandleFunc("/leads", h.CreateLead).Methods(http.MethodPost)
	protected.HandleFunc("/leads/import", h.ImportLeads).Methods(http.MethodPost)
	protected.HandleFunc("/leads/import/template", h.ImportTemplate).Methods(http.MethodGet)
	protected.HandleFunc("/leads/export", h.ExportLeads).Methods(http.MethodGet)
	protected.HandleFunc("/leads/email", h.BulkEmailLeads).Methods(http.MethodPost)
	protected.HandleFunc("/leads/{leadId}", h.GetLead).Methods(http.MethodGet)
	protected.HandleFunc("/leads/{leadId}", h.UpdateLead).Methods(http.MethodPatch)
	protected.HandleFunc("/leads/{leadId}", h.DeleteLead).Methods(http.MethodDelete)
	protected.HandleFunc("/leads/{leadId}/stage", h.UpdateLeadStage).Methods(http.MethodPatch)
	protected.HandleFunc("/leads/{leadId}/read", h.MarkLeadRead).Methods(http.MethodPost)
	protected.HandleFunc("/leads/{leadId}/messages", h.ListLeadMessages).Methods(http.MethodGet)
	protected.HandleFunc("/leads/{leadId}/tasks", h.ListLeadTasks).Methods(http.MethodGet)
	protected.HandleFunc("/leads/{leadId}/tasks", h.CreateLeadTask).Methods(http.MethodPost)
	protected.HandleFunc("/tasks/{taskId}", h.UpdateLeadTask).Methods(http.MethodPatch)
	protected.HandleFunc("/tasks/{taskId}", h.DeleteLeadTask).Methods(http.MethodDelete)

	protected.HandleFunc("/whatsapp/send", h.SendWhatsApp).Methods(http.MethodPost)
	protected.HandleFunc("/whatsapp/bulk", h.BulkSendWhatsApp).Methods(http.MethodPost)

	protected.HandleFunc("/reports", h.GetReport).Methods(http.MethodGet)
	protected.HandleFunc("/reports/pdf", h.GetReportPDF).Methods(http.MethodGet)
	protected.HandleFunc("/reports/email", h.EmailMonthlyReport).Methods(http.MethodPost)
	protected.HandleFunc("/dashboard", h.GetDashboard).Methods(http.MethodGet)

	protected.HandleFunc("/expenses", h.ListExpenses).Methods(http.MethodGet)
	protected.HandleFunc("/expenses", h.CreateExpense).Methods(http.MethodPost)
	protected.HandleFunc("/expenses/{expenseId}", h.UpdateExpense).Methods(http.MethodPatch)
	protected.HandleFunc("/expenses/{expenseId}", h.DeleteExpense).Methods(http.MethodDelete)

	protected.HandleFunc("/workshops", h.ListWorkshops).Methods(http.MethodGet)
	protected.HandleFunc("/workshops", h.CreateWorkshop).Methods(http.MethodPost)
	protected.HandleFunc("/workshops/{workshopId}", h.GetWorkshop).Methods(http.MethodGet)
	protected.HandleFunc("/workshops/{workshopId}", h.UpdateWorkshop).Methods(http.MethodPut)
	protected.HandleFunc("/workshops/{workshopId}", h.DeleteWorkshop).Methods(http.MethodDelete)
	protected.HandleFunc("/workshops/{workshopId}/register", h.RegisterToWorkshop).Methods(http.MethodPost)
	protected.HandleFunc("/workshops/{workshopId}/qr", h.WorkshopQR).Methods(http.MethodGet)

	protected.HandleFunc("/settings", h.ListSettings).Methods(http.MethodGet)
	protected.HandleFunc("/settings/{key}", h.GetSetting).Methods(http.MethodGet)
	protected.Handle("/settings/{key}", middleware.RequireRole(auth.RoleAdmin)(http.HandlerFunc(h.PutSetting))).Methods(http.MethodPut)

	chain := middleware.Recover(middleware.RequestID(middleware.Timeout(time.Duration(cfg.RequestTimeoutSec)*time.Second)(middleware.CORS(cfg.CORSOrigins)(middleware.Gzip(r)))))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      chain,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("backend listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("backend stopped")
}
