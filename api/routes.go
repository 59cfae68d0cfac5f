package api

import (
	"github.com/garnizeh/chronosflow/internal/service"
	"github.com/gorilla/mux"
)

func SetupRoutes(version, buildTime string, auth *service.Auth, tracker *service.Tracker) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(auth)
	trackerHandler := NewTrackerHandler(tracker)
	studyPlanHandler := NewStudyPlanHandler()

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")
	r.HandleFunc("/v1/auth/roles/toggle", authHandler.ToggleRole).Methods("POST")
	r.HandleFunc("/v1/auth/password-strength", authHandler.PasswordStrength).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddleware(auth))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Account and state
	apiV1.HandleFunc("/me", trackerHandler.Me).Methods("GET")
	apiV1.HandleFunc("/me/role", trackerHandler.SwitchRole).Methods("PUT")
	apiV1.HandleFunc("/state", trackerHandler.GetState).Methods("GET")
	apiV1.HandleFunc("/state/export", trackerHandler.ExportState).Methods("GET")
	apiV1.HandleFunc("/state/import", trackerHandler.ImportState).Methods("POST")

	// Employees and time logs
	apiV1.HandleFunc("/employees", trackerHandler.AddEmployee).Methods("POST")
	apiV1.HandleFunc("/employees/current", trackerHandler.SelectEmployee).Methods("PUT")
	apiV1.HandleFunc("/employees/{id}", trackerHandler.RemoveEmployee).Methods("DELETE")
	apiV1.HandleFunc("/employees/{id}/logs/{date}", trackerHandler.PutLog).Methods("PUT")
	apiV1.HandleFunc("/employees/{id}/logs/{date}", trackerHandler.DeleteLog).Methods("DELETE")
	apiV1.HandleFunc("/employees/{id}/summary", trackerHandler.EmployeeSummary).Methods("GET")
	apiV1.HandleFunc("/employees/{id}/calendar", trackerHandler.EmployeeCalendar).Methods("GET")
	apiV1.HandleFunc("/summary", trackerHandler.CurrentSummary).Methods("GET")
	apiV1.HandleFunc("/team", trackerHandler.Team).Methods("GET")

	// Planning and advice
	apiV1.HandleFunc("/study-plan", studyPlanHandler.Calculate).Methods("POST")
	apiV1.HandleFunc("/advice", trackerHandler.Advice).Methods("POST")

	return r
}
