package apiclient

// API path constants
// Every endpoint the client calls is defined here to prevent typos
const (
	// Auth Routes
	RouteAuthLogin   = "/api/auth/login"
	RouteAuthRefresh = "/api/auth/refresh"
	RouteAuthMe      = "/api/auth/me"

	// Common Routes (public)
	RouteConstants = "/api/constants"

	// Patient Routes
	RoutePatientScans          = "/api/patient/scans"
	RoutePatientScan           = "/api/patient/scans/%s"
	RoutePatientScanPlan       = "/api/patient/scans/%s/plan"
	RoutePatientPlans          = "/api/patient/plans"
	RoutePatientPlanOffers     = "/api/patient/plans/%s/offers"
	RoutePatientSearchCriteria = "/api/patient/search-criteria"
	RoutePatientSelectOffer    = "/api/patient/select-offer"
	RoutePatientAppointments   = "/api/patient/appointments"
	RoutePatientReviews        = "/api/patient/reviews"
	RoutePatientComplaints     = "/api/patient/complaints"

	// Clinic Routes
	RouteClinicDashboard     = "/api/clinic/dashboard"
	RouteClinicIncomingPlans = "/api/clinic/incoming-plans"
	RouteClinicOffers        = "/api/clinic/offers"
	RouteClinicLeads         = "/api/clinic/leads"
	RouteClinicAppointments  = "/api/clinic/appointments"
	RouteClinicAppointment   = "/api/clinic/appointments/%s"
	RouteClinicPriceList     = "/api/clinic/price-list"
	RouteClinicAnalytics     = "/api/clinic/analytics"

	// Regulator Routes
	RouteRegulatorDashboard        = "/api/regulator/dashboard"
	RouteRegulatorStatistics       = "/api/regulator/statistics"
	RouteRegulatorClinics          = "/api/regulator/clinics"
	RouteRegulatorClinic           = "/api/regulator/clinics/%s"
	RouteRegulatorComplaints       = "/api/regulator/complaints"
	RouteRegulatorDiseaseAnalytics = "/api/regulator/disease-analytics"
)
