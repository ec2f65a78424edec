package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// PatientAPI groups the endpoints available to the patient role.
type PatientAPI struct{ c *Client }

// ClinicAPI groups the endpoints available to the clinic role.
type ClinicAPI struct{ c *Client }

// RegulatorAPI groups the endpoints available to the regulator role.
type RegulatorAPI struct{ c *Client }

func (c *Client) Patient() PatientAPI     { return PatientAPI{c} }
func (c *Client) Clinic() ClinicAPI       { return ClinicAPI{c} }
func (c *Client) Regulator() RegulatorAPI { return RegulatorAPI{c} }

func (c *Client) raw(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.Do(ctx, Request{Method: method, Path: path, Body: body}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func pathf(format string, id string) string {
	return fmt.Sprintf(format, url.PathEscape(id))
}

func (p PatientAPI) Scans(ctx context.Context) (json.RawMessage, error) {
	return p.c.raw(ctx, http.MethodGet, RoutePatientScans, nil)
}

func (p PatientAPI) Scan(ctx context.Context, scanID string) (json.RawMessage, error) {
	return p.c.raw(ctx, http.MethodGet, pathf(RoutePatientScan, scanID), nil)
}

func (p PatientAPI) ScanPlan(ctx context.Context, scanID string) (json.RawMessage, error) {
	return p.c.raw(ctx, http.MethodGet, pathf(RoutePatientScanPlan, scanID), nil)
}

func (p PatientAPI) Plans(ctx context.Context) (json.RawMessage, error) {
	return p.c.raw(ctx, http.MethodGet, RoutePatientPlans, nil)
}

func (p PatientAPI) PlanOffers(ctx context.Context, planID string) (json.RawMessage, error) {
	return p.c.raw(ctx, http.MethodGet, pathf(RoutePatientPlanOffers, planID), nil)
}

func (p PatientAPI) UpdateSearchCriteria(ctx context.Context, criteria any) (json.RawMessage, error) {
	return p.c.raw(ctx, http.MethodPost, RoutePatientSearchCriteria, criteria)
}

func (p PatientAPI) SelectOffer(ctx context.Context, selection any) (json.RawMessage, error) {
	return p.c.raw(ctx, http.MethodPost, RoutePatientSelectOffer, selection)
}

func (p PatientAPI) Appointments(ctx context.Context) (json.RawMessage, error) {
	return p.c.raw(ctx, http.MethodGet, RoutePatientAppointments, nil)
}

func (p PatientAPI) CreateReview(ctx context.Context, review any) (json.RawMessage, error) {
	return p.c.raw(ctx, http.MethodPost, RoutePatientReviews, review)
}

func (p PatientAPI) CreateComplaint(ctx context.Context, complaint any) (json.RawMessage, error) {
	return p.c.raw(ctx, http.MethodPost, RoutePatientComplaints, complaint)
}

func (cl ClinicAPI) Dashboard(ctx context.Context) (json.RawMessage, error) {
	return cl.c.raw(ctx, http.MethodGet, RouteClinicDashboard, nil)
}

func (cl ClinicAPI) IncomingPlans(ctx context.Context) (json.RawMessage, error) {
	return cl.c.raw(ctx, http.MethodGet, RouteClinicIncomingPlans, nil)
}

func (cl ClinicAPI) CreateOffer(ctx context.Context, offer any) (json.RawMessage, error) {
	return cl.c.raw(ctx, http.MethodPost, RouteClinicOffers, offer)
}

func (cl ClinicAPI) Leads(ctx context.Context) (json.RawMessage, error) {
	return cl.c.raw(ctx, http.MethodGet, RouteClinicLeads, nil)
}

func (cl ClinicAPI) Appointments(ctx context.Context) (json.RawMessage, error) {
	return cl.c.raw(ctx, http.MethodGet, RouteClinicAppointments, nil)
}

// UpdateAppointment changes an appointment, typically its status.
func (cl ClinicAPI) UpdateAppointment(ctx context.Context, appointmentID string, update any) (json.RawMessage, error) {
	return cl.c.raw(ctx, http.MethodPut, pathf(RouteClinicAppointment, appointmentID), update)
}

func (cl ClinicAPI) PriceList(ctx context.Context) (json.RawMessage, error) {
	return cl.c.raw(ctx, http.MethodGet, RouteClinicPriceList, nil)
}

func (cl ClinicAPI) UpdatePriceList(ctx context.Context, prices any) (json.RawMessage, error) {
	return cl.c.raw(ctx, http.MethodPut, RouteClinicPriceList, prices)
}

func (cl ClinicAPI) Analytics(ctx context.Context) (json.RawMessage, error) {
	return cl.c.raw(ctx, http.MethodGet, RouteClinicAnalytics, nil)
}

func (r RegulatorAPI) Dashboard(ctx context.Context) (json.RawMessage, error) {
	return r.c.raw(ctx, http.MethodGet, RouteRegulatorDashboard, nil)
}

func (r RegulatorAPI) Statistics(ctx context.Context) (json.RawMessage, error) {
	return r.c.raw(ctx, http.MethodGet, RouteRegulatorStatistics, nil)
}

func (r RegulatorAPI) Clinics(ctx context.Context) (json.RawMessage, error) {
	return r.c.raw(ctx, http.MethodGet, RouteRegulatorClinics, nil)
}

func (r RegulatorAPI) Clinic(ctx context.Context, clinicID string) (json.RawMessage, error) {
	return r.c.raw(ctx, http.MethodGet, pathf(RouteRegulatorClinic, clinicID), nil)
}

// UpdateClinicStatus sends a PATCH with {"status": status}.
func (r RegulatorAPI) UpdateClinicStatus(ctx context.Context, clinicID, status string) (json.RawMessage, error) {
	return r.c.raw(ctx, http.MethodPatch, pathf(RouteRegulatorClinic, clinicID), map[string]string{"status": status})
}

func (r RegulatorAPI) Complaints(ctx context.Context) (json.RawMessage, error) {
	return r.c.raw(ctx, http.MethodGet, RouteRegulatorComplaints, nil)
}

func (r RegulatorAPI) DiseaseAnalytics(ctx context.Context) (json.RawMessage, error) {
	return r.c.raw(ctx, http.MethodGet, RouteRegulatorDiseaseAnalytics, nil)
}
