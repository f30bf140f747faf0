package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/auth"
)

// Router uses the standard library http.ServeMux (no third-party router
// dependency needed for a flat route table).
type Router struct {
	mux      *http.ServeMux
	verifier auth.Verifier
	logger   *zap.Logger
}

func NewRouter(verifier auth.Verifier, logger *zap.Logger) *Router {
	return &Router{
		mux:      http.NewServeMux(),
		verifier: verifier,
		logger:   logger,
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// authed wraps a handler with bearer-token verification.
func (r *Router) authed(h http.HandlerFunc) http.HandlerFunc {
	return RequireUser(r.verifier, r.logger, h)
}

func methodOnly(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
			return
		}
		h(w, req)
	}
}

// RegisterWebhookRoutes the voice-platform surface. No auth: the platform
// calls it directly.
func (r *Router) RegisterWebhookRoutes(h *WebhookHandler) {
	r.mux.Handle("/vapi", h)
}

// RegisterOrgRoutes org settings reads and single-column patches.
func (r *Router) RegisterOrgRoutes(h *OrgHandler) {
	r.handle("/orgs/content", methodOnly(http.MethodGet, r.authed(h.Content)))
	// Public: landing pages look orgs up by phone number.
	r.handle("/orgs/content/by-phone", methodOnly(http.MethodGet, h.ContentByPhone))

	r.handle("/orgs/agent-name", methodOnly(http.MethodPatch, r.authed(h.PatchAgentName)))
	r.handle("/orgs/company-name", methodOnly(http.MethodPatch, r.authed(h.PatchCompanyName)))
	r.handle("/orgs/default-address", methodOnly(http.MethodPatch, r.authed(h.PatchDefaultAddress)))
	r.handle("/orgs/time-zone", methodOnly(http.MethodPatch, r.authed(h.PatchTimeZone)))
	r.handle("/orgs/default-hours", methodOnly(http.MethodPatch, r.authed(h.PatchDefaultHours)))
	r.handle("/orgs/documents-needed", methodOnly(http.MethodPatch, r.authed(h.PatchDocumentsNeeded)))
	r.handle("/orgs/auction-triggers", methodOnly(http.MethodPatch, r.authed(h.PatchAuctionTriggers)))
	r.handle("/orgs/cost-to-release-short", methodOnly(http.MethodPatch, r.authed(h.PatchCostToReleaseShort)))
	r.handle("/orgs/cost-to-release-long", methodOnly(http.MethodPatch, r.authed(h.PatchCostToReleaseLong)))

	r.handle("/phone-number", methodOnly(http.MethodGet, r.authed(h.PhoneNumber)))
}

// RegisterExceptionDateRoutes per-date hour overrides.
func (r *Router) RegisterExceptionDateRoutes(h *ExceptionDateHandler) {
	r.handle("/orgs/exception-dates", r.authed(h.ServeHTTP))
}

// RegisterVehicleRoutes vehicle inventory CRUD and export.
func (r *Router) RegisterVehicleRoutes(h *VehicleHandler) {
	r.handle("/vehicles", r.authed(h.ServeHTTP))
	r.handle("/vehicles/export", methodOnly(http.MethodGet, r.authed(h.Export)))
}

// RegisterAddressRoutes lot address CRUD.
func (r *Router) RegisterAddressRoutes(h *AddressHandler) {
	r.handle("/addresses", r.authed(h.ServeHTTP))
}

// RegisterPhoneNumberRoutes free-number provisioning.
func (r *Router) RegisterPhoneNumberRoutes(h *PhoneNumberHandler) {
	r.handle("/vapi/phone-numbers/free", r.authed(h.ServeHTTP))
}

// RegisterBillingRoutes checkout, entitlement check, billing portal.
func (r *Router) RegisterBillingRoutes(h *BillingHandler) {
	r.handle("/subscribe-url", methodOnly(http.MethodPost, r.authed(h.SubscribeURL)))
	r.handle("/check-subscription", methodOnly(http.MethodGet, r.authed(h.CheckSubscription)))
	r.handle("/orgs/customer-portal", methodOnly(http.MethodPost, r.authed(h.CustomerPortal)))
}

// RegisterUserRoutes signup bootstrap.
func (r *Router) RegisterUserRoutes(h *UserHandler) {
	r.handle("/make-user", methodOnly(http.MethodPost, r.authed(h.MakeUser)))
}

// RegisterHealthRoute the root welcome message.
func (r *Router) RegisterHealthRoute() {
	r.handle("/", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/" {
			writeDetail(w, http.StatusNotFound, "Not Found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Welcome to the vImpound backend"})
	})
}
