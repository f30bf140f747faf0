package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/billing"
)

// BillingHandler subscription checkout, entitlement checks, and the billing
// portal. The authenticated user's id doubles as the billing customer id.
type BillingHandler struct {
	billing     *billing.Client
	productID   string
	featureID   string
	frontendURL string
	logger      *zap.Logger
}

func NewBillingHandler(client *billing.Client, productID, featureID, frontendURL string, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{
		billing:     client,
		productID:   productID,
		featureID:   featureID,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// SubscribeURL POST /subscribe-url: a checkout link for the configured
// product; the redirect defaults to the dashboard phone-number page.
func (h *BillingHandler) SubscribeURL(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body struct {
		ProductID  string `json:"product_id"`
		SuccessURL string `json:"success_url"`
	}
	if err := readBodyJSON(r, &body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	productID := body.ProductID
	if productID == "" {
		productID = h.productID
	}
	if productID == "" {
		writeDetail(w, http.StatusBadRequest, "product_id is required. Either provide it in the request body or configure AUTUMN_PRODUCT_ID")
		return
	}

	successURL := body.SuccessURL
	if successURL == "" && h.frontendURL != "" {
		successURL = h.frontendURL + "/dashboard/phone_number"
	}

	result, err := h.billing.Checkout(r.Context(), user.ID, productID, successURL)
	if err != nil {
		h.logger.Error("checkout link request failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error generating checkout URL")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"url":         result.URL,
		"customer_id": result.CustomerID,
		"product":     result.Product,
	})
}

// CheckSubscription GET /check-subscription: an entitlement check for the
// configured feature, response passed through as-is.
func (h *BillingHandler) CheckSubscription(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	result, err := h.billing.Check(r.Context(), user.ID, h.featureID)
	if err != nil {
		h.logger.Error("subscription check failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error checking subscription status")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// CustomerPortal POST /orgs/customer-portal: a billing-portal link; a
// return_url without a scheme gets https:// prefixed.
func (h *BillingHandler) CustomerPortal(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body struct {
		ReturnURL string `json:"return_url"`
	}
	if err := readBodyJSON(r, &body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	returnURL := body.ReturnURL
	if returnURL == "" && h.frontendURL != "" {
		returnURL = h.frontendURL + "/dashboard/billing"
	}
	if returnURL != "" && !strings.HasPrefix(returnURL, "http://") && !strings.HasPrefix(returnURL, "https://") {
		returnURL = "https://" + returnURL
	}

	result, err := h.billing.BillingPortal(r.Context(), user.ID, returnURL)
	if err != nil {
		h.logger.Error("billing portal request failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error generating billing portal URL")
		return
	}

	customerID := result.CustomerID
	if customerID == "" {
		customerID = user.ID
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"url":         result.URL,
		"customer_id": customerID,
	})
}
