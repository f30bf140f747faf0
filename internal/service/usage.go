package service

import (
	"context"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/billing"
	"github.com/michaelhiggins8/vimpound-backend/internal/repository"
)

var sipToPattern = regexp.MustCompile(`<sip:([^@]+)`)

// UsageReporter turns end-of-call reports into metered billing usage.
// Billing must never block the webhook response: every failure here is
// logged and swallowed.
type UsageReporter struct {
	profiles  repository.ProfilesRepo
	tracker   billing.UsageTracker
	featureID string
	logger    *zap.Logger
}

func NewUsageReporter(profiles repository.ProfilesRepo, tracker billing.UsageTracker, featureID string, logger *zap.Logger) *UsageReporter {
	return &UsageReporter{
		profiles:  profiles,
		tracker:   tracker,
		featureID: featureID,
		logger:    logger,
	}
}

// parseTimestamp accepts the platform's ISO-8601 strings, which carry a
// literal trailing Z for UTC.
func parseTimestamp(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// calledNumber extracts the dialed lot number: SIP "to" header first, then
// the customer-number field.
func calledNumber(call *CallInfo) string {
	if to := call.PhoneCallProviderDetails.SIP.Headers["to"]; to != "" {
		if m := sipToPattern.FindStringSubmatch(to); m != nil {
			return m[1]
		}
	}
	return call.Customer.Number
}

// HandleEndOfCallReport reports the call's wall-clock minutes as usage for
// the org bound to the dialed number. Missing timestamps or an unknown
// number skip reporting silently.
func (u *UsageReporter) HandleEndOfCallReport(ctx context.Context, msg *WebhookMessage) {
	call := &msg.Call

	phoneNumber := calledNumber(call)
	if phoneNumber == "" {
		u.logger.Warn("End-of-call report carries no phone number", zap.String("call_id", call.ID))
		return
	}

	customerID, err := u.profiles.IDByOrgPhoneNumber(ctx, phoneNumber)
	if err != nil {
		u.logger.Warn("Could not resolve billing customer for call",
			zap.String("phone_number", phoneNumber),
			zap.String("call_id", call.ID),
			zap.Error(err))
		return
	}

	startedRaw := firstNonEmpty(msg.StartedAt, call.StartedAt, call.CreatedAt)
	endedRaw := firstNonEmpty(msg.EndedAt, call.EndedAt, call.UpdatedAt)

	startedAt, okStart := parseTimestamp(startedRaw)
	endedAt, okEnd := parseTimestamp(endedRaw)
	if !okStart || !okEnd {
		u.logger.Warn("Could not compute call duration",
			zap.String("call_id", call.ID),
			zap.String("started_at", startedRaw),
			zap.String("ended_at", endedRaw))
		return
	}

	minutes := endedAt.Sub(startedAt).Minutes()
	if err := u.tracker.Track(ctx, customerID, u.featureID, minutes); err != nil {
		u.logger.Error("Failed to track call usage",
			zap.String("customer_id", customerID),
			zap.Float64("minutes", minutes),
			zap.Error(err))
		return
	}

	u.logger.Info("Reported call usage",
		zap.String("customer_id", customerID),
		zap.String("call_id", call.ID),
		zap.Float64("minutes", minutes))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
