package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
	"github.com/michaelhiggins8/vimpound-backend/internal/repository"
)

// fakeTracker records Track calls in memory.
type fakeTracker struct {
	mu    sync.Mutex
	calls []trackedUsage
	err   error
}

type trackedUsage struct {
	CustomerID string
	FeatureID  string
	Value      float64
}

func (f *fakeTracker) Track(_ context.Context, customerID, featureID string, value float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, trackedUsage{CustomerID: customerID, FeatureID: featureID, Value: value})
	return nil
}

func newUsageFixture(t *testing.T) (*UsageReporter, *fakeTracker, string) {
	t.Helper()

	orgs := repository.NewMemoryOrgsRepo()
	org := &domain.Org{PhoneNumber: sql.NullString{String: "+17605281256", Valid: true}}
	orgs.PutOrg(org)
	orgs.PutProfile(&domain.Profile{ID: "user-1", OrgID: org.ID})

	tracker := &fakeTracker{}
	reporter := NewUsageReporter(orgs, tracker, "call_minutes", zap.NewNop())
	return reporter, tracker, "user-1"
}

func endOfCallMessage(startedAt, endedAt string) *WebhookMessage {
	msg := &WebhookMessage{
		Type:      "end-of-call-report",
		StartedAt: startedAt,
		EndedAt:   endedAt,
	}
	msg.Call.ID = "call-1"
	msg.Call.PhoneCallProviderDetails.SIP.Headers = map[string]string{
		"to": "<sip:+17605281256@sip.example.com>;tag=abc",
	}
	return msg
}

func TestEndOfCallReport_TracksFractionalMinutes(t *testing.T) {
	reporter, tracker, customerID := newUsageFixture(t)

	msg := endOfCallMessage("2024-05-01T09:30:00Z", "2024-05-01T09:42:30Z")
	reporter.HandleEndOfCallReport(context.Background(), msg)

	require.Len(t, tracker.calls, 1)
	require.Equal(t, customerID, tracker.calls[0].CustomerID)
	require.Equal(t, "call_minutes", tracker.calls[0].FeatureID)
	require.InDelta(t, 12.5, tracker.calls[0].Value, 1e-9)
}

func TestEndOfCallReport_CustomerNumberFallback(t *testing.T) {
	reporter, tracker, _ := newUsageFixture(t)

	msg := endOfCallMessage("2024-05-01T09:30:00Z", "2024-05-01T09:31:00Z")
	msg.Call.PhoneCallProviderDetails.SIP.Headers = nil
	msg.Call.Customer.Number = "+17605281256"
	reporter.HandleEndOfCallReport(context.Background(), msg)

	require.Len(t, tracker.calls, 1)
	require.InDelta(t, 1.0, tracker.calls[0].Value, 1e-9)
}

func TestEndOfCallReport_CallObjectTimestampFallback(t *testing.T) {
	reporter, tracker, _ := newUsageFixture(t)

	msg := endOfCallMessage("", "")
	msg.Call.StartedAt = "2024-05-01T09:00:00Z"
	msg.Call.EndedAt = "2024-05-01T09:03:00Z"
	reporter.HandleEndOfCallReport(context.Background(), msg)

	require.Len(t, tracker.calls, 1)
	require.InDelta(t, 3.0, tracker.calls[0].Value, 1e-9)
}

func TestEndOfCallReport_MissingEndedAtSkips(t *testing.T) {
	reporter, tracker, _ := newUsageFixture(t)

	reporter.HandleEndOfCallReport(context.Background(), endOfCallMessage("2024-05-01T09:30:00Z", ""))
	require.Empty(t, tracker.calls)
}

func TestEndOfCallReport_UnparseableTimestampSkips(t *testing.T) {
	reporter, tracker, _ := newUsageFixture(t)

	reporter.HandleEndOfCallReport(context.Background(), endOfCallMessage("yesterday", "2024-05-01T09:42:30Z"))
	require.Empty(t, tracker.calls)
}

func TestEndOfCallReport_UnknownNumberSkips(t *testing.T) {
	reporter, tracker, _ := newUsageFixture(t)

	msg := endOfCallMessage("2024-05-01T09:30:00Z", "2024-05-01T09:42:30Z")
	msg.Call.PhoneCallProviderDetails.SIP.Headers = map[string]string{
		"to": "<sip:+19999999999@sip.example.com>",
	}
	reporter.HandleEndOfCallReport(context.Background(), msg)
	require.Empty(t, tracker.calls)
}

func TestEndOfCallReport_NoNumberSkips(t *testing.T) {
	reporter, tracker, _ := newUsageFixture(t)

	msg := endOfCallMessage("2024-05-01T09:30:00Z", "2024-05-01T09:42:30Z")
	msg.Call.PhoneCallProviderDetails.SIP.Headers = nil
	reporter.HandleEndOfCallReport(context.Background(), msg)
	require.Empty(t, tracker.calls)
}

func TestEndOfCallReport_TrackFailureSwallowed(t *testing.T) {
	reporter, tracker, _ := newUsageFixture(t)
	tracker.err = errors.New("billing down")

	// Must not panic or propagate.
	reporter.HandleEndOfCallReport(context.Background(), endOfCallMessage("2024-05-01T09:30:00Z", "2024-05-01T09:42:30Z"))
	require.Empty(t, tracker.calls)
}

func TestCalledNumber_SIPExtraction(t *testing.T) {
	call := &CallInfo{}
	call.Customer.Number = "+15550000000"
	call.PhoneCallProviderDetails.SIP.Headers = map[string]string{
		"to": `"Lot" <sip:+17605281256@44.229.228.186:5060>;tag=xyz`,
	}
	require.Equal(t, "+17605281256", calledNumber(call))

	// No sip: URI -> customer number.
	call.PhoneCallProviderDetails.SIP.Headers = map[string]string{"to": "tel:+1234"}
	require.Equal(t, "+15550000000", calledNumber(call))
}
