package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
	"github.com/michaelhiggins8/vimpound-backend/internal/repository"
)

func assistantRequestMessage(sipTo, customerNumber string) *WebhookMessage {
	msg := &WebhookMessage{Type: "assistant-request"}
	if sipTo != "" {
		msg.Call.PhoneCallProviderDetails.SIP.Headers = map[string]string{"to": sipTo}
	}
	msg.Call.Customer.Number = customerNumber
	return msg
}

func TestHandleAssistantRequest_ResolvesOrg(t *testing.T) {
	orgs := repository.NewMemoryOrgsRepo()
	org := &domain.Org{
		PhoneNumber: sql.NullString{String: "+17605281256", Valid: true},
		AgentName:   sql.NullString{String: "Alex", Valid: true},
		CompanyName: sql.NullString{String: "Desert Towing", Valid: true},
	}
	orgs.PutOrg(org)

	svc := NewAssistantService(orgs, "assistant-123", zap.NewNop())

	reply, err := svc.HandleAssistantRequest(context.Background(),
		assistantRequestMessage("<sip:+17605281256@sip.example.com>", ""))
	require.NoError(t, err)
	require.Equal(t, "assistant-123", reply.AssistantID)

	vv := reply.AssistantOverrides.VariableValues
	require.Equal(t, org.ID, vv.OrgID)
	require.NotNil(t, vv.AgentName)
	require.Equal(t, "Alex", *vv.AgentName)
	require.NotNil(t, vv.CompanyName)
	require.Equal(t, "Desert Towing", *vv.CompanyName)
	// Unset columns surface as nil, which marshals to JSON null.
	require.Nil(t, vv.DefaultHoursOfOperation)
	require.Nil(t, vv.DocumentsNeeded)
	require.Nil(t, vv.TimeZone)
}

func TestHandleAssistantRequest_CustomerNumberFallback(t *testing.T) {
	orgs := repository.NewMemoryOrgsRepo()
	org := &domain.Org{PhoneNumber: sql.NullString{String: "+15551234567", Valid: true}}
	orgs.PutOrg(org)

	svc := NewAssistantService(orgs, "assistant-123", zap.NewNop())

	reply, err := svc.HandleAssistantRequest(context.Background(),
		assistantRequestMessage("", "+15551234567"))
	require.NoError(t, err)
	require.Equal(t, org.ID, reply.AssistantOverrides.VariableValues.OrgID)
}

func TestHandleAssistantRequest_UnknownNumber(t *testing.T) {
	orgs := repository.NewMemoryOrgsRepo()
	svc := NewAssistantService(orgs, "assistant-123", zap.NewNop())

	_, err := svc.HandleAssistantRequest(context.Background(),
		assistantRequestMessage("<sip:+19999999999@sip.example.com>", ""))
	require.ErrorIs(t, err, ErrNoOrgForCall)
}

func TestHandleAssistantRequest_NoNumberAtAll(t *testing.T) {
	orgs := repository.NewMemoryOrgsRepo()
	svc := NewAssistantService(orgs, "assistant-123", zap.NewNop())

	_, err := svc.HandleAssistantRequest(context.Background(), assistantRequestMessage("", ""))
	require.ErrorIs(t, err, ErrNoOrgForCall)
}

func TestSipToNumber(t *testing.T) {
	require.Equal(t, "+17605281256", sipToNumber("<sip:+17605281256@sip.example.com>"))
	require.Equal(t, "+17605281256", sipToNumber(`"Lot" <sip:+17605281256@10.0.0.1:5060>;tag=a`))
	require.Equal(t, "", sipToNumber("tel:+1234"))
	require.Equal(t, "", sipToNumber(""))
}
