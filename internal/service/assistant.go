package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/repository"
)

// AssistantConfigReply the assistant-request response: which assistant to
// run and the per-lot variable values templated into its prompt.
type AssistantConfigReply struct {
	AssistantID        string `json:"assistantId"`
	AssistantOverrides struct {
		VariableValues VariableValues `json:"variableValues"`
	} `json:"assistantOverrides"`
}

// VariableValues per-lot prompt variables. Nullable org columns surface as
// JSON null, matching what the platform template expects for unset fields.
type VariableValues struct {
	AgentName               *string `json:"agent_name"`
	CompanyName             *string `json:"company_name"`
	DefaultHoursOfOperation *string `json:"default_hours_of_operation"`
	DocumentsNeeded         *string `json:"documents_needed"`
	CostToReleaseShort      *string `json:"cost_to_release_short"`
	OrgID                   string  `json:"org_id"`
	DefaultAddress          *string `json:"default_address"`
	TimeZone                *string `json:"time_zone"`
}

// ErrNoOrgForCall no org is bound to the called number; the webhook boundary
// flattens this into an empty acknowledgment so the platform never sees an
// error status.
var ErrNoOrgForCall = errors.New("no org bound to called number")

// AssistantService resolves the called phone number to the lot's assistant
// configuration at call start.
type AssistantService struct {
	orgs        repository.OrgsRepo
	assistantID string
	logger      *zap.Logger
}

func NewAssistantService(orgs repository.OrgsRepo, assistantID string, logger *zap.Logger) *AssistantService {
	return &AssistantService{orgs: orgs, assistantID: assistantID, logger: logger}
}

// sipToNumber pulls the dialed number out of a SIP "to" header such as
// "<sip:+17605281256@sip.example.com>". Returns "" when no sip: URI exists.
func sipToNumber(toHeader string) string {
	_, after, ok := strings.Cut(toHeader, "sip:")
	if !ok {
		return ""
	}
	number, _, _ := strings.Cut(after, "@")
	return strings.TrimSuffix(number, ">")
}

func optional(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// HandleAssistantRequest answers the platform's call-start event with the
// lot's configuration. The number is matched exactly as stored; no
// formatting normalization happens here.
func (s *AssistantService) HandleAssistantRequest(ctx context.Context, msg *WebhookMessage) (*AssistantConfigReply, error) {
	lotNumber := sipToNumber(msg.Call.PhoneCallProviderDetails.SIP.Headers["to"])
	if lotNumber == "" {
		lotNumber = msg.Call.Customer.Number
	}
	if lotNumber == "" {
		return nil, fmt.Errorf("assistant request carries no dialed number: %w", ErrNoOrgForCall)
	}

	org, err := s.orgs.GetByPhoneNumber(ctx, lotNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("No org for inbound call", zap.String("lot_phone_number", lotNumber))
			return nil, ErrNoOrgForCall
		}
		return nil, fmt.Errorf("failed to resolve org for call: %w", err)
	}

	s.logger.Info("Resolved inbound call to org",
		zap.String("lot_phone_number", lotNumber),
		zap.String("org_id", org.ID))

	reply := &AssistantConfigReply{AssistantID: s.assistantID}
	reply.AssistantOverrides.VariableValues = VariableValues{
		AgentName:               optional(org.AgentName),
		CompanyName:             optional(org.CompanyName),
		DefaultHoursOfOperation: optional(org.DefaultHoursOfOperation),
		DocumentsNeeded:         optional(org.DocumentsNeeded),
		CostToReleaseShort:      optional(org.CostToReleaseShort),
		OrgID:                   org.ID,
		DefaultAddress:          optional(org.DefaultAddress),
		TimeZone:                optional(org.TimeZone),
	}
	return reply, nil
}
