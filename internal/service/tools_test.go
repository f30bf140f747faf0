package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
	"github.com/michaelhiggins8/vimpound-backend/internal/repository"
)

func newDispatcherFixture(t *testing.T) (*ToolDispatcher, string) {
	t.Helper()

	orgs := repository.NewMemoryOrgsRepo()
	org := &domain.Org{
		DefaultHoursOfOperation: sql.NullString{String: testWeeklyHours, Valid: true},
	}
	orgs.PutOrg(org)

	vehicles := repository.NewMemoryVehiclesRepo(orgs)
	vehicles.PutVehicle(&domain.Vehicle{
		OrgID:     org.ID,
		VINNumber: sql.NullString{String: "VIN123", Valid: true},
	})

	exceptionDates := repository.NewMemoryExceptionDatesRepo(orgs)

	calendar := NewCalendarService(orgs, exceptionDates, zap.NewNop())
	loc, err := time.LoadLocation("America/Phoenix")
	require.NoError(t, err)
	calendar.now = func() time.Time {
		return time.Date(2023, time.March, 13, 10, 0, 0, 0, loc)
	}

	check := NewVehicleCheckService(vehicles, zap.NewNop())
	return NewToolDispatcher(check, calendar, zap.NewNop()), org.ID
}

func toolCall(id, name, args string) ToolCall {
	tc := ToolCall{ID: id}
	tc.Function.Name = name
	tc.Function.Arguments = json.RawMessage(args)
	return tc
}

func TestHandleToolCalls_BatchOrderPreserved(t *testing.T) {
	dispatcher, orgID := newDispatcherFixture(t)

	msg := &WebhookMessage{
		Type: "tool-calls",
		ToolCallList: []ToolCall{
			toolCall("call-1", ToolCheckDateOpen, `{"org_id":`+strconv.Quote(orgID)+`,"date":"3/15"}`),
			toolCall("call-2", ToolCheckVehicle, `this is not json`),
			toolCall("call-3", ToolCheckVehicle, `{"org_id":`+strconv.Quote(orgID)+`,"vin_number":"VIN123"}`),
		},
	}

	resp := dispatcher.HandleToolCalls(context.Background(), msg)
	require.Len(t, resp.Results, 3)

	require.Equal(t, "call-1", resp.Results[0].ToolCallID)
	require.Equal(t, "On 3/15, the lot is open from 4:00 AM - 1:00 PM, 5:00 PM - 8:00 PM.", resp.Results[0].Result)

	// Malformed arguments decode to empty args; the lookup then simply
	// fails to match, which is a spoken not-found, not an abort.
	require.Equal(t, "call-2", resp.Results[1].ToolCallID)
	require.Equal(t, "No vehicle was found matching the provided information.", resp.Results[1].Result)

	require.Equal(t, "call-3", resp.Results[2].ToolCallID)
	require.Contains(t, resp.Results[2].Result, "VIN123")
}

func TestHandleToolCalls_UnknownTool(t *testing.T) {
	dispatcher, _ := newDispatcherFixture(t)

	msg := &WebhookMessage{
		ToolCallList: []ToolCall{toolCall("call-1", "mystery_tool", `{}`)},
	}

	resp := dispatcher.HandleToolCalls(context.Background(), msg)
	require.Len(t, resp.Results, 1)
	require.Equal(t, "Unknown tool: mystery_tool", resp.Results[0].Result)
}

func TestHandleToolCalls_EmptyBatch(t *testing.T) {
	dispatcher, _ := newDispatcherFixture(t)

	resp := dispatcher.HandleToolCalls(context.Background(), &WebhookMessage{})
	require.NotNil(t, resp.Results)
	require.Empty(t, resp.Results)
}

func TestHandleToolCalls_TodayTool(t *testing.T) {
	dispatcher, _ := newDispatcherFixture(t)

	msg := &WebhookMessage{
		ToolCallList: []ToolCall{toolCall("call-1", ToolCheckDateToday, `{"time_zone":"America/Phoenix"}`)},
	}

	resp := dispatcher.HandleToolCalls(context.Background(), msg)
	require.Equal(t, "Today's date is 03/13/2023. The day of the week is Monday.", resp.Results[0].Result)
}

func TestDecodeToolArgs(t *testing.T) {
	// Plain object.
	args := decodeToolArgs(json.RawMessage(`{"org_id":"o1","date":"3/15"}`))
	require.Equal(t, "o1", args.OrgID)
	require.Equal(t, "3/15", args.Date)

	// Object serialized into a JSON string.
	args = decodeToolArgs(json.RawMessage(`"{\"vin_number\":\"VIN1\"}"`))
	require.Equal(t, "VIN1", args.VINNumber)

	// Garbage decodes to zero arguments.
	require.Equal(t, ToolArgs{}, decodeToolArgs(json.RawMessage(`42`)))
	require.Equal(t, ToolArgs{}, decodeToolArgs(json.RawMessage(`"not an object"`)))
	require.Equal(t, ToolArgs{}, decodeToolArgs(nil))
}
