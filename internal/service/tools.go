package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Tool names the voice agent is configured with.
const (
	ToolCheckVehicle   = "check_vehicle"
	ToolCheckDateOpen  = "check_date_open"
	ToolCheckDateToday = "check_date_today"
)

// ToolArgs the union of arguments across all tools. Unknown keys are
// ignored; missing keys decode to "".
type ToolArgs struct {
	OrgID       string `json:"org_id"`
	Date        string `json:"date"`
	TimeZone    string `json:"time_zone"`
	VINNumber   string `json:"vin_number"`
	PlateNumber string `json:"plate_number"`
}

type toolFunc func(ctx context.Context, args ToolArgs) string

// ToolDispatcher routes named function-call invocations to their handlers.
// The dispatch table is closed at construction; unknown names fall through
// to a literal "Unknown tool" answer instead of a lookup failure.
type ToolDispatcher struct {
	tools  map[string]toolFunc
	logger *zap.Logger
}

func NewToolDispatcher(vehicles *VehicleCheckService, calendar *CalendarService, logger *zap.Logger) *ToolDispatcher {
	d := &ToolDispatcher{logger: logger}
	d.tools = map[string]toolFunc{
		ToolCheckVehicle: func(ctx context.Context, args ToolArgs) string {
			return vehicles.Check(ctx, args.OrgID, args.VINNumber, args.PlateNumber).Spoken()
		},
		ToolCheckDateOpen: func(ctx context.Context, args ToolArgs) string {
			tz := args.TimeZone
			if tz == "" {
				tz = DefaultTimeZone
			}
			return calendar.ResolveLotHours(ctx, args.OrgID, args.Date, tz).Spoken()
		},
		ToolCheckDateToday: func(_ context.Context, args ToolArgs) string {
			return calendar.TodaySpoken(args.TimeZone)
		},
	}
	return d
}

// decodeToolArgs tolerates both a JSON object and a JSON-string-encoded
// object; anything else decodes to empty arguments.
func decodeToolArgs(raw json.RawMessage) ToolArgs {
	var args ToolArgs
	if len(raw) == 0 {
		return args
	}
	if err := json.Unmarshal(raw, &args); err == nil {
		return args
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return ToolArgs{}
	}
	if err := json.Unmarshal([]byte(encoded), &args); err != nil {
		return ToolArgs{}
	}
	return args
}

// HandleToolCalls answers every invocation in the batch, in input order. A
// malformed entry degrades to its tool's fallback answer; it never aborts
// the rest of the batch.
func (d *ToolDispatcher) HandleToolCalls(ctx context.Context, msg *WebhookMessage) *ToolCallResponse {
	response := &ToolCallResponse{Results: []ToolCallResult{}}

	for _, call := range msg.ToolCallList {
		name := call.Function.Name
		args := decodeToolArgs(call.Function.Arguments)

		result := fmt.Sprintf("Unknown tool: %s", name)
		if tool, ok := d.tools[name]; ok {
			result = tool(ctx, args)
		}

		d.logger.Info("Tool call answered",
			zap.String("tool_call_id", call.ID),
			zap.String("tool", name))

		response.Results = append(response.Results, ToolCallResult{
			ToolCallID: call.ID,
			Result:     result,
		})
	}
	return response
}
