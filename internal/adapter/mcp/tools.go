package mcp

import (
	"context"
	"encoding/json"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/voyago/voyago/internal/domain/trip"
)

func (s *Server) registerTools() {
	tools := []mcpserver.ServerTool{
		{
			Tool: mcplib.NewTool("plan_trip",
				mcplib.WithDescription("Plan a multi-day trip to a destination. Returns a complete day-by-day itinerary with weather, route and budget estimates."),
				mcplib.WithString("destination", mcplib.Required(), mcplib.Description("Destination city, e.g. Lisbon")),
				mcplib.WithString("start_date", mcplib.Required(), mcplib.Description("Trip start date in YYYY-MM-DD format")),
				mcplib.WithNumber("days", mcplib.Required(), mcplib.Description("Number of trip days, minimum 1")),
				mcplib.WithString("origin", mcplib.Description("Origin city for the travel route")),
				mcplib.WithString("interests", mcplib.Description("Comma-separated traveler interests, e.g. museums,food")),
				mcplib.WithString("budget", mcplib.Description("Budget tier: low, medium or high")),
				mcplib.WithNumber("travelers", mcplib.Description("Number of travelers, defaults to 1")),
			),
			Handler: s.handlePlanTrip,
		},
		{
			Tool: mcplib.NewTool("compare_destinations",
				mcplib.WithDescription("Compare two destinations on attractions, dining, weather and value. Returns per-destination scores, pros and cons, and a winner."),
				mcplib.WithString("a", mcplib.Required(), mcplib.Description("First destination")),
				mcplib.WithString("b", mcplib.Required(), mcplib.Description("Second destination")),
			),
			Handler: s.handleCompareDestinations,
		},
	}
	s.mcpServer.AddTools(tools...)
}

func (s *Server) handlePlanTrip(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.deps.Planner == nil {
		return mcplib.NewToolResultError("trip planning is not configured"), nil
	}

	args := req.GetArguments()
	planReq := trip.Request{
		Destination: stringArg(args, "destination"),
		Origin:      stringArg(args, "origin"),
		StartDate:   stringArg(args, "start_date"),
		Days:        intArg(args, "days"),
		Budget:      trip.BudgetTier(stringArg(args, "budget")),
		Travelers:   intArg(args, "travelers"),
	}
	if interests := stringArg(args, "interests"); interests != "" {
		for _, it := range strings.Split(interests, ",") {
			if it = strings.TrimSpace(it); it != "" {
				planReq.Interests = append(planReq.Interests, it)
			}
		}
	}

	plan, err := s.deps.Planner.PlanTrip(ctx, planReq)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("plan trip", err), nil
	}
	data, err := json.Marshal(plan)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("encode plan", err), nil
	}
	return toolResultJSON(string(data)), nil
}

func (s *Server) handleCompareDestinations(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.deps.Comparer == nil {
		return mcplib.NewToolResultError("destination comparison is not configured"), nil
	}

	args := req.GetArguments()
	a := stringArg(args, "a")
	b := stringArg(args, "b")
	if a == "" || b == "" {
		return mcplib.NewToolResultError("both a and b destinations are required"), nil
	}

	report, err := s.deps.Comparer.Compare(ctx, a, b)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("compare destinations", err), nil
	}
	data, err := json.Marshal(report)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("encode report", err), nil
	}
	return toolResultJSON(string(data)), nil
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// intArg accepts float64 because JSON numbers decode that way.
func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func toolResultJSON(s string) *mcplib.CallToolResult {
	return mcplib.NewToolResultText(s)
}
