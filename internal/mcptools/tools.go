// Package mcptools exposes the maintenance service as MCP tools so agents can
// read and update the service record.
package mcptools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/faizmokh/servicelog/internal/maintenance"
	"github.com/faizmokh/servicelog/internal/report"
	"github.com/faizmokh/servicelog/internal/version"
)

const defaultHistoryLimit = 10

// NewServer builds an MCP server with every tool registered.
func NewServer(svc *maintenance.Service, logger *logrus.Logger) *server.MCPServer {
	s := server.NewMCPServer(version.Name, version.Version)
	Register(s, svc, logger)
	return s
}

// Register adds the service tools to s.
func Register(s *server.MCPServer, svc *maintenance.Service, logger *logrus.Logger) {
	registerStatus(s, svc)
	registerSchedule(s, svc, logger)
	registerUpdateCurrent(s, svc, logger)
	registerComplete(s, svc, logger)
	registerHistory(s, svc)
	registerDefaultInterval(s, svc, logger)
}

// Serve runs the tools over stdio until ctx is done or stdin closes.
func Serve(ctx context.Context, svc *maintenance.Service, logger *logrus.Logger) error {
	logger.Info("mcp server ready on stdio")
	stdio := server.NewStdioServer(NewServer(svc, logger))
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("serve mcp: %w", err)
	}
	return nil
}

func registerStatus(s *server.MCPServer, svc *maintenance.Service) {
	s.AddTool(
		mcp.NewTool("service_status",
			mcp.WithDescription("Show the pending vehicle service: type, odometer at service, interval, next due odometer and notes."),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			data := svc.Refresh(ctx)
			return mcp.NewToolResultText(strings.TrimSuffix(report.Status(data, time.Local), "\n")), nil
		},
	)
}

func registerSchedule(s *server.MCPServer, svc *maintenance.Service, logger *logrus.Logger) {
	s.AddTool(
		mcp.NewTool("schedule_service",
			mcp.WithDescription("Schedule the next service. Replaces any pending service; next due is odometer plus interval."),
			mcp.WithString("serviceType", mcp.Required(), mcp.Description("Service type, e.g. Engine Oil Change")),
			mcp.WithNumber("odometer", mcp.Required(), mcp.Description("Odometer reading in km at the time of service")),
			mcp.WithNumber("interval", mcp.Description("Kilometres until the next service (default: configured default interval)")),
			mcp.WithString("notes", mcp.Description("Free-form notes")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			serviceType, err := requireString(args, "serviceType")
			if err != nil {
				return nil, err
			}
			odometer, err := requireFloat64(args, "odometer")
			if err != nil {
				return nil, err
			}
			notes, _ := optionalString(args, "notes")

			data, err := svc.ScheduleFrom(ctx, func(data maintenance.AppData) (maintenance.ServiceInput, error) {
				return maintenance.ServiceInput{
					ServiceType: maintenance.ResolveServiceType(serviceType, ""),
					Odometer:    odometer,
					Interval:    optionalFloat64(args, "interval", data.Settings.DefaultInterval),
					Notes:       notes,
				}, nil
			})
			if err != nil {
				return rejected(logger, "schedule_service", err)
			}
			return mcp.NewToolResultText(fmt.Sprintf("Scheduled %s at %s, next due %s",
				data.Current.ServiceType, report.Distance(data.Current.Odometer), report.Distance(data.Current.NextDue))), nil
		},
	)
}

func registerUpdateCurrent(s *server.MCPServer, svc *maintenance.Service, logger *logrus.Logger) {
	s.AddTool(
		mcp.NewTool("update_current_service",
			mcp.WithDescription("Edit the pending service. Omitted fields keep their stored values; id and date never change."),
			mcp.WithString("serviceType", mcp.Description("New service type")),
			mcp.WithNumber("odometer", mcp.Description("New odometer reading in km")),
			mcp.WithNumber("interval", mcp.Description("New interval in km")),
			mcp.WithString("notes", mcp.Description("New notes")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			data, err := svc.UpdateCurrent(ctx, func(form maintenance.Form) maintenance.Form {
				if v, ok := optionalString(args, "serviceType"); ok && strings.TrimSpace(v) != "" {
					form.ServiceType, form.CustomType = v, ""
				}
				if v, ok := args["odometer"].(float64); ok {
					form.Odometer = maintenance.FormatNumber(v)
				}
				if v, ok := args["interval"].(float64); ok {
					form.Interval = maintenance.FormatNumber(v)
				}
				if v, ok := optionalString(args, "notes"); ok {
					form.Notes = v
				}
				return form
			})
			if err != nil {
				return rejected(logger, "update_current_service", err)
			}
			return mcp.NewToolResultText(fmt.Sprintf("Updated %s, next due %s",
				data.Current.ServiceType, report.Distance(data.Current.NextDue))), nil
		},
	)
}

func registerComplete(s *server.MCPServer, svc *maintenance.Service, logger *logrus.Logger) {
	s.AddTool(
		mcp.NewTool("complete_service",
			mcp.WithDescription("Mark the pending service as done and move it to history."),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			data, err := svc.Complete(ctx)
			if err != nil {
				return rejected(logger, "complete_service", err)
			}
			done := data.History[0]
			return mcp.NewToolResultText(fmt.Sprintf("Completed %s at %s", done.ServiceType, report.Distance(done.Odometer))), nil
		},
	)
}

func registerHistory(s *server.MCPServer, svc *maintenance.Service) {
	s.AddTool(
		mcp.NewTool("service_history",
			mcp.WithDescription("List completed services, newest first."),
			mcp.WithNumber("limit", mcp.Description("Maximum entries to return (default 10, 0 for all)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			limit := int(optionalFloat64(req.GetArguments(), "limit", defaultHistoryLimit))
			history := maintenance.SortedHistory(svc.Refresh(ctx).History)
			if len(history) == 0 {
				return mcp.NewToolResultText("No completed services yet."), nil
			}
			if limit > 0 && len(history) > limit {
				history = history[:limit]
			}

			lines := make([]string, 0, len(history))
			for _, entry := range history {
				lines = append(lines, report.Day(entry, time.Local)+" "+report.Line(entry, time.Local))
			}
			return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
		},
	)
}

func registerDefaultInterval(s *server.MCPServer, svc *maintenance.Service, logger *logrus.Logger) {
	s.AddTool(
		mcp.NewTool("set_default_interval",
			mcp.WithDescription("Set the interval in km pre-filled for new services."),
			mcp.WithNumber("interval", mcp.Required(), mcp.Description("Default interval in km, greater than zero")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			interval, err := requireFloat64(req.GetArguments(), "interval")
			if err != nil {
				return nil, err
			}
			data, err := svc.SetDefaultInterval(ctx, interval)
			if err != nil {
				return rejected(logger, "set_default_interval", err)
			}
			return mcp.NewToolResultText(strings.TrimSuffix(report.Settings(data), "\n")), nil
		},
	)
}

// rejected turns domain failures into tool errors the caller can read;
// anything else stays a protocol error.
func rejected(logger *logrus.Logger, tool string, err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, maintenance.ErrInvalidInput) || errors.Is(err, maintenance.ErrNoCurrentService) {
		logger.WithError(err).WithField("tool", tool).Debug("tool call rejected")
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, err
}
