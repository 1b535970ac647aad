package mcp

import (
	"context"
	"errors"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kroneus/kroneus-site/internal/chat"
	"github.com/kroneus/kroneus-site/internal/model"
	"github.com/kroneus/kroneus-site/internal/outcome"
	"github.com/kroneus/kroneus-site/internal/sequencer"
)

// ListInput filters the catalog.
type ListInput struct {
	Industry string `json:"industry,omitempty" jsonschema:"case-insensitive industry filter (e.g. Banking)"`
}

// ListOutput is the filtered catalog.
type ListOutput struct {
	Scenarios []model.Scenario `json:"scenarios"`
}

// PlayInput selects a scenario.
type PlayInput struct {
	ScenarioID string `json:"scenario_id" jsonschema:"scenario id from kroneus_list_scenarios"`
}

// PlayOutput is a complete playthrough.
type PlayOutput struct {
	ScenarioID string            `json:"scenario_id"`
	Ticks      int               `json:"ticks"`
	Frames     []sequencer.Frame `json:"frames"`
	Panel      outcome.Panel     `json:"panel"`
	Text       string            `json:"text"`
	Error      string            `json:"error,omitempty"`
}

// ChatInput is one user message.
type ChatInput struct {
	Message string `json:"message" jsonschema:"question for the assistant"`
}

// ChatOutput is the assistant's answer.
type ChatOutput struct {
	Reply  string `json:"reply"`
	Action string `json:"action,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) handleListScenarios(ctx context.Context, req *mcpsdk.CallToolRequest, input ListInput) (*mcpsdk.CallToolResult, ListOutput, error) {
	out := ListOutput{Scenarios: []model.Scenario{}}
	for _, sc := range s.store.Catalog().Scenarios {
		if input.Industry != "" && !strings.EqualFold(sc.Industry, input.Industry) {
			continue
		}
		out.Scenarios = append(out.Scenarios, sc)
	}
	return nil, out, nil
}

func (s *Server) handlePlayScenario(ctx context.Context, req *mcpsdk.CallToolRequest, input PlayInput) (*mcpsdk.CallToolResult, PlayOutput, error) {
	sc, err := s.store.Catalog().Get(input.ScenarioID)
	if err != nil {
		return &mcpsdk.CallToolResult{IsError: true}, PlayOutput{ScenarioID: input.ScenarioID, Error: err.Error()}, nil
	}

	pt := sequencer.Play(sc)
	s.metrics.PlayRecorded(ctx, sc.ID, string(sc.Outcome))

	return nil, PlayOutput{
		ScenarioID: sc.ID,
		Ticks:      pt.Ticks,
		Frames:     pt.Frames,
		Panel:      pt.Panel,
		Text:       pt.Panel.Text(),
	}, nil
}

func (s *Server) handleChat(ctx context.Context, req *mcpsdk.CallToolRequest, input ChatInput) (*mcpsdk.CallToolResult, ChatOutput, error) {
	reply, err := s.chat.Reply(input.Message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			return &mcpsdk.CallToolResult{IsError: true}, ChatOutput{Error: err.Error()}, nil
		}
		return nil, ChatOutput{}, err
	}
	s.metrics.ChatAnswered(ctx, reply.Rule)
	return nil, ChatOutput{Reply: reply.Text, Action: reply.Action}, nil
}
