// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package mcp implements a minimal Model Context Protocol server over
// JSON-RPC 2.0, with stdio and HTTP transports.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// ProtocolVersion is the MCP protocol revision this server implements
const ProtocolVersion = "2024-11-05"

// ServerName and ServerVersion identify the server in the initialize
// handshake
const (
	ServerName    = "netbox-mcp"
	ServerVersion = "0.1.0"
)

// Server dispatches MCP requests to a fixed tool registry.
//
// The registry is set at construction and never mutated, so a single Server
// may serve concurrent requests.
type Server struct {
	tools  []Tool
	byName map[string]Tool
	log    zerolog.Logger
}

// NewServer creates a server over a tool registry
func NewServer(tools []Tool, log zerolog.Logger) *Server {
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Spec.Name] = t
	}
	return &Server{tools: tools, byName: byName, log: log}
}

// toolDef is the wire representation of a tool in tools/list
type toolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
	Annotations toolAnnotations `json:"annotations"`
}

type toolAnnotations struct {
	ReadOnlyHint    bool `json:"readOnlyHint"`
	DestructiveHint bool `json:"destructiveHint"`
	IdempotentHint  bool `json:"idempotentHint"`
}

// textContent is a single text block in a tool result
type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// callResult is the wire representation of a tools/call result
type callResult struct {
	Content []textContent `json:"content"`
	IsError bool          `json:"isError"`
}

// Handle processes one raw JSON-RPC message and returns the serialized
// response, or nil for notifications.
//
// Tool execution failures are reported inside the result with isError set;
// only malformed messages and unknown methods produce protocol-level errors.
func (s *Server) Handle(ctx context.Context, raw []byte) []byte {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return s.marshal(errorResponse(nil, CodeParseError, "parse error: invalid JSON"))
	}
	if req.JSONRPC != "2.0" {
		if req.IsNotification() {
			return nil
		}
		return s.marshal(errorResponse(req.ID, CodeInvalidRequest, "invalid request: jsonrpc must be \"2.0\""))
	}

	s.log.Debug().Str("method", req.Method).Msg("request received")

	switch req.Method {
	case "initialize":
		return s.marshal(resultResponse(req.ID, map[string]any{
			"protocolVersion": ProtocolVersion,
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
			"serverInfo": map[string]any{
				"name":    ServerName,
				"version": ServerVersion,
			},
		}))

	case "notifications/initialized":
		return nil

	case "ping":
		return s.marshal(resultResponse(req.ID, map[string]any{}))

	case "tools/list":
		defs := make([]toolDef, 0, len(s.tools))
		for _, t := range s.tools {
			defs = append(defs, toolDef{
				Name:        t.Spec.Name,
				Description: t.Spec.Description,
				InputSchema: t.Spec.InputSchema,
				Annotations: toolAnnotations{
					ReadOnlyHint:    t.Spec.ReadOnly,
					DestructiveHint: t.Spec.Destructive,
					IdempotentHint:  t.Spec.Idempotent,
				},
			})
		}
		return s.marshal(resultResponse(req.ID, map[string]any{"tools": defs}))

	case "tools/call":
		return s.marshal(s.callTool(ctx, req))

	default:
		if req.IsNotification() {
			return nil
		}
		return s.marshal(errorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method)))
	}
}

// callTool executes a tools/call request
func (s *Server) callTool(ctx context.Context, req Request) Response {
	params := gjson.ParseBytes(req.Params)
	name := params.Get("name").String()
	if name == "" {
		return errorResponse(req.ID, CodeInvalidParams, "invalid params: missing tool name")
	}

	tool, ok := s.byName[name]
	if !ok {
		return errorResponse(req.ID, CodeInvalidParams, fmt.Sprintf("unknown tool: %s", name))
	}

	out, err := tool.Handler(ctx, params.Get("arguments"))
	if err != nil {
		s.log.Warn().Str("tool", name).Err(err).Msg("tool call failed")
		return resultResponse(req.ID, callResult{
			Content: []textContent{{Type: "text", Text: err.Error()}},
			IsError: true,
		})
	}

	s.log.Debug().Str("tool", name).Msg("tool call succeeded")
	return resultResponse(req.ID, callResult{
		Content: []textContent{{Type: "text", Text: out}},
	})
}

// marshal serializes a response, falling back to a static internal error on
// encoding failure
func (s *Server) marshal(resp Response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Error().Err(err).Msg("response encoding failed")
		return []byte(`{"jsonrpc":"2.0","id":null,"error":{"code":-32603,"message":"internal error: response encoding failed"}}`)
	}
	return data
}
