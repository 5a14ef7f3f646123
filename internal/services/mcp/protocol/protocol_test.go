package protocol

import (
	"encoding/json"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/uuidforge/internal/platform/errors"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantMethod  string
		wantNotify  bool
		wantErrCode apperrors.Code
	}{
		{
			name:       "request with string id",
			input:      `{"jsonrpc":"2.0","id":"abc","method":"tools/list"}`,
			wantMethod: "tools/list",
		},
		{
			name:       "request with number id",
			input:      `{"jsonrpc":"2.0","id":7,"method":"ping"}`,
			wantMethod: "ping",
		},
		{
			name:       "notification without id",
			input:      `{"jsonrpc":"2.0","method":"notifications/initialized"}`,
			wantMethod: "notifications/initialized",
			wantNotify: true,
		},
		{
			name:       "null id is a notification",
			input:      `{"jsonrpc":"2.0","id":null,"method":"notifications/initialized"}`,
			wantMethod: "notifications/initialized",
			wantNotify: true,
		},
		{
			name:        "malformed json",
			input:       `{"jsonrpc":"2.0","metho`,
			wantErrCode: apperrors.CodeParse,
		},
		{
			name:        "wrong version marker",
			input:       `{"jsonrpc":"1.0","id":1,"method":"ping"}`,
			wantErrCode: apperrors.CodeInvalidRequest,
		},
		{
			name:        "missing version marker",
			input:       `{"id":1,"method":"ping"}`,
			wantErrCode: apperrors.CodeInvalidRequest,
		},
		{
			name:        "missing method",
			input:       `{"jsonrpc":"2.0","id":1}`,
			wantErrCode: apperrors.CodeInvalidRequest,
		},
		{
			name:        "response-shaped message",
			input:       `{"jsonrpc":"2.0","id":1,"result":{}}`,
			wantErrCode: apperrors.CodeInvalidRequest,
		},
		{
			name:        "array instead of object",
			input:       `[{"jsonrpc":"2.0","id":1,"method":"ping"}]`,
			wantErrCode: apperrors.CodeParse,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := DecodeRequest([]byte(tc.input))
			if tc.wantErrCode != "" {
				if err == nil {
					t.Fatalf("expected error, got request %+v", req)
				}
				if code := apperrors.CodeOf(err); code != tc.wantErrCode {
					t.Fatalf("expected code %s, got %s", tc.wantErrCode, code)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if req.Method != tc.wantMethod {
				t.Fatalf("expected method %q, got %q", tc.wantMethod, req.Method)
			}
			if req.IsNotification() != tc.wantNotify {
				t.Fatalf("expected notification=%v, got %v", tc.wantNotify, req.IsNotification())
			}
		})
	}
}

func TestRequestIDEchoedVerbatim(t *testing.T) {
	ids := []string{`"abc-123"`, `42`, `9007199254740993`, `"00000000-0000-4000-8000-000000000000"`}
	for _, id := range ids {
		req, err := DecodeRequest([]byte(`{"jsonrpc":"2.0","id":` + id + `,"method":"ping"}`))
		if err != nil {
			t.Fatalf("decode request with id %s: %v", id, err)
		}
		data, err := json.Marshal(NewResponse(req.ID, struct{}{}))
		if err != nil {
			t.Fatalf("marshal response: %v", err)
		}
		if !strings.Contains(string(data), `"id":`+id) {
			t.Fatalf("expected response to echo id %s, got %s", id, data)
		}
	}
}

func TestNewErrorResponse(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "parse", err: apperrors.New(apperrors.CodeParse, "bad json"), wantCode: -32700},
		{name: "invalid request", err: apperrors.New(apperrors.CodeInvalidRequest, "not a request"), wantCode: -32600},
		{name: "method not found", err: apperrors.New(apperrors.CodeMethodNotFound, "no such method"), wantCode: -32601},
		{name: "invalid params", err: apperrors.New(apperrors.CodeInvalidParams, "bad count"), wantCode: -32602},
		{name: "invalid session", err: apperrors.New(apperrors.CodeInvalidSession, "unknown session"), wantCode: -32000},
		{name: "resource not found", err: apperrors.New(apperrors.CodeResourceNotFound, "no such resource"), wantCode: -32002},
		{name: "nil error falls back to internal", err: nil, wantCode: -32603},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := NewErrorResponse(nil, tc.err)
			if resp.Error == nil {
				t.Fatal("expected error object")
			}
			if resp.Error.Code != tc.wantCode {
				t.Fatalf("expected code %d, got %d", tc.wantCode, resp.Error.Code)
			}
			data, err := json.Marshal(resp)
			if err != nil {
				t.Fatalf("marshal response: %v", err)
			}
			if !strings.Contains(string(data), `"id":null`) {
				t.Fatalf("expected null id, got %s", data)
			}
			if strings.Contains(string(data), `"result"`) {
				t.Fatalf("error response must not carry a result, got %s", data)
			}
		})
	}
}

func TestNewNotificationMarshal(t *testing.T) {
	note := NewNotification(MethodResourceUpdated, ResourceUpdatedParams{URI: "history://recent"})
	data, err := json.Marshal(note)
	if err != nil {
		t.Fatalf("marshal notification: %v", err)
	}
	want := `{"jsonrpc":"2.0","method":"notifications/resources/updated","params":{"uri":"history://recent"}}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}
}

func TestTextContent(t *testing.T) {
	data, err := json.Marshal(TextContent("hello"))
	if err != nil {
		t.Fatalf("marshal content: %v", err)
	}
	if string(data) != `{"type":"text","text":"hello"}` {
		t.Fatalf("unexpected content shape: %s", data)
	}
}
