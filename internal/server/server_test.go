package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/image-translator-mcp/internal/config"
	"github.com/ironsheep/image-translator-mcp/internal/cvbackend"
	"github.com/ironsheep/image-translator-mcp/internal/translate"
)

func TestNew(t *testing.T) {
	s := New()
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cache == nil {
		t.Fatal("New() did not initialize cache")
	}
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}

			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
			if req.JSONRPC != "2.0" {
				t.Errorf("JSONRPC: got %s, want 2.0", req.JSONRPC)
			}
		})
	}
}

func TestMCPRequest_WithParams(t *testing.T) {
	jsonStr := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"image_load","arguments":{"path":"/test.png"}}}`

	var req MCPRequest
	if err := json.Unmarshal([]byte(jsonStr), &req); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if req.Params == nil {
		t.Error("Params should not be nil")
	}

	// Verify params can be parsed
	var params map[string]interface{}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		t.Fatalf("Failed to unmarshal params: %v", err)
	}

	if params["name"] != "image_load" {
		t.Errorf("params[name]: got %v, want image_load", params["name"])
	}
}

func TestMCPResponse_OmitsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		resp    MCPResponse
		want    string
		notWant string
	}{
		{
			"result only",
			MCPResponse{JSONRPC: "2.0", ID: 1, Result: map[string]interface{}{}},
			`"result":{}`,
			`"error"`,
		},
		{
			"error only",
			MCPResponse{JSONRPC: "2.0", ID: 1, Error: &MCPError{Code: -32601, Message: "Method not found"}},
			`"error":{"code":-32601,"message":"Method not found"}`,
			`"result"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.resp)
			if err != nil {
				t.Fatalf("Failed to marshal: %v", err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("got %s, want it to contain %s", data, tt.want)
			}
			if strings.Contains(string(data), tt.notWant) {
				t.Errorf("got %s, should not contain %s", data, tt.notWant)
			}
		})
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if resp.ID != 1 {
		t.Errorf("ID: got %v, want 1", resp.ID)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      "ping-1",
		Method:  "ping",
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if resp.ID != "ping-1" {
		t.Errorf("ID: got %v, want ping-1", resp.ID)
	}
}

func TestHandleRequest_ToolsList(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/list",
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	tools, ok := result["tools"]
	if !ok {
		t.Fatal("Result should contain 'tools' key")
	}

	toolsList, ok := tools.([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	// Should have multiple tools defined
	if len(toolsList) != len(allToolNames) {
		t.Errorf("Expected %d tools, got %d", len(allToolNames), len(toolsList))
	}
}

func TestHandleRequest_NotificationsInitialized(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		Method:  "notifications/initialized",
	}

	resp := s.handleRequest(req)

	// Notifications don't get responses
	if resp != nil {
		t.Error("notifications/initialized should return nil response")
	}
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "nonexistent/method",
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error == nil {
		t.Fatal("Expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("Error code: got %d, want -32601", resp.Error.Code)
	}
}

func TestHandleInitialize(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      "init-1",
	}

	resp := s.handleInitialize(req)

	if resp.ID != "init-1" {
		t.Errorf("ID: got %v, want init-1", resp.ID)
	}
	if resp.JSONRPC != "2.0" {
		t.Errorf("JSONRPC: got %s, want 2.0", resp.JSONRPC)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("serverInfo should be a map")
	}

	if serverInfo["name"] != "image-translator-mcp" {
		t.Errorf("serverInfo.name: got %v", serverInfo["name"])
	}
	if serverInfo["version"] != "0.1.0" {
		t.Errorf("serverInfo.version: got %v", serverInfo["version"])
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New()
	if s.binarizer == nil || s.detector == nil || s.translator == nil {
		t.Fatal("New() left a stage unset")
	}
	if s.ocrName != "tesseract" || s.ocrLanguage != "eng" {
		t.Errorf("ocr: got %s/%s, want tesseract/eng", s.ocrName, s.ocrLanguage)
	}
	if s.sourceLang != translate.AutoDetect || s.targetLang != "fr" {
		t.Errorf("languages: got %s->%s, want auto->fr", s.sourceLang, s.targetLang)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:          "info",
		LogFormat:         "json",
		Backend:           config.BackendNative,
		OCREngine:         "tesseract",
		OCRLanguage:       "deu",
		TranslateProvider: config.ProviderNone,
		DeepLAPIURL:       config.DefaultDeepLURL,
		SourceLang:        "de",
		TargetLang:        "en",
		HTTPTimeout:       5 * time.Second,
	}
}

func TestNewFromConfig(t *testing.T) {
	s, err := NewFromConfig(testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if s.ocrLanguage != "deu" {
		t.Errorf("ocrLanguage: got %s, want deu", s.ocrLanguage)
	}
	if s.sourceLang != "de" || s.targetLang != "en" {
		t.Errorf("languages: got %s->%s, want de->en", s.sourceLang, s.targetLang)
	}
	if _, ok := s.translator.(translate.Passthrough); !ok {
		t.Errorf("translator: got %T, want translate.Passthrough", s.translator)
	}
}

func TestNewFromConfig_DeepL(t *testing.T) {
	cfg := testConfig()
	cfg.TranslateProvider = config.ProviderDeepL
	cfg.DeepLAPIKey = "test-key"

	s, err := NewFromConfig(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if _, ok := s.translator.(*translate.DeepL); !ok {
		t.Errorf("translator: got %T, want *translate.DeepL", s.translator)
	}
}

func TestNewFromConfig_OpenCV(t *testing.T) {
	cfg := testConfig()
	cfg.Backend = config.BackendOpenCV

	_, err := NewFromConfig(cfg, zerolog.Nop())
	if cvbackend.Available() {
		if err != nil {
			t.Fatalf("NewFromConfig: %v", err)
		}
		return
	}
	if !errors.Is(err, cvbackend.ErrNotEnabled) {
		t.Fatalf("err: got %v, want ErrNotEnabled", err)
	}
}

func TestRun(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		``,
		`not json`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
		`{"jsonrpc":"2.0","id":3,"method":"bogus"}`,
	}, "\n"))
	var out bytes.Buffer

	s := New(WithIO(in, &out))
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	dec := json.NewDecoder(&out)
	var got []MCPResponse
	for dec.More() {
		var resp MCPResponse
		if err := dec.Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		got = append(got, resp)
	}

	if len(got) != 3 {
		t.Fatalf("responses: got %d, want 3", len(got))
	}
	for i, wantID := range []float64{1, 2, 3} {
		if got[i].ID != wantID {
			t.Errorf("response %d: ID got %v, want %v", i, got[i].ID, wantID)
		}
	}
	if got[2].Error == nil || got[2].Error.Code != -32601 {
		t.Errorf("bogus method: got %+v, want -32601", got[2].Error)
	}
}

func TestClose_WithoutEngine(t *testing.T) {
	s := New()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
