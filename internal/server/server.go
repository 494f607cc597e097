package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/ironsheep/image-translator-mcp/internal/binarize"
	"github.com/ironsheep/image-translator-mcp/internal/config"
	"github.com/ironsheep/image-translator-mcp/internal/cvbackend"
	"github.com/ironsheep/image-translator-mcp/internal/detection"
	"github.com/ironsheep/image-translator-mcp/internal/imaging"
	"github.com/ironsheep/image-translator-mcp/internal/ocr"
	"github.com/ironsheep/image-translator-mcp/internal/overlay"
	"github.com/ironsheep/image-translator-mcp/internal/translate"
)

// Version is reported in the initialize handshake.
const Version = "0.1.0"

// Server handles MCP protocol communication
type Server struct {
	cache     *imaging.ImageCache
	log       zerolog.Logger
	binarizer *binarize.Binarizer
	detector  *detection.EdgeDensityDetector

	// The OCR engine is created on first use so that servers built
	// without Tesseract still start and serve the other tools.
	ocrName     string
	ocrLanguage string
	ocrEngine   ocr.Engine

	translator translate.Translator
	sourceLang string
	targetLang string
	renderer   *overlay.Renderer

	in  io.Reader
	out io.Writer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithCache sets the image cache.
func WithCache(cache *imaging.ImageCache) Option {
	return func(s *Server) { s.cache = cache }
}

// WithBinarizer sets the text binarizer used by every tool.
func WithBinarizer(b *binarize.Binarizer) Option {
	return func(s *Server) { s.binarizer = b }
}

// WithOCR selects the registered OCR engine and its language.
func WithOCR(name, language string) Option {
	return func(s *Server) {
		s.ocrName = name
		s.ocrLanguage = language
		s.ocrEngine = nil
	}
}

// WithOCREngine installs an already constructed OCR engine.
func WithOCREngine(e ocr.Engine, language string) Option {
	return func(s *Server) {
		s.ocrEngine = e
		s.ocrLanguage = language
	}
}

// WithTranslator sets the translator and its default languages.
func WithTranslator(t translate.Translator, source, target string) Option {
	return func(s *Server) {
		s.translator = t
		s.sourceLang = source
		s.targetLang = target
	}
}

// WithIO replaces stdin and stdout, for tests.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(s *Server) {
		s.in = in
		s.out = out
	}
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance. Without options it uses the
// native binarizer, Tesseract for OCR and the passthrough translator.
func New(opts ...Option) *Server {
	s := &Server{
		cache:       imaging.NewImageCache(),
		log:         zerolog.Nop(),
		binarizer:   binarize.New(),
		detector:    detection.NewEdgeDensityDetector(),
		ocrName:     "tesseract",
		ocrLanguage: ocr.DefaultLanguage,
		translator:  translate.Passthrough{},
		sourceLang:  translate.AutoDetect,
		targetLang:  "fr",
		in:          os.Stdin,
		out:         os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewBinarizer builds the binarizer selected by cfg.
func NewBinarizer(cfg *config.Config, log zerolog.Logger) (*binarize.Binarizer, error) {
	opts := []binarize.Option{
		binarize.WithLogger(log.With().Str("component", "binarize").Logger()),
		binarize.WithParallelPaint(cfg.ParallelPaint),
	}
	if cfg.Backend == config.BackendOpenCV {
		if !cvbackend.Available() {
			return nil, cvbackend.ErrNotEnabled
		}
		cv := cvbackend.New()
		opts = append(opts, binarize.WithEdgeExtractor(cv), binarize.WithTracer(cv))
	}
	return binarize.New(opts...), nil
}

// NewFromConfig builds a server from loaded configuration.
func NewFromConfig(cfg *config.Config, log zerolog.Logger) (*Server, error) {
	bin, err := NewBinarizer(cfg, log)
	if err != nil {
		return nil, err
	}

	tr, err := translate.New(translate.Settings{
		Provider: cfg.TranslateProvider,
		APIKey:   cfg.DeepLAPIKey,
		Endpoint: cfg.DeepLAPIURL,
		Timeout:  cfg.HTTPTimeout,
	}, log.With().Str("component", "translate").Logger())
	if err != nil {
		return nil, err
	}

	return New(
		WithLogger(log),
		WithCache(imaging.NewImageCacheWithClient(&http.Client{Timeout: cfg.HTTPTimeout})),
		WithBinarizer(bin),
		WithOCR(cfg.OCREngine, cfg.OCRLanguage),
		WithTranslator(tr, cfg.SourceLang, cfg.TargetLang),
	), nil
}

// Run starts the MCP server, reading requests line by line until input ends.
func (s *Server) Run() error {
	defer s.Close()

	scanner := bufio.NewScanner(s.in)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(s.out)

	s.log.Info().Str("version", Version).Msg("server started")

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn().Err(err).Msg("failed to parse request")
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.Error().Err(err).Msg("failed to encode response")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// Close releases the OCR engine if one was created.
func (s *Server) Close() error {
	if s.ocrEngine == nil {
		return nil
	}
	err := s.ocrEngine.Close()
	s.ocrEngine = nil
	return err
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.log.Debug().Str("method", req.Method).Interface("id", req.ID).Msg("request")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "image-translator-mcp",
				"version": Version,
			},
		},
	}
}
