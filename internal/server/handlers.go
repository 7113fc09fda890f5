package server

import (
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/color-anomaly-mcp/internal/anomaly"
	"github.com/ironsheep/color-anomaly-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "detect_yellow_anomalies").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Str("tool", params.Name).Err(err).Msg("tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies defaults from the server Config for omitted options
//  3. Resolves the image (explicit path or the active image)
//  4. Calls the anomaly or imaging function
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Image
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)

	// Anomaly detection
	case "detect_yellow_anomalies":
		return s.handleDetectYellowAnomalies(args)
	case "detect_color_anomalies":
		return s.handleDetectColorAnomalies(args)

	// Presentation
	case "anomaly_overlay":
		return s.handleAnomalyOverlay(args)
	case "color_gradient_preview":
		return s.handleColorGradientPreview(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// raster returns the raster for path or the active image. A nil raster with a
// nil error means no image has been loaded.
func (s *Server) raster(path string) (*imaging.Raster, error) {
	p := s.resolvePath(path)
	if p == "" {
		return nil, nil
	}
	return s.cache.LoadRaster(p)
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	// A new load replaces whatever was decoded from this path before.
	s.cache.Evict(a.Path)
	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	if _, err := s.cache.LoadRaster(a.Path); err != nil {
		return nil, err
	}

	s.setActive(a.Path)
	s.log.Info().Str("path", a.Path).Int("width", info.Width).Int("height", info.Height).Msg("image loaded")
	return info, nil
}

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p := s.resolvePath(a.Path)
	if p == "" {
		return nil, fmt.Errorf("no image loaded")
	}
	return imaging.GetDimensions(s.cache, p)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.raster(a.Path)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("no image loaded")
	}
	return imaging.SampleColor(r, a.X, a.Y)
}

// === Anomaly Detection Handlers ===

type detectYellowArgs struct {
	Path        string `json:"path"`
	Sensitivity *int   `json:"sensitivity"`
}

func (s *Server) handleDetectYellowAnomalies(args json.RawMessage) (interface{}, error) {
	var a detectYellowArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.raster(a.Path)
	if err != nil {
		return nil, err
	}
	return s.detect("detect_yellow_anomalies", r, anomaly.YellowBound, s.sensitivity(a.Sensitivity)), nil
}

type detectColorArgs struct {
	Path          string `json:"path"`
	ColorOne      string `json:"color_one"`
	ColorTwo      string `json:"color_two"`
	Sensitivity   *int   `json:"sensitivity"`
	BoundOrdering string `json:"bound_ordering"`
}

func (s *Server) handleDetectColorAnomalies(args json.RawMessage) (interface{}, error) {
	var a detectColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	bound, err := s.customBound(a.ColorOne, a.ColorTwo, a.BoundOrdering)
	if err != nil {
		return nil, err
	}
	r, err := s.raster(a.Path)
	if err != nil {
		return nil, err
	}
	return s.detect("detect_color_anomalies", r, bound, s.sensitivity(a.Sensitivity)), nil
}

// detect classifies r and logs the run.
func (s *Server) detect(tool string, r *imaging.Raster, b anomaly.Bound, tolerance int) *anomaly.Result {
	start := time.Now()
	res := anomaly.Detect(r, b, tolerance)
	s.log.Debug().
		Str("tool", tool).
		Bool("image_loaded", res.ImageLoaded).
		Int("count", res.Count).
		Bool("degenerate", res.Degenerate).
		Dur("elapsed", time.Since(start)).
		Msg("classified")
	return res
}

func (s *Server) sensitivity(v *int) int {
	if v == nil {
		return s.cfg.DefaultSensitivity
	}
	return *v
}

// customBound parses the two user colors into a bound using the requested
// ordering, or the configured one when ordering is empty.
func (s *Server) customBound(colorOne, colorTwo, ordering string) (anomaly.Bound, error) {
	if colorOne == "" || colorTwo == "" {
		return anomaly.Bound{}, fmt.Errorf("color_one and color_two are required")
	}
	first, err := anomaly.ParseHexColor(colorOne)
	if err != nil {
		return anomaly.Bound{}, fmt.Errorf("color_one: %w", err)
	}
	second, err := anomaly.ParseHexColor(colorTwo)
	if err != nil {
		return anomaly.Bound{}, fmt.Errorf("color_two: %w", err)
	}

	o := s.cfg.BoundOrdering
	if ordering != "" {
		if o, err = anomaly.ParseOrdering(ordering); err != nil {
			return anomaly.Bound{}, err
		}
	}
	return anomaly.BoundFromColors(first, second, o), nil
}

// === Presentation Handlers ===

type anomalyOverlayArgs struct {
	Path          string   `json:"path"`
	ColorOne      string   `json:"color_one"`
	ColorTwo      string   `json:"color_two"`
	Sensitivity   *int     `json:"sensitivity"`
	BoundOrdering string   `json:"bound_ordering"`
	MarkerColor   string   `json:"marker_color"`
	Dim           *float64 `json:"dim"`
	GridSpacing   int      `json:"grid_spacing"`
	GridColor     string   `json:"grid_color"`
	Scale         float64  `json:"scale"`
}

// anomalyOverlayResult pairs the rendered image with the classification that
// produced its markers.
type anomalyOverlayResult struct {
	*imaging.OverlayResult
	Count       int             `json:"count"`
	Bound       anomaly.Bound   `json:"bound"`
	Sensitivity int             `json:"sensitivity"`
	BoundingBox *anomaly.Extent `json:"bounding_box,omitempty"`
}

func (s *Server) handleAnomalyOverlay(args json.RawMessage) (interface{}, error) {
	var a anomalyOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Dim == nil {
		dim := 0.5
		a.Dim = &dim
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	bound := anomaly.YellowBound
	if a.ColorOne != "" || a.ColorTwo != "" {
		b, err := s.customBound(a.ColorOne, a.ColorTwo, a.BoundOrdering)
		if err != nil {
			return nil, err
		}
		bound = b
	}

	r, err := s.raster(a.Path)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("no image loaded")
	}

	res := s.detect("anomaly_overlay", r, bound, s.sensitivity(a.Sensitivity))
	points := make([]image.Point, len(res.Anomalies))
	for i, p := range res.Anomalies {
		points[i] = image.Point{X: p.X, Y: p.Y}
	}

	overlay, err := imaging.RenderOverlay(r, points, imaging.OverlayOptions{
		MarkerColor: a.MarkerColor,
		Dim:         *a.Dim,
		GridSpacing: a.GridSpacing,
		GridColor:   a.GridColor,
		Scale:       a.Scale,
	})
	if err != nil {
		return nil, err
	}

	return &anomalyOverlayResult{
		OverlayResult: overlay,
		Count:         res.Count,
		Bound:         res.Bound,
		Sensitivity:   res.Sensitivity,
		BoundingBox:   res.BoundingBox,
	}, nil
}

type colorGradientPreviewArgs struct {
	ColorOne string `json:"color_one"`
	ColorTwo string `json:"color_two"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

func (s *Server) handleColorGradientPreview(args json.RawMessage) (interface{}, error) {
	var a colorGradientPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Width == 0 {
		a.Width = 256
	}
	if a.Height == 0 {
		a.Height = 32
	}
	if _, err := s.customBound(a.ColorOne, a.ColorTwo, ""); err != nil {
		return nil, err
	}
	return imaging.RenderGradient(a.ColorOne, a.ColorTwo, a.Width, a.Height)
}
