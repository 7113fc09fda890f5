// Package server implements the MCP (Model Context Protocol) server for color
// anomaly detection.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image:
//   - image_load: Load image, get metadata, make it the active image
//   - image_dimensions: Get width and height
//   - image_sample_color: Get color at pixel
//
// Anomaly detection:
//   - detect_yellow_anomalies: Pixels in the preset yellow range
//   - detect_color_anomalies: Pixels between two chosen colors
//
// Presentation:
//   - anomaly_overlay: Image with anomaly pixels marked
//   - color_gradient_preview: Gradient between two chosen colors
//
// # Active Image
//
// Every tool that reads an image accepts an optional path. Without one it uses
// the image from the most recent image_load. The server only remembers that
// path; the raster itself comes from the image cache and is passed to the
// classifier explicitly on each call. With no image loaded the detection tools
// return an empty anomaly list with image_loaded set to false rather than an
// error.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
