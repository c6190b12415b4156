package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/kiesman99/swisstile/internal/api"
	"github.com/kiesman99/swisstile/internal/fetch"
	"github.com/kiesman99/swisstile/internal/provider"
	"github.com/kiesman99/swisstile/internal/stitcher"
	"github.com/kiesman99/swisstile/pkg/codec"
	"github.com/kiesman99/swisstile/pkg/geo"
	"github.com/kiesman99/swisstile/pkg/projection"
)

// Server implements the ServerInterface from the generated API
type Server struct {
	startTime time.Time
	version   string
	registry  *provider.Registry
	tiles     stitcher.TileSource
	stitcher  *stitcher.Stitcher
	logger    *slog.Logger
}

var _ api.ServerInterface = (*Server)(nil)

// NewServer creates a new server instance. tiles is normally a
// *provider.Service.
func NewServer(version string, registry *provider.Registry, tiles stitcher.TileSource, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		startTime: time.Now(),
		version:   version,
		registry:  registry,
		tiles:     tiles,
		stitcher:  stitcher.New(tiles, logger),
		logger:    logger,
	}
}

// GetHealth implements the health check endpoint
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	uptime := int(time.Since(s.startTime).Seconds())

	s.writeJSON(w, http.StatusOK, api.HealthResponse{
		Status:    api.Healthy,
		Timestamp: time.Now(),
		Uptime:    &uptime,
		Version:   &s.version,
	})
}

// ListProviders returns every registered provider sorted by name.
func (s *Server) ListProviders(w http.ResponseWriter, r *http.Request) {
	all := s.registry.All()
	resp := api.ProviderList{Providers: make([]api.Provider, 0, len(all))}
	for _, p := range all {
		resp.Providers = append(resp.Providers, toAPIProvider(p))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// GetProvider describes a single provider.
func (s *Server) GetProvider(w http.ResponseWriter, r *http.Request, key api.ProviderPath) {
	p, ok := s.lookup(w, r, key)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, toAPIProvider(p))
}

// GetTileMatrix returns the tile matrix envelope of a provider at zoom.
func (s *Server) GetTileMatrix(w http.ResponseWriter, r *http.Request, key api.ProviderPath, zoom int) {
	p, ok := s.lookup(w, r, key)
	if !ok {
		return
	}
	proj := p.Projection
	res := proj.GroundResolution(zoom)
	if res == 0 {
		s.writeUndefinedZoom(w, r, proj, zoom)
		return
	}
	minT, maxT := proj.TileMatrixMin(zoom), proj.TileMatrixMax(zoom)

	s.writeJSON(w, http.StatusOK, api.TileMatrix{
		Provider:         p.Name,
		Zoom:             zoom,
		GroundResolution: res,
		TileSize:         int(proj.TileSize().Width),
		MatrixMin:        api.TileIndex{Col: minT.Width, Row: minT.Height},
		MatrixMax:        api.TileIndex{Col: maxT.Width, Row: maxT.Height},
	})
}

// GetTile streams one tile, composited when the provider is an overlay.
func (s *Server) GetTile(w http.ResponseWriter, r *http.Request, key api.ProviderPath, z int, x int64, y int64) {
	p, ok := s.lookup(w, r, key)
	if !ok {
		return
	}

	t, err := s.tiles.GetTile(r.Context(), p, x, y, z)
	if err != nil {
		s.handleTileError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", t.Format.MimeType())
	w.Header().Set("Content-Length", strconv.Itoa(len(t.Data)))
	w.Header().Set("Content-Disposition", inlineFilename(fmt.Sprintf("%d-%d-%d", z, x, y), t.Format))
	if p.Copyright != "" {
		w.Header().Set("X-Copyright", p.Copyright)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(t.Data); err != nil {
		s.logger.Error("writing tile response", "err", err)
	}
}

// ProjectForward converts a geographic point to a global pixel and its tile.
func (s *Server) ProjectForward(w http.ResponseWriter, r *http.Request, params api.ProjectForwardParams) {
	p, ok := s.lookup(w, r, params.Provider)
	if !ok {
		return
	}
	proj := p.Projection

	px, err := proj.Forward(geo.LatLng{Lat: params.Lat, Lng: params.Lng}, params.Zoom)
	if errors.Is(err, projection.ErrUndefinedZoom) {
		s.writeUndefinedZoom(w, r, proj, params.Zoom)
		return
	}
	if err != nil {
		s.writeErrorResponse(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	resp := api.ForwardResponse{Provider: p.Name, Zoom: params.Zoom, Empty: px.IsEmpty()}
	if px.IsEmpty() {
		s.logger.Debug("forward projection empty", "provider", p.Name, "lat", params.Lat, "lng", params.Lng, "zoom", params.Zoom)
		s.writeJSON(w, http.StatusOK, resp)
		return
	}
	col, row := projection.TileOf(px, proj.TileSize())
	inMatrix := projection.TileInMatrix(proj, col, row, params.Zoom)
	resp.Pixel = &api.PixelCoordinate{X: px.X, Y: px.Y}
	resp.Tile = &api.TileIndex{Col: col, Row: row}
	resp.InMatrix = &inMatrix
	s.writeJSON(w, http.StatusOK, resp)
}

// ProjectInverse converts a global pixel to a geographic point.
func (s *Server) ProjectInverse(w http.ResponseWriter, r *http.Request, params api.ProjectInverseParams) {
	p, ok := s.lookup(w, r, params.Provider)
	if !ok {
		return
	}
	proj := p.Projection
	px := geo.Pixel{X: params.X, Y: params.Y}

	ll, err := proj.Inverse(px, params.Zoom)
	if errors.Is(err, projection.ErrUndefinedZoom) {
		s.writeUndefinedZoom(w, r, proj, params.Zoom)
		return
	}
	if err != nil {
		s.writeErrorResponse(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	resp := api.InverseResponse{Provider: p.Name, Zoom: params.Zoom, Empty: ll.IsEmpty()}
	if ll.IsEmpty() {
		s.logger.Debug("inverse projection empty", "provider", p.Name, "pixel", px.String(), "zoom", params.Zoom)
		s.writeJSON(w, http.StatusOK, resp)
		return
	}
	resp.Location = &api.LatLng{Lat: ll.Lat, Lng: ll.Lng}
	if m, err := proj.ToProjected(px, params.Zoom); err == nil && !m.IsEmpty() {
		resp.Projected = &api.ProjectedPoint{X: m.X, Y: m.Y}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// CreateStitchedImage implements the main stitching endpoint
func (s *Server) CreateStitchedImage(w http.ResponseWriter, r *http.Request) {
	var req api.StitchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, r, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON in request body", nil)
		return
	}

	if field, err := validateStitchRequest(&req); err != nil {
		s.writeValidationErrorResponse(w, r, field, err.Error())
		return
	}

	p, ok := s.lookup(w, r, req.Provider)
	if !ok {
		return
	}

	opts, err := toStitcherOptions(p, &req)
	if err != nil {
		s.writeValidationErrorResponse(w, r, "output.format", err.Error())
		return
	}

	result, err := s.stitcher.Stitch(r.Context(), opts)
	if err != nil {
		s.handleStitchingError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.Format.MimeType())
	w.Header().Set("X-Request-ID", requestID(r))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.ImageData)))
	w.Header().Set("Content-Disposition", inlineFilename(fmt.Sprintf("stitched-%d", opts.Zoom), result.Format))
	if result.WorldFileData != nil {
		w.Header().Set("X-World-File", base64.StdEncoding.EncodeToString(result.WorldFileData))
	}
	if len(result.FailedTiles) > 0 {
		w.Header().Set("X-Failed-Tiles", strconv.Itoa(len(result.FailedTiles)))
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.ImageData); err != nil {
		s.logger.Error("writing stitch response", "err", err)
	}
}

// validateStitchRequest checks the shape of a stitch request and returns
// the offending field on failure.
func validateStitchRequest(req *api.StitchRequest) (string, error) {
	if req.Provider == "" {
		return "provider", fmt.Errorf("provider is required")
	}

	switch req.Mode {
	case api.Bbox:
		if req.Bbox == nil {
			return "bbox", fmt.Errorf("bbox is required when mode is 'bbox'")
		}
		if req.Center != nil {
			return "center", fmt.Errorf("center should not be provided when mode is 'bbox'")
		}
		if req.Bbox.MinLat >= req.Bbox.MaxLat {
			return "bbox", fmt.Errorf("min_lat must be less than max_lat")
		}
		if req.Bbox.MinLon >= req.Bbox.MaxLon {
			return "bbox", fmt.Errorf("min_lon must be less than max_lon")
		}
	case api.Centered:
		if req.Center == nil {
			return "center", fmt.Errorf("center is required when mode is 'centered'")
		}
		if req.Bbox != nil {
			return "bbox", fmt.Errorf("bbox should not be provided when mode is 'centered'")
		}
		if req.Center.Width <= 0 || req.Center.Height <= 0 {
			return "center", fmt.Errorf("width and height must be positive")
		}
	default:
		return "mode", fmt.Errorf("invalid mode: %s", req.Mode)
	}

	if req.Output != nil && req.Output.Quality != nil {
		if q := *req.Output.Quality; q < 1 || q > 100 {
			return "output.quality", fmt.Errorf("quality must be between 1 and 100")
		}
	}
	return "", nil
}

// toStitcherOptions converts an API request to stitcher options.
func toStitcherOptions(p *provider.Provider, req *api.StitchRequest) (*stitcher.Options, error) {
	opts := &stitcher.Options{
		Provider: p,
		Zoom:     req.Zoom,
		Format:   codec.PNG,
	}

	if out := req.Output; out != nil {
		if out.Format != nil {
			f, err := codec.ParseFormat(string(*out.Format))
			if err != nil {
				return nil, err
			}
			opts.Format = f
		}
		if out.Quality != nil {
			opts.Quality = *out.Quality
		}
		if out.GenerateWorldfile != nil {
			opts.GenerateWorldFile = *out.GenerateWorldfile
		}
	}

	switch req.Mode {
	case api.Bbox:
		opts.Mode = stitcher.ModeBBox
		opts.MinLat, opts.MinLon = req.Bbox.MinLat, req.Bbox.MinLon
		opts.MaxLat, opts.MaxLon = req.Bbox.MaxLat, req.Bbox.MaxLon
	case api.Centered:
		opts.Mode = stitcher.ModeCentered
		opts.CenterLat, opts.CenterLon = req.Center.Lat, req.Center.Lon
		opts.Width, opts.Height = req.Center.Width, req.Center.Height
	}
	return opts, nil
}

// handleStitchingError handles errors from the stitching process
func (s *Server) handleStitchingError(w http.ResponseWriter, r *http.Request, err error) {
	var stitchErr *stitcher.TileError
	switch {
	case errors.As(err, &stitchErr):
		failedTiles := make([]struct {
			Error      string `json:"error"`
			StatusCode *int   `json:"status_code,omitempty"`
			Url        string `json:"url"`
		}, len(stitchErr.FailedTiles))
		for i, ft := range stitchErr.FailedTiles {
			failedTiles[i].Error = ft.Error
			failedTiles[i].StatusCode = ft.StatusCode
			failedTiles[i].Url = ft.URL
		}

		id := requestID(r)
		s.logger.Error("stitch failed", "request_id", id, "failed", len(stitchErr.FailedTiles), "total", stitchErr.TotalTiles)
		s.writeJSON(w, http.StatusBadGateway, api.TileErrorResponse{
			Error:           "TILE_SERVER_ERROR",
			Message:         stitchErr.Message,
			FailedTiles:     failedTiles,
			SuccessfulTiles: stitchErr.SuccessfulTiles,
			TotalTiles:      stitchErr.TotalTiles,
			RequestId:       &id,
		})
	case errors.Is(err, provider.ErrZoomOutOfRange):
		s.writeValidationErrorResponse(w, r, "zoom", err.Error())
	case errors.Is(err, stitcher.ErrInvalidArea):
		s.writeValidationErrorResponse(w, r, "request", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		s.writeErrorResponse(w, r, http.StatusGatewayTimeout, "TILE_SERVER_TIMEOUT",
			"Tile server requests timed out", nil)
	default:
		s.logger.Error("stitch failed", "request_id", requestID(r), "err", err)
		s.writeErrorResponse(w, r, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Internal server error", nil)
	}
}

// handleTileError maps a single tile failure to a response.
func (s *Server) handleTileError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		statusErr *fetch.StatusError
		tileErr   *provider.TileError
	)
	switch {
	case errors.Is(err, provider.ErrZoomOutOfRange), errors.Is(err, provider.ErrTileOutOfRange):
		s.writeErrorResponse(w, r, http.StatusNotFound, "TILE_NOT_AVAILABLE", err.Error(), nil)
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound:
		s.writeErrorResponse(w, r, http.StatusNotFound, "TILE_NOT_AVAILABLE", err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded):
		s.writeErrorResponse(w, r, http.StatusGatewayTimeout, "TILE_SERVER_TIMEOUT",
			"Tile server requests timed out", nil)
	case errors.As(err, &tileErr):
		details := map[string]interface{}{"layer": tileErr.Layer}
		if tileErr.URL != "" {
			details["url"] = tileErr.URL
		}
		if statusErr != nil {
			details["upstream_status"] = statusErr.StatusCode
		}
		s.writeErrorResponse(w, r, http.StatusBadGateway, "TILE_SERVER_ERROR", err.Error(), details)
	default:
		s.logger.Error("tile failed", "request_id", requestID(r), "err", err)
		s.writeErrorResponse(w, r, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Internal server error", nil)
	}
}

// ParamErrorHandler reports malformed or missing parameters as validation
// errors. It is passed to api.ChiServerOptions.
func (s *Server) ParamErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	field := "request"
	var (
		invalid  *api.InvalidParamFormatError
		required *api.RequiredParamError
	)
	switch {
	case errors.As(err, &invalid):
		field = invalid.ParamName
	case errors.As(err, &required):
		field = required.ParamName
	}
	s.writeValidationErrorResponse(w, r, field, err.Error())
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request, key string) (*provider.Provider, bool) {
	p, err := s.registry.Lookup(key)
	if err != nil {
		s.writeErrorResponse(w, r, http.StatusNotFound, "PROVIDER_NOT_FOUND", err.Error(), nil)
		return nil, false
	}
	return p, true
}

func (s *Server) writeUndefinedZoom(w http.ResponseWriter, r *http.Request, proj projection.Projection, zoom int) {
	s.writeErrorResponse(w, r, http.StatusBadRequest, "UNDEFINED_ZOOM",
		fmt.Sprintf("zoom %d is not defined for %s", zoom, proj.Name()),
		map[string]interface{}{"zoom": zoom})
}

// writeErrorResponse writes a standard error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, errorCode, message string, details map[string]interface{}) {
	id := requestID(r)
	response := api.ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestId: &id,
	}
	if details != nil {
		response.Details = &details
	}
	s.writeJSON(w, statusCode, response)
}

// writeValidationErrorResponse writes a validation error response
func (s *Server) writeValidationErrorResponse(w http.ResponseWriter, r *http.Request, field, message string) {
	id := requestID(r)
	response := api.ValidationErrorResponse{
		Error:     api.VALIDATIONERROR,
		Message:   message,
		RequestId: &id,
		ValidationErrors: []struct {
			Code    *string `json:"code,omitempty"`
			Field   string  `json:"field"`
			Message string  `json:"message"`
		}{
			{Field: field, Message: message},
		},
	}
	s.writeJSON(w, http.StatusBadRequest, response)
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "err", err)
	}
}

// requestID returns the id assigned by middleware.RequestID, or a fresh one.
func requestID(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return "req_" + uuid.NewString()
}

func inlineFilename(base string, f codec.Format) string {
	return fmt.Sprintf(`inline; filename="%s%s"`, base, f.Extension())
}

func toAPIProvider(p *provider.Provider) api.Provider {
	tl, br := p.Area.TopLeft(), p.Area.BottomRight()
	out := api.Provider{
		Id:         p.ID,
		Name:       p.Name,
		Projection: p.Projection.Name(),
		Format:     api.TileFormat(p.Format.String()),
		MinZoom:    p.MinZoom,
		MaxZoom:    p.MaxZoom,
		Bounds: api.Bounds{
			Left:   tl.Lng,
			Top:    tl.Lat,
			Right:  br.Lng,
			Bottom: br.Lat,
		},
	}
	if p.Background != nil {
		bg, opacity := p.Background.Name, p.Opacity
		out.Background = &bg
		out.Opacity = &opacity
	}
	if p.Copyright != "" {
		c := p.Copyright
		out.Copyright = &c
	}
	return out
}
