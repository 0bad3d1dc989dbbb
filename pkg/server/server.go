package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tondoru/mozc/pkg/config"
	"github.com/tondoru/mozc/pkg/converter"
	"github.com/tondoru/mozc/pkg/pos"
)

// Server handles the IPC for candidate filtering. It owns one filter
// session; a reset op marks a segment boundary.
type Server struct {
	filter *converter.CandidateFilter
	cfg    *config.Config
	dec    *msgpack.Decoder
	enc    *msgpack.Encoder
}

// NewServer creates a filter server using stdin/stdout for IPC.
func NewServer(matcher pos.Matcher, cfg *config.Config) *Server {
	return NewServerIO(matcher, cfg, os.Stdin, os.Stdout)
}

// NewServerIO creates a filter server on the given streams.
func NewServerIO(matcher pos.Matcher, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	limits := converter.Limits{
		MaxCandidates: cfg.Filter.MaxCandidates,
		StopCacheSize: cfg.Filter.StopCacheSize,
	}
	return &Server{
		filter: converter.NewCandidateFilterWithLimits(matcher, limits),
		cfg:    cfg,
		dec:    msgpack.NewDecoder(r),
		enc:    msgpack.NewEncoder(w),
	}
}

// Start begins listening for IPC requests. It returns nil on EOF.
func (s *Server) Start() error {
	log.Debug("Starting filter server.")

	s.send(StatusResponse{Status: "ready"})

	for {
		var request FilterRequest
		if err := s.dec.Decode(&request); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

func (s *Server) handleRequest(request FilterRequest) {
	switch request.Op {
	case "filter":
		s.handleFilter(request)
	case "reset":
		s.filter.Reset()
		s.send(StatusResponse{ID: request.ID, Status: "ok"})
	case "health":
		s.send(StatusResponse{ID: request.ID, Status: "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown op: %s", request.Op), 400)
	}
}

// handleFilter validates the candidate payload, runs it through the filter
// session and answers with the verdict and timing.
func (s *Server) handleFilter(request FilterRequest) {
	if request.Value == "" {
		s.sendError(request.ID, "Missing 'v' (candidate value)", 400)
		log.Debug("Candidate value is empty in request")
		return
	}
	if len(request.Value) > s.cfg.Server.MaxValueLen {
		s.sendError(request.ID, fmt.Sprintf("Candidate value exceeds maximum length of %d bytes", s.cfg.Server.MaxValueLen), 400)
		return
	}
	if len(request.Nodes) > s.cfg.Server.MaxNodes {
		s.sendError(request.ID, fmt.Sprintf("Candidate exceeds maximum of %d nodes", s.cfg.Server.MaxNodes), 400)
		return
	}

	candidate := buildCandidate(request)

	start := time.Now()
	result := s.filter.Filter(candidate)
	elapsed := time.Since(start)

	s.send(FilterResponse{
		ID:        request.ID,
		Verdict:   result.String(),
		Accepted:  s.filter.Seen(),
		TimeTaken: elapsed.Microseconds(),
	})
}

func buildCandidate(request FilterRequest) *converter.Candidate {
	candidate := &converter.Candidate{
		Value:         request.Value,
		Cost:          request.Cost,
		StructureCost: request.StructureCost,
		Lid:           request.Lid,
		Rid:           request.Rid,
	}
	if request.ContextSensitive {
		candidate.LearningType |= converter.ContextSensitive
	}
	for _, n := range request.Nodes {
		candidate.Nodes = append(candidate.Nodes, &converter.Node{
			Lid:   n.Lid,
			Rid:   n.Rid,
			Value: n.Value,
		})
	}
	return candidate
}

// send encodes the given response and writes it to the client.
func (s *Server) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response.
func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{
		ID:    id,
		Error: message,
		Code:  code,
	})
}
