// Package cli handles cmd line input for DBG and testing the filter rules
// interactively without the msgpack client.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tondoru/mozc/internal/utils"
	"github.com/tondoru/mozc/pkg/converter"
	"github.com/tondoru/mozc/pkg/pos"
)

// InputHandler reads candidate lines from stdin and runs them through one
// filter session, printing the verdict for each.
type InputHandler struct {
	filter       *converter.CandidateFilter
	showTiming   bool
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler.
func NewInputHandler(matcher pos.Matcher, limits converter.Limits, showTiming bool) *InputHandler {
	return &InputHandler{
		filter:     converter.NewCandidateFilterWithLimits(matcher, limits),
		showTiming: showTiming,
	}
}

// Start begins the interface loop. It continuously prompts for input, reads
// a line from stdin and passes the trimmed line to handleInput().
// Loop terminates if an error occurs while reading from stdin.
func (h *InputHandler) Start() error {
	log.Print("mozcserve CLI [DBG]")
	reader := bufio.NewReader(os.Stdin)
	log.Print("candidate format: value cost structure_cost lid rid ntokens [ctx]")
	log.Print("type 'reset' for a segment boundary (Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput parses one candidate line and prints the filter verdict.
// Candidates must be entered in ascending cost order to mimic the real
// enumeration; the first node carries the candidate's lid/rid so the
// noun-prefix rule can be exercised.
func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	if line == "reset" {
		h.filter.Reset()
		log.Print("session reset")
		return
	}

	candidate, err := parseCandidate(line)
	if err != nil {
		log.Errorf("Bad candidate line: %v", err)
		return
	}

	start := time.Now()
	result := h.filter.Filter(candidate)
	elapsed := time.Since(start)

	if h.showTiming {
		log.Debugf("Took [ %v ] for candidate '%s'", elapsed, candidate.Value)
	}

	clValue := fmt.Sprintf("\033[38;5;75m%s\033[0m", candidate.Value)
	log.Printf("%-8s %-40s (cost: %8s, structure: %8s, accepted: %d)",
		strings.ToUpper(result.String()), clValue,
		utils.FormatWithCommas(candidate.Cost),
		utils.FormatWithCommas(candidate.StructureCost),
		h.filter.Seen())
}

func parseCandidate(line string) (*converter.Candidate, error) {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return nil, fmt.Errorf("expected at least 6 fields, got %d", len(fields))
	}

	nums := make([]int, 5)
	for i := 0; i < 5; i++ {
		n, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return nil, fmt.Errorf("field %d (%q) is not a number: %w", i+2, fields[i+1], err)
		}
		nums[i] = n
	}
	cost, structureCost, lid, rid, ntokens := nums[0], nums[1], nums[2], nums[3], nums[4]
	if ntokens < 1 {
		return nil, fmt.Errorf("ntokens must be at least 1, got %d", ntokens)
	}

	candidate := &converter.Candidate{
		Value:         fields[0],
		Cost:          cost,
		StructureCost: structureCost,
		Lid:           uint16(lid),
		Rid:           uint16(rid),
	}
	if len(fields) > 6 && fields[6] == "ctx" {
		candidate.LearningType |= converter.ContextSensitive
	}
	for i := 0; i < ntokens; i++ {
		node := &converter.Node{}
		if i == 0 {
			node.Lid = uint16(lid)
			node.Rid = uint16(rid)
		}
		candidate.Nodes = append(candidate.Nodes, node)
	}
	return candidate, nil
}
