// Command postool builds msgpack POS table files for mozcserve from TSV id
// data.
//
// The input is a tab-separated file with one category per line:
//
//	noun_prefix	560
//	noun_prefix	561
//	last_name	1824
//	first_name	1825
//
// Categories other than noun_prefix, last_name and first_name are ignored
// so a full id definition dump can be fed in unchanged.
package main

import (
	"bufio"
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tondoru/mozc/pkg/pos"
)

func main() {
	input := flag.String("in", "", "TSV file with 'category<TAB>id' lines")
	output := flag.String("out", "pos_table.bin", "Output msgpack table path (.bin)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")

	flag.Parse()

	if *debugMode {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.ErrorLevel)
	}
	log.SetOutput(os.Stderr)

	if *input == "" {
		log.Fatal("missing -in: need a TSV id table to convert")
		os.Exit(1)
	}

	table, err := buildTable(*input)
	if err != nil {
		log.Fatalf("Failed to read id table: %v", err)
		os.Exit(1)
	}

	if err := pos.SaveTable(table, *output); err != nil {
		log.Fatalf("Failed to write POS table: %v", err)
		os.Exit(1)
	}
	log.Debugf("Wrote %s: %d noun prefix ids, last_name=%d, first_name=%d",
		*output, len(table.NounPrefix), table.LastName, table.FirstName)
}

func buildTable(path string) (*pos.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var nounPrefix []uint16
	var lastName, firstName uint16

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			log.Warnf("line %d: expected 'category<TAB>id', skipping: %q", lineNo, line)
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 16)
		if err != nil {
			log.Warnf("line %d: bad id %q, skipping: %v", lineNo, fields[1], err)
			continue
		}
		switch fields[0] {
		case "noun_prefix":
			nounPrefix = append(nounPrefix, uint16(id))
		case "last_name":
			lastName = uint16(id)
		case "first_name":
			firstName = uint16(id)
		default:
			log.Debugf("line %d: ignoring category %q", lineNo, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return pos.NewTable(nounPrefix, lastName, firstName), nil
}
