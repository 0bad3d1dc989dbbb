/*
Package server implements msgpack IPC for the candidate filter service.

The protocol uses binary msgpack encoding over stdin/stdout. Messages are
processed synchronously with timing info included in responses. Each request
carries an ID field, an op field, and the candidate payload for filter ops.

A filter request supplies one fully scored candidate:

	{"id": "req_001", "op": "filter", "v": "..." , "c": 1234, "sc": 120,
	 "lid": 1822, "rid": 1822, "n": [{"l": 1822, "r": 1822}, {"l": 5, "r": 7}]}

The server answers with the verdict and the current accepted count:

	{"id": "req_001", "r": "good", "k": 1, "t": 12}

Verdicts are "good" (keep), "bad" (drop, keep enumerating) and "stop" (drop
and stop asking for candidates this session). After a "stop" the client must
send a reset before filtering again:

	{"id": "seg_002", "op": "reset"}

Candidates must be sent in non-decreasing cost order within one session;
the server does not enforce the ordering. One server holds exactly one
filter session at a time; a reset marks a segment boundary.
*/
package server

// FilterRequest carries one op. For "filter" the remaining fields describe
// the candidate; "reset" and "health" ignore them.
type FilterRequest struct {
	ID               string        `msgpack:"id"`
	Op               string        `msgpack:"op"`
	Value            string        `msgpack:"v,omitempty"`
	Cost             int           `msgpack:"c,omitempty"`
	StructureCost    int           `msgpack:"sc,omitempty"`
	Lid              uint16        `msgpack:"lid,omitempty"`
	Rid              uint16        `msgpack:"rid,omitempty"`
	Nodes            []RequestNode `msgpack:"n,omitempty"`
	ContextSensitive bool          `msgpack:"cs,omitempty"`
}

// RequestNode is one lexical unit of a candidate on the wire.
type RequestNode struct {
	Lid   uint16 `msgpack:"l"`
	Rid   uint16 `msgpack:"r"`
	Value string `msgpack:"v,omitempty"`
}

// FilterResponse answers a filter op.
type FilterResponse struct {
	ID        string `msgpack:"id"`
	Verdict   string `msgpack:"r"`
	Accepted  int    `msgpack:"k"`
	TimeTaken int64  `msgpack:"t"`
}

// StatusResponse answers reset and health ops.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for failed requests.
type ErrorResponse struct {
	ID    string `msgpack:"id,omitempty"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
