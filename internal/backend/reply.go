package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxReplyBytes bounds how much of a backend reply is read into memory.
const maxReplyBytes = 8 << 20

// Reply is the decoded outcome of a generate call: either Success or Failure.
type Reply interface {
	isReply()
}

// Success carries the completion text.
type Success struct {
	Text string
}

// Failure carries the status and a human-readable reason.
type Failure struct {
	StatusCode int
	Message    string
}

func (Success) isReply() {}
func (Failure) isReply() {}

// generateReply mirrors the subset of the /api/generate reply we rely on.
// Response is a pointer so that an absent field is distinguishable from "".
type generateReply struct {
	Model    string  `json:"model"`
	Response *string `json:"response"`
	Done     bool    `json:"done"`
	Error    string  `json:"error"`
}

// decodeGenerateReply turns a status and body into a Reply without trusting
// field presence.
func decodeGenerateReply(status int, body []byte) Reply {
	var r generateReply
	decErr := json.Unmarshal(body, &r)
	if status != http.StatusOK {
		msg := strings.TrimSpace(r.Error)
		if decErr != nil || msg == "" {
			msg = snippet(body)
		}
		return Failure{StatusCode: status, Message: msg}
	}
	switch {
	case decErr != nil:
		return Failure{StatusCode: status, Message: fmt.Sprintf("decode reply: %v", decErr)}
	case r.Error != "":
		return Failure{StatusCode: status, Message: r.Error}
	case r.Response == nil:
		return Failure{StatusCode: status, Message: "reply has no response field"}
	}
	return Success{Text: *r.Response}
}

// readBody reads at most maxReplyBytes of the response body.
func readBody(resp *http.Response) ([]byte, error) {
	return io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
}

// tagsReply mirrors /api/tags.
type tagsReply struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func snippet(b []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		s = s[:limit]
	}
	return s
}
