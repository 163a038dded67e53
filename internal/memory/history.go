package memory

import "encoding/json"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one transcript line. Turns are immutable once appended.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// History is the ordered per-conversation transcript. It expires as a
// unit: there is no per-turn TTL.
type History []Turn

func (h History) Append(role, content string) History {
	return append(h, Turn{Role: role, Content: content})
}

func encodeHistory(h History) ([]byte, error) {
	return json.Marshal(h)
}

// decodeHistory reads a stored payload back. Malformed payloads read as
// an absent entry, never as an error.
func decodeHistory(raw []byte) History {
	var h History
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil
	}
	return h
}
