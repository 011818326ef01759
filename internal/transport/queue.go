// internal/transport/queue.go
package transport

import (
	"fmt"
	"strings"
)

// QueueID names a registered printer queue by port and device name
type QueueID struct {
	Port string `json:"port"`
	Name string `json:"name"`
}

// ParseQueueID parses the PORT:NAME form. The name may itself contain colons.
func ParseQueueID(s string) (QueueID, error) {
	port, name, ok := strings.Cut(strings.TrimSpace(s), ":")
	port, name = strings.TrimSpace(port), strings.TrimSpace(name)
	if !ok || port == "" || name == "" {
		return QueueID{}, newError(KindNotFound, s, fmt.Errorf("malformed queue id, want PORT:NAME"))
	}
	return QueueID{Port: port, Name: name}, nil
}

func (q QueueID) String() string {
	return q.Port + ":" + q.Name
}
