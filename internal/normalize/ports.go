package normalize

import (
	"sort"
	"strconv"
	"strings"

	"github.com/auto-dns/mira-gateway/internal/domain"
)

// HostBinding is one host-side binding of a container port as reported by
// the runtime. HostPort is a decimal string and may be empty.
type HostBinding struct {
	HostIP   string
	HostPort string
}

// ExpandPorts flattens a "containerPort/protocol" keyed table into port
// bindings. A key with no bindings yields one entry with a nil host port.
// Keys whose container port is not an integer are skipped.
func ExpandPorts(raw map[string][]HostBinding) []domain.PortBinding {
	type parsedKey struct {
		port     int
		protocol string
		bindings []HostBinding
	}

	keys := make([]parsedKey, 0, len(raw))
	for key, bindings := range raw {
		portStr, proto, ok := splitPortKey(key)
		if !ok {
			continue
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			continue
		}
		keys = append(keys, parsedKey{port: port, protocol: proto, bindings: bindings})
	}
	// Map order is random; keep responses stable.
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].port != keys[j].port {
			return keys[i].port < keys[j].port
		}
		return keys[i].protocol < keys[j].protocol
	})

	ports := make([]domain.PortBinding, 0, len(keys))
	for _, k := range keys {
		if len(k.bindings) == 0 {
			ports = append(ports, domain.PortBinding{
				ContainerPort: k.port,
				Protocol:      k.protocol,
			})
			continue
		}
		for _, b := range k.bindings {
			ports = append(ports, domain.PortBinding{
				HostPort:      parseHostPort(b.HostPort),
				ContainerPort: k.port,
				Protocol:      k.protocol,
			})
		}
	}
	return ports
}

func splitPortKey(key string) (string, string, bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func parseHostPort(s string) *int {
	if s == "" {
		return nil
	}
	p, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &p
}
