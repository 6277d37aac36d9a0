package domain

// PortBinding is one published (or merely exposed) container port.
// HostPort is nil when the port is not bound on the host.
type PortBinding struct {
	HostPort      *int   `json:"host_port"`
	ContainerPort int    `json:"container_port"`
	Protocol      string `json:"protocol"`
}

type ContainerSummary struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Image  string        `json:"image"`
	Status string        `json:"status"`
	State  string        `json:"state"`
	Ports  []PortBinding `json:"ports"`
}

type ContainerDetail struct {
	ContainerSummary
	CPUPercent  *float64 `json:"cpu_percent"`
	MemoryUsage *int64   `json:"memory_usage"`
	Uptime      *string  `json:"uptime"`
}

type VolumeMount struct {
	VolumeName string `json:"volume_name"`
	Mountpoint string `json:"mountpoint"`
	ReadOnly   bool   `json:"read_only"`
}

type ContainerCreateRequest struct {
	Name          string            `json:"name,omitempty"`
	Image         string            `json:"image"`
	Ports         []PortBinding     `json:"ports"`
	Env           map[string]string `json:"env"`
	Volumes       []VolumeMount     `json:"volumes"`
	RestartPolicy string            `json:"restart_policy,omitempty"`
}

type ContainerLogs struct {
	Content string `json:"content"`
}
