package domain

type ImageSummary struct {
	ID        string   `json:"id"`
	RepoTags  []string `json:"repo_tags"`
	SizeBytes int64    `json:"size_bytes"`
	Created   string   `json:"created"`
}

type ImageContainerRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	State  string `json:"state"`
	Status string `json:"status"`
}

type ImageDetail struct {
	ImageSummary
	Labels     map[string]string   `json:"labels"`
	Containers []ImageContainerRef `json:"containers"`
}
