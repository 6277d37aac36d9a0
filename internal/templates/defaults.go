package templates

import "github.com/auto-dns/mira-gateway/internal/domain"

func intPtr(i int) *int { return &i }

// DefaultTemplates is the set written to an empty store.
func DefaultTemplates() []domain.Template {
	return []domain.Template{
		{
			ID:          "basic-nginx",
			Name:        "Basic Nginx",
			Description: "Simple Nginx container exposing port 80.",
			Image:       "nginx:alpine",
			Ports:       []domain.PortBinding{{HostPort: intPtr(8080), ContainerPort: 80, Protocol: "tcp"}},
			Env:         map[string]string{},
			Volumes:     []domain.VolumeMount{},
		},
		{
			ID:          "mira-web",
			Name:        "Mira Web",
			Description: "Frontend for Mira served by Nginx.",
			Image:       "nginx:alpine",
			Ports:       []domain.PortBinding{{HostPort: intPtr(8089), ContainerPort: 80, Protocol: "tcp"}},
			Env:         map[string]string{},
			Volumes:     []domain.VolumeMount{},
		},
		{
			ID:          "mariadb-basic",
			Name:        "MariaDB Basic",
			Description: "MariaDB database with default environment variables.",
			Image:       "mariadb:11",
			Ports:       []domain.PortBinding{{ContainerPort: 3306, Protocol: "tcp"}},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "root",
				"MYSQL_DATABASE":      "app",
			},
			Volumes: []domain.VolumeMount{{VolumeName: "mariadb_data", Mountpoint: "/var/lib/mysql"}},
		},
	}
}
