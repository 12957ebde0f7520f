package permissions

import (
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission lists the roles allowed on one route pattern, e.g. PUT /v1/rooms/{id}/status.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]int
}

func key(path, method string) string {
	return method + " " + path
}

// FindPermissions returns the entry for the route, or a zero Permission when none is declared.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	idx, ok := r.index[key(path, method)]
	if !ok {
		return Permission{}
	}

	return r.Endpoints[idx]
}

var (
	loaded   *PermissionData
	loadOnce sync.Once
)

// Get decodes the embedded table once. It returns nil when the table is malformed, which makes
// RBAC refuse every request.
func Get() *PermissionData {
	loadOnce.Do(func() {
		var permissions PermissionData

		if err := json.Unmarshal(permissionsData, &permissions); err != nil {
			log.Error().Err(err).Msg("Failed to decode embedded permissions")

			return
		}

		permissions.index = make(map[string]int, len(permissions.Endpoints))

		for i, endpoint := range permissions.Endpoints {
			if _, exists := permissions.index[key(endpoint.Path, endpoint.Method)]; exists {
				log.Warn().Str("method", endpoint.Method).Str("path", endpoint.Path).Msg("Duplicate permission entry, keeping the first")

				continue
			}

			permissions.index[key(endpoint.Path, endpoint.Method)] = i
		}

		log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

		loaded = &permissions
	})

	return loaded
}
