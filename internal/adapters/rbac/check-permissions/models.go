// internal/adapters/rbac/check-permissions/models.go
package checkpermissions

import "knowledge-search/internal/models"

type Input struct {
	Session models.Session `json:"-"`
}

type Output = models.PermissionCheck
