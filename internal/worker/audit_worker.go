package worker

import (
	"github.com/scalebit/admin-console/internal/service"
)

// StartAuditWorker registers session audit handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
