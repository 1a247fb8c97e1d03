package modules

import (
	"github.com/renterra/backoffice/modules/approval"
	"github.com/renterra/backoffice/modules/rental"
	"github.com/renterra/backoffice/modules/uploads"
	"github.com/renterra/backoffice/pkg/application"
)

// BuiltInModules lists every module in registration order. Uploads must
// precede approval (the workflow persists attachments through the upload
// service) and approval must precede rental (resource executors hook into
// the workflow registry).
var BuiltInModules = []application.Module{
	uploads.NewModule(),
	approval.NewModule(),
	rental.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	return application.Load(app, externalModules...)
}
