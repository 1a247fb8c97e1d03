package approval

import (
	"embed"

	"github.com/renterra/backoffice/modules/approval/infrastructure/persistence"
	"github.com/renterra/backoffice/modules/approval/presentation/controllers"
	"github.com/renterra/backoffice/modules/approval/services"
	uploadservices "github.com/renterra/backoffice/modules/uploads/services"
	"github.com/renterra/backoffice/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(MigrationFiles, "infrastructure/persistence/schema")

	uploads := app.Service(uploadservices.UploadService{}).(*uploadservices.UploadService)
	app.RegisterServices(
		services.NewApprovalService(
			persistence.NewChangeRequestRepository(),
			services.NewReviewPolicy(),
			services.NewExecutorRegistry(),
			uploads.PersistAttachment,
			app.Authz(),
			app.EventPublisher(),
		),
	)
	app.RegisterControllers(
		controllers.NewChangeRequestAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "approval"
}
