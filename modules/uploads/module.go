package uploads

import (
	"embed"

	"github.com/renterra/backoffice/modules/uploads/infrastructure/persistence"
	"github.com/renterra/backoffice/modules/uploads/presentation/controllers"
	"github.com/renterra/backoffice/modules/uploads/services"
	"github.com/renterra/backoffice/pkg/application"
	"github.com/renterra/backoffice/pkg/configuration"
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

	app.RegisterServices(
		services.NewUploadService(
			persistence.NewUploadRepository(),
			persistence.NewLocalStorage(configuration.Use().UploadsPath),
			app.EventPublisher(),
		),
	)
	app.RegisterControllers(
		controllers.NewUploadAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "uploads"
}
