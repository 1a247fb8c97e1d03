package rental

import (
	"embed"

	approvalservices "github.com/renterra/backoffice/modules/approval/services"
	"github.com/renterra/backoffice/modules/rental/infrastructure/persistence"
	"github.com/renterra/backoffice/modules/rental/presentation/controllers"
	"github.com/renterra/backoffice/modules/rental/services"
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

	publisher := app.EventPublisher()
	customerService := services.NewCustomerService(persistence.NewCustomerRepository(), publisher)
	productService := services.NewProductService(persistence.NewProductRepository(), publisher)
	reservationService := services.NewReservationService(persistence.NewReservationRepository(), publisher)
	paymentService := services.NewPaymentService(persistence.NewPaymentRepository(), publisher)
	costService := services.NewCostService(persistence.NewCostRepository(), publisher)

	app.RegisterServices(
		customerService,
		productService,
		reservationService,
		paymentService,
		costService,
	)

	approvals := app.Service(approvalservices.ApprovalService{}).(*approvalservices.ApprovalService)
	services.RegisterExecutors(
		approvals.Executors(),
		customerService,
		productService,
		reservationService,
		paymentService,
		costService,
	)

	app.RegisterControllers(
		controllers.NewCustomerAPIController(app),
		controllers.NewProductAPIController(app),
		controllers.NewReservationAPIController(app),
		controllers.NewPaymentAPIController(app),
		controllers.NewCostAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "rental"
}
