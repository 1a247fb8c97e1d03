package application

import (
	"database/sql"
	"fmt"
	"io/fs"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/renterra/backoffice/pkg/authz"
	"github.com/renterra/backoffice/pkg/eventbus"
)

// Controller mounts a set of routes under the application router.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

// Module wires a feature area (services, controllers, schema) into the app.
type Module interface {
	Name() string
	Register(app Application) error
}

// Application is the composition root shared by all modules.
type Application interface {
	Pool() *pgxpool.Pool
	Logger() *logrus.Logger
	EventPublisher() eventbus.EventBus
	Authz() *authz.Service

	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}

	RegisterControllers(controllers ...Controller)
	Controllers() []Controller

	Migrations() *MigrationRegistry
}

type ApplicationOptions struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
	Authz    *authz.Service
}

func New(opts *ApplicationOptions) Application {
	return &application{
		pool:       opts.Pool,
		eventBus:   opts.EventBus,
		logger:     opts.Logger,
		authz:      opts.Authz,
		services:   map[reflect.Type]interface{}{},
		migrations: &MigrationRegistry{},
	}
}

type application struct {
	pool        *pgxpool.Pool
	eventBus    eventbus.EventBus
	logger      *logrus.Logger
	authz       *authz.Service
	services    map[reflect.Type]interface{}
	controllers []Controller
	migrations  *MigrationRegistry
}

func (a *application) Pool() *pgxpool.Pool { return a.pool }
func (a *application) Logger() *logrus.Logger { return a.logger }
func (a *application) EventPublisher() eventbus.EventBus { return a.eventBus }
func (a *application) Authz() *authz.Service { return a.authz }
func (a *application) Migrations() *MigrationRegistry { return a.migrations }

func (a *application) RegisterServices(services ...interface{}) {
	for _, svc := range services {
		a.services[serviceKey(svc)] = svc
	}
}

// Service returns the registered service matching the type of the given
// zero value, e.g. app.Service(services.ApprovalService{}).
func (a *application) Service(service interface{}) interface{} {
	svc, ok := a.services[serviceKey(service)]
	if !ok {
		panic(fmt.Sprintf("service %T not registered", service))
	}
	return svc
}

func serviceKey(service interface{}) reflect.Type {
	t := reflect.TypeOf(service)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func (a *application) RegisterControllers(controllers ...Controller) {
	a.controllers = append(a.controllers, controllers...)
}

func (a *application) Controllers() []Controller {
	return a.controllers
}

// Load registers each module in order.
func Load(app Application, modules ...Module) error {
	for _, m := range modules {
		if err := m.Register(app); err != nil {
			return fmt.Errorf("module %s: %w", m.Name(), err)
		}
	}
	return nil
}

type schemaSet struct {
	fsys fs.FS
	dir  string
}

// MigrationRegistry collects embedded per-module schema directories and
// applies them through goose.
type MigrationRegistry struct {
	sets []schemaSet
}

func (m *MigrationRegistry) RegisterSchema(fsys fs.FS, dir string) {
	m.sets = append(m.sets, schemaSet{fsys: fsys, dir: dir})
}

func (m *MigrationRegistry) Apply(db *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	for _, set := range m.sets {
		goose.SetBaseFS(set.fsys)
		if err := goose.Up(db, set.dir); err != nil {
			goose.SetBaseFS(nil)
			return fmt.Errorf("apply schema %s: %w", set.dir, err)
		}
	}
	goose.SetBaseFS(nil)
	return nil
}
