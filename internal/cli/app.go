package cli

import (
	"fmt"

	"schedule-reconciler/internal/api"
	"schedule-reconciler/internal/config"
	"schedule-reconciler/internal/logging"
	"schedule-reconciler/internal/repository"
	"schedule-reconciler/internal/service"
	"schedule-reconciler/internal/sheets"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// app - общие зависимости команд: база, репозитории и сервисы
type app struct {
	cfg    *config.Config
	db     *gorm.DB
	logger *logrus.Logger

	employees   *service.EmployeeService
	plans       *service.ScheduleBaseService
	adjustments *service.ScheduleAdjustmentService
	holidays    *service.NonWorkingDayService
	reports     *service.ReportService
	generator   *service.PlanGenerator
	importer    *service.PlanImporter
	stats       *service.MonthlyStatService
	sink        service.ReportSink
}

func newApp(cfg *config.Config) (*app, error) {
	logging.SetLevel(cfg.LogLevel)
	logger := logging.New()

	db, err := repository.OpenSQLite(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	employeeRepo, err := repository.NewGormEmployeeRepository(db)
	if err != nil {
		_ = repository.Close(db)
		return nil, fmt.Errorf("failed to create employee repository: %w", err)
	}

	planRepo, err := repository.NewGormScheduleBaseRepository(db)
	if err != nil {
		_ = repository.Close(db)
		return nil, fmt.Errorf("failed to create schedule base repository: %w", err)
	}

	adjRepo, err := repository.NewGormScheduleAdjustmentRepository(db)
	if err != nil {
		_ = repository.Close(db)
		return nil, fmt.Errorf("failed to create schedule adjustment repository: %w", err)
	}

	holidayRepo, err := repository.NewGormNonWorkingDayRepository(db)
	if err != nil {
		_ = repository.Close(db)
		return nil, fmt.Errorf("failed to create non working day repository: %w", err)
	}

	statRepo, err := repository.NewGormMonthlyStatRepository(db)
	if err != nil {
		_ = repository.Close(db)
		return nil, fmt.Errorf("failed to create monthly stat repository: %w", err)
	}

	holidays := service.NewNonWorkingDayService(holidayRepo)
	stats := service.NewMonthlyStatService(statRepo)
	plans := service.NewScheduleBaseService(planRepo, employeeRepo)

	return &app{
		cfg:         cfg,
		db:          db,
		logger:      logger,
		employees:   service.NewEmployeeService(employeeRepo),
		plans:       plans,
		adjustments: service.NewScheduleAdjustmentService(adjRepo, employeeRepo),
		holidays:    holidays,
		reports:     service.NewReportService(employeeRepo, planRepo, adjRepo, holidays, cfg.LunchNoteMode),
		generator:   service.NewPlanGenerator(employeeRepo, planRepo, holidays, nil),
		importer:    service.NewPlanImporter(employeeRepo, plans),
		stats:       stats,
		sink: service.MultiSink{
			sheets.NewWriter(cfg.ReportPath, cfg.ReportTemplatePath),
			stats,
		},
	}, nil
}

// openApp загружает конфиг и поднимает зависимости
func openApp() (*app, error) {
	return newApp(config.GetConfig())
}

func (a *app) Close() error {
	return repository.Close(a.db)
}

func (a *app) apiHandler() *api.Handler {
	return &api.Handler{
		Employees:    a.employees,
		Plans:        a.plans,
		Adjustments:  a.adjustments,
		Holidays:     a.holidays,
		Reports:      a.reports,
		Generator:    a.generator,
		Importer:     a.importer,
		Stats:        a.stats,
		Sink:         a.sink,
		SinkPath:     a.cfg.ReportPath,
		TemplatePath: a.cfg.ReportTemplatePath,
	}
}

// loadHolidays загружает календарь из HOLIDAYS_PATH, если он задан
func (a *app) loadHolidays() {
	if a.cfg.HolidaysPath == "" {
		return
	}
	n, err := a.holidays.LoadFromJSON(a.cfg.HolidaysPath)
	if err != nil {
		a.logger.WithError(err).WithField("path", a.cfg.HolidaysPath).Warn("Failed to load production calendar")
		return
	}
	a.logger.WithField("days", n).Info("Production calendar loaded")
}
