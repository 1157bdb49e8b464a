package main

import (
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/attendance"
	"github.com/mwalimu/shule/core/course"
	"github.com/mwalimu/shule/core/report"
	"github.com/mwalimu/shule/core/timetable"
	"github.com/mwalimu/shule/core/user"
	emailsvc "github.com/mwalimu/shule/services/email"
	logsvc "github.com/mwalimu/shule/services/logger"
	"github.com/mwalimu/shule/storage/database"
	inmemdb "github.com/mwalimu/shule/storage/database/inmem"
	sqlxrepos "github.com/mwalimu/shule/storage/database/sqlx"
)

func main() {
	conf := core.LoadConfig()

	std := log.New(os.Stdout, "DESK : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.RollbarToken != "" && !conf.Debug {
		logger = logsvc.NewRollbarLogger(std, conf)
	} else {
		logger = logsvc.NewStdLogger(std)
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	// storage; "inmem" runs without PostgreSQL and loses all data on exit
	var (
		coreDB  core.DB
		usrRepo user.Repository
		crsRepo course.Repository
		attRepo attendance.Repository
		ttRepo  timetable.Repository
		rptRepo report.Repository
	)
	if conf.Database.Engine == "inmem" {
		mem := inmemdb.NewDB()
		usrRepo = inmemdb.NewUserRepository(mem)
		crsRepo = inmemdb.NewCourseRepository(mem)
		attRepo = inmemdb.NewAttendanceRepository(mem)
		ttRepo = inmemdb.NewTimetableRepository(mem)
		rptRepo = inmemdb.NewReportRepository(mem)
	} else {
		db, err := database.Open(conf)
		if err != nil {
			logger.Fatal("opening database", err)
		}
		defer func() { _ = db.Close() }()
		if err := database.Ping(db); err != nil {
			logger.Fatal("database not ready", err)
		}
		if err := database.Migrate(db); err != nil {
			logger.Fatal("migrating database", err)
		}

		sdb := sqlx.NewDb(db, conf.Database.Engine)
		coreDB = db
		usrRepo = sqlxrepos.NewUserRepository(sdb)
		crsRepo = sqlxrepos.NewCourseRepository(sdb)
		attRepo = sqlxrepos.NewAttendanceRepository(sdb)
		ttRepo = sqlxrepos.NewTimetableRepository(sdb)
		rptRepo = sqlxrepos.NewReportRepository(sdb)
	}

	crsSvc := course.NewService(crsRepo, logger)
	usrSvc := user.NewService(coreDB, usrRepo, crsSvc, mailSvc, logger)
	attSvc := attendance.NewService(attRepo, logger)
	ttSvc := timetable.NewService(ttRepo, logger)
	rptSvc := report.NewService(rptRepo, mailSvc, logger)

	ctx := context.Background()
	if err := usrSvc.EnsureInitialAdmin(ctx, conf.AdminUsername, conf.AdminPassword); err != nil {
		logger.Fatal("creating initial admin", err)
	}

	term := newTerminal(os.Stdin, os.Stdout, usrSvc, crsSvc, attSvc, ttSvc, rptSvc)
	if err := term.run(ctx); err != nil {
		logger.Fatal("terminal error", err)
	}
}
