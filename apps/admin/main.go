package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/storage/database"
	sqlxrepos "github.com/mwalimu/shule/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.LoadConfig()

	// set up DB; skip the readiness check for createdb, the database may not
	// exist yet
	db, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()
	if len(os.Args) > 1 && os.Args[1] != "createdb" {
		errAndDie(database.Ping(db))
	}

	// start CLI
	cli := commandLine{
		db:      db,
		usrRepo: sqlxrepos.NewUserRepository(sqlx.NewDb(db, conf.Database.Engine)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
