package main

import (
	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/storage/database"
)

var createDBFunc = database.CreateIfNotExist // mockable

// createDB provisions the app user and database, then brings the schema up to
// date. It opens its own connection: the one held by the CLI was dialed before
// the database existed.
func (cli *commandLine) createDB() error {
	if err := createDBFunc(core.Conf); err != nil {
		return err
	}

	db, err := database.Open(core.Conf)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	if err := database.Ping(db); err != nil {
		return err
	}
	return database.Migrate(db)
}
