// Package sqlxrepos implements the domain repositories on PostgreSQL with
// sqlx. Write methods accept an optional executor so services can run
// multi-statement operations inside one transaction.
package sqlxrepos

import "github.com/mwalimu/shule/core"

func getExec(dflt core.DBExecutor, svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return dflt
}
