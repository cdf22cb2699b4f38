package booking

import "github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"

// DBExecutor переиспользуем интерфейс из txmanager, чтобы репозиторий работал и с *sql.DB, и с *sql.Tx
type DBExecutor = txmanager.DBExecutor
