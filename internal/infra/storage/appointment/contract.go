package appointment

import (
	"github.com/namstudio/NAM-AppointmentService/pkg/dbmetrics"
)

// Переиспользуем интерфейс исполнителя запросов из dbmetrics:
// репозиторий работает и с *sql.DB, и с *dbmetrics.DB
type DBExecutor = dbmetrics.DBExecutor
