package utils

import (
	"fmt"

	"book-sharing-service/internal/models"
)

func ExportData(logs []models.AuditLog) error {
	for _, log := range logs {
		//change with actual calls
		fmt.Println(log.Timestamp, log.ID, log.Action, log.Data)
	}
	return nil
}
