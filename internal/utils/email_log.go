package utils

import (
	"context"
	"fmt"
)

func AppendToEmailLog(ctx context.Context, userID string, bookID string) {
	fmt.Printf("[EMAIL LOG] Notified user %s about book %s\n", userID, bookID)
}
