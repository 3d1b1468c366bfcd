package daemon

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"book-sharing-service/internal/models"
	"book-sharing-service/internal/utils"
)

// LogExporter periodically ships unexported audit log entries and marks them
// as exported.
type LogExporter struct {
	Coll     *mongo.Collection
	Interval time.Duration
}

func (l *LogExporter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.exportPending(ctx)
		}
	}
}

func (l *LogExporter) exportPending(ctx context.Context) {
	res, err := l.Coll.Find(ctx, bson.M{"exported": false})
	if err != nil {
		return
	}

	var logs []models.AuditLog
	if err := res.All(ctx, &logs); err != nil || len(logs) == 0 {
		return
	}

	if err := utils.ExportData(logs); err != nil {
		return
	}

	ids := make([]primitive.ObjectID, 0, len(logs))
	for _, entry := range logs {
		ids = append(ids, entry.ID)
	}
	l.Coll.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{"$set": bson.M{"exported": true}})
}
