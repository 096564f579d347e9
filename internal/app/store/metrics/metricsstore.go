package metricsstore

import (
	"context"

	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals shown on the officer dashboard.
type Counts struct {
	ByStatus       map[models.CaseStatus]int64 `json:"byStatus"`
	TotalCases     int64                       `json:"totalCases"`
	OpenGrievances int64                       `json:"openGrievances"`
}

// FetchCaseCounts returns case totals per status and the open grievance count.
// Intentionally tolerant: on error it returns 0 for that counter. Every known
// status appears in ByStatus, including those with no cases.
func FetchCaseCounts(ctx context.Context, db *mongo.Database) Counts {
	out := Counts{ByStatus: make(map[models.CaseStatus]int64, len(models.OrderedStatuses)+1)}
	for _, st := range models.OrderedStatuses {
		out.ByStatus[st] = 0
	}
	out.ByStatus[models.StatusRejected] = 0

	// cases by status
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	if cur, err := db.Collection("cases").Aggregate(ctx, pipeline); err == nil {
		var rows []struct {
			Status models.CaseStatus `bson:"_id"`
			N      int64             `bson:"n"`
		}
		if err := cur.All(ctx, &rows); err == nil {
			for _, r := range rows {
				out.ByStatus[r.Status] = r.N
				out.TotalCases += r.N
			}
		}
	}

	// open grievances
	if n, err := db.Collection("grievances").CountDocuments(ctx, bson.M{"status": models.GrievanceOpen}); err == nil {
		out.OpenGrievances = n
	}

	return out
}
