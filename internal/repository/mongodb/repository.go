package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/oliveraq/internal/domain/models"
)

const monthlyReportsCollection = "monthly_stock_reports"

// ReportArchive keeps one summary per reported month.
type ReportArchive interface {
	SaveMonthlyReport(ctx context.Context, summary models.StockReportSummary) error
}

// MongoDBRepository implements ReportArchive for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
	logger   *zap.Logger
}

// NewMongoDBRepository connects and pings the server.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: monthlyReportsCollection,
		logger:   logger,
	}, nil
}

// SaveMonthlyReport stores summary, replacing an earlier summary of the same period.
func (r *MongoDBRepository) SaveMonthlyReport(ctx context.Context, summary models.StockReportSummary) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)

	filter := bson.M{"period": summary.Period}
	res, err := collection.ReplaceOne(ctx, filter, summary, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save monthly report %s: %w", summary.Period, err)
	}

	r.logger.Debug("monthly report archived",
		zap.String("period", summary.Period),
		zap.Int64("matched", res.MatchedCount),
		zap.Bool("inserted", res.UpsertedID != nil))
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
