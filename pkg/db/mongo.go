package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/null-create/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/null-create/toolwatch/pkg/toolwatch"
)

// fingerprintRecord is the stored form of a toolwatch.Fingerprint.
type fingerprintRecord struct {
	ToolName            string    `bson:"tool_name" json:"tool_name"`
	Version             string    `bson:"version" json:"version"`
	SchemaHash          string    `bson:"schema_hash" json:"schema_hash"`
	ResponsePatternHash string    `bson:"response_pattern_hash" json:"response_pattern_hash"`
	CapturedAt          time.Time `bson:"captured_at" json:"captured_at"`
}

// alertRecord is the stored form of a toolwatch.Alert.
type alertRecord struct {
	ID             string            `bson:"_id,omitempty" json:"id"`
	ToolName       string            `bson:"tool_name" json:"tool_name"`
	ChangeType     string            `bson:"change_type" json:"change_type"`
	OldFingerprint fingerprintRecord `bson:"old_fingerprint" json:"old_fingerprint"`
	NewFingerprint fingerprintRecord `bson:"new_fingerprint" json:"new_fingerprint"`
	DetectedAt     time.Time         `bson:"detected_at" json:"detected_at"`
	Severity       string            `bson:"severity" json:"severity"`
}

// AlertArchive is a MongoDB-backed durable alert history. The in-memory
// registry never prunes alerts; long-term retention and querying live
// here instead.
type AlertArchive struct {
	client     *mongo.Client
	collection *mongo.Collection
	ctx        context.Context
	cancel     context.CancelFunc
	log        *logger.Logger
}

// NewAlertArchive connects to MongoDB and returns an archive bound to
// the given database and collection.
func NewAlertArchive(uri, dbName, collectionName string) (*AlertArchive, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		cancel()
		return nil, err
	}

	// Ping to ensure the connection is live
	if err := client.Ping(ctx, nil); err != nil {
		cancel()
		return nil, err
	}

	archive := &AlertArchive{
		client:     client,
		collection: client.Database(dbName).Collection(collectionName),
		ctx:        ctx,
		cancel:     cancel,
		log:        logger.NewLogger("ALERT_ARCHIVE", uuid.NewString()),
	}

	archive.log.Info("connected to MongoDB at %s", uri)
	return archive, nil
}

// InsertAlert archives a detected mutation.
func (a *AlertArchive) InsertAlert(alert toolwatch.Alert) error {
	_, err := a.collection.InsertOne(a.ctx, toRecord(alert))
	return err
}

// FindAlertsByTool retrieves archived alerts for one tool.
func (a *AlertArchive) FindAlertsByTool(toolName string) ([]toolwatch.Alert, error) {
	return a.find(bson.M{"tool_name": toolName})
}

// FindAlertsBySeverity retrieves archived alerts of one severity grade.
func (a *AlertArchive) FindAlertsBySeverity(severity toolwatch.Severity) ([]toolwatch.Alert, error) {
	return a.find(bson.M{"severity": string(severity)})
}

func (a *AlertArchive) find(filter bson.M) ([]toolwatch.Alert, error) {
	cursor, err := a.collection.Find(a.ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(a.ctx)

	var records []alertRecord
	if err := cursor.All(a.ctx, &records); err != nil {
		return nil, err
	}

	alerts := make([]toolwatch.Alert, len(records))
	for i, rec := range records {
		alerts[i] = fromRecord(rec)
	}
	return alerts, nil
}

// Close disconnects the MongoDB client.
func (a *AlertArchive) Close() error {
	a.cancel()
	return a.client.Disconnect(context.Background())
}

func toRecord(alert toolwatch.Alert) alertRecord {
	return alertRecord{
		ID:             uuid.NewString(),
		ToolName:       alert.ToolName,
		ChangeType:     string(alert.ChangeType),
		OldFingerprint: fingerprintToRecord(alert.OldFingerprint),
		NewFingerprint: fingerprintToRecord(alert.NewFingerprint),
		DetectedAt:     alert.DetectedAt,
		Severity:       string(alert.Severity),
	}
}

func fromRecord(rec alertRecord) toolwatch.Alert {
	return toolwatch.Alert{
		ToolName:       rec.ToolName,
		ChangeType:     toolwatch.ChangeType(rec.ChangeType),
		OldFingerprint: recordToFingerprint(rec.OldFingerprint),
		NewFingerprint: recordToFingerprint(rec.NewFingerprint),
		DetectedAt:     rec.DetectedAt,
		Severity:       toolwatch.Severity(rec.Severity),
	}
}

func fingerprintToRecord(fp toolwatch.Fingerprint) fingerprintRecord {
	return fingerprintRecord{
		ToolName:            fp.ToolName,
		Version:             fp.Version,
		SchemaHash:          fp.SchemaHash,
		ResponsePatternHash: fp.ResponsePatternHash,
		CapturedAt:          fp.CapturedAt,
	}
}

func recordToFingerprint(rec fingerprintRecord) toolwatch.Fingerprint {
	return toolwatch.Fingerprint{
		ToolName:            rec.ToolName,
		Version:             rec.Version,
		SchemaHash:          rec.SchemaHash,
		ResponsePatternHash: rec.ResponsePatternHash,
		CapturedAt:          rec.CapturedAt,
	}
}
