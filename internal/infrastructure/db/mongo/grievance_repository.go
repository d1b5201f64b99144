package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kshitij-kamdi/civic-stream/internal/core/domain"
	"github.com/kshitij-kamdi/civic-stream/internal/core/ports"
)

const collectionGrievances = "grievances"

// GrievanceRepository implements ports.GrievanceRepository using MongoDB.
type GrievanceRepository struct {
	col   *mongo.Collection
	clock ports.Clock
}

func NewGrievanceRepository(db *mongo.Database, clock ports.Clock) *GrievanceRepository {
	return &GrievanceRepository{col: db.Collection(collectionGrievances), clock: clock}
}

// Create inserts a new grievance document, including its seeded history.
func (r *GrievanceRepository) Create(ctx context.Context, g *domain.Grievance) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, g)
	return err
}

func (r *GrievanceRepository) FindByID(ctx context.Context, id string) (*domain.Grievance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var g domain.Grievance
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGrievanceNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *GrievanceRepository) ListByCitizen(ctx context.Context, citizenID string) ([]*domain.Grievance, error) {
	return r.find(ctx, bson.M{"citizen_id": citizenID})
}

func (r *GrievanceRepository) ListByOfficial(ctx context.Context, officialID string) ([]*domain.Grievance, error) {
	return r.find(ctx, bson.M{"assigned_to": officialID})
}

func (r *GrievanceRepository) ListAll(ctx context.Context) ([]*domain.Grievance, error) {
	return r.find(ctx, bson.M{})
}

// List returns a page of grievances matching the filter and the total count.
func (r *GrievanceRepository) List(ctx context.Context, filter ports.ListGrievancesFilter) ([]*domain.Grievance, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Escalated != nil {
		query["is_escalated"] = *filter.Escalated
	}
	if filter.Search != "" {
		query["$or"] = bson.A{
			bson.M{"_id": bson.M{"$regex": filter.Search, "$options": "i"}},
			bson.M{"title": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
		if filter.Page > 1 {
			opts.SetSkip(int64((filter.Page - 1) * filter.Limit))
		}
	}

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var items []*domain.Grievance
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateWithHistory applies a partial update and appends a history entry when
// the status changes. The prior record is read first to decide whether the
// entry is an escalation (the update turns the flag on for the first time);
// this read-modify-write is safe under the single-logical-writer model.
func (r *GrievanceRepository) UpdateWithHistory(ctx context.Context, id string, upd ports.GrievanceUpdate, actorID, actorName, remarks string) (*domain.Grievance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	set := bson.M{"updated_at": now}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.Priority != nil {
		set["priority"] = *upd.Priority
	}
	if upd.AssignedTo != nil {
		set["assigned_to"] = *upd.AssignedTo
	}
	if upd.AssignedToName != nil {
		set["assigned_to_name"] = *upd.AssignedToName
	}
	if upd.IsEscalated != nil {
		set["is_escalated"] = *upd.IsEscalated
	}

	update := bson.M{"$set": set}
	if upd.Status != nil && *upd.Status != current.Status {
		update["$push"] = bson.M{"status_history": domain.StatusHistoryEntry{
			Status:        *upd.Status,
			Timestamp:     now,
			UpdatedBy:     actorID,
			UpdatedByName: actorName,
			Remarks:       remarks,
			IsEscalation:  upd.IsEscalated != nil && *upd.IsEscalated && !current.IsEscalated,
		}}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated domain.Grievance
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGrievanceNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// EnsureIndexes creates necessary indexes on the grievances collection.
func (r *GrievanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "citizen_id", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "is_escalated", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *GrievanceRepository) find(ctx context.Context, query bson.M) ([]*domain.Grievance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []*domain.Grievance
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
