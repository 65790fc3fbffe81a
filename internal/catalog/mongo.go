package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	_ OrderRepository    = (*MongoStore)(nil)
	_ CustomerRepository = (*MongoStore)(nil)
)

const (
	ordersCollection    = "orders"
	customersCollection = "customers"
)

// MongoStore reads orders and customers written by the storefront.
type MongoStore struct {
	orders    *mongo.Collection
	customers *mongo.Collection
}

// NewMongoStore creates a store over the storefront database
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		orders:    db.Collection(ordersCollection),
		customers: db.Collection(customersCollection),
	}
}

// findPage counts matches, then loads one page of them into out.
func findPage(ctx context.Context, coll *mongo.Collection, filter interface{}, params ListParams, sort bson.D, out interface{}) (int, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", coll.Name(), err)
	}

	// past the end: leave out as the caller initialised it
	if int64(params.Offset()) >= total {
		return int(total), nil
	}

	opts := options.Find().
		SetSkip(int64(params.Offset())).
		SetLimit(int64(params.Limit)).
		SetSort(sort)
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return 0, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return 0, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return int(total), nil
}

// ListOrders filters on exact status, oldest first.
func (s *MongoStore) ListOrders(ctx context.Context, params ListParams) (*OrderPage, error) {
	params = params.Normalize()
	filter := bson.M{}
	if params.Status != "" {
		filter["status"] = params.Status
	}

	orders := []Order{}
	total, err := findPage(ctx, s.orders, filter, params, bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}, &orders)
	if err != nil {
		return nil, fmt.Errorf("ListOrders: %w", err)
	}
	if orders == nil {
		orders = []Order{}
	}
	return &OrderPage{
		Orders:      orders,
		TotalPages:  totalPages(total, params.Limit),
		TotalOrders: total,
		CurrentPage: params.Page,
	}, nil
}

func (s *MongoStore) GetOrder(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound("order", id)
	}
	if err != nil {
		return nil, fmt.Errorf("GetOrder: %w", err)
	}
	return &o, nil
}

// customerFilter matches the search term against name or email.
func customerFilter(search string) bson.M {
	search = strings.TrimSpace(search)
	if search == "" {
		return bson.M{}
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"name": re},
		bson.M{"email": re},
	}}
}

func (s *MongoStore) ListCustomers(ctx context.Context, params ListParams) (*CustomerPage, error) {
	params = params.Normalize()

	customers := []Customer{}
	total, err := findPage(ctx, s.customers, customerFilter(params.Search), params, bson.D{{Key: "_id", Value: 1}}, &customers)
	if err != nil {
		return nil, fmt.Errorf("ListCustomers: %w", err)
	}
	if customers == nil {
		customers = []Customer{}
	}
	return &CustomerPage{
		Customers:      customers,
		TotalPages:     totalPages(total, params.Limit),
		TotalCustomers: total,
		CurrentPage:    params.Page,
	}, nil
}

func (s *MongoStore) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	var c Customer
	err := s.customers.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound("customer", id)
	}
	if err != nil {
		return nil, fmt.Errorf("GetCustomer: %w", err)
	}
	return &c, nil
}

// Seed upserts demo orders and customers by id, so running it twice is harmless.
func (s *MongoStore) Seed(ctx context.Context, orders []Order, customers []Customer) error {
	upsert := options.Replace().SetUpsert(true)
	for _, o := range orders {
		if _, err := s.orders.ReplaceOne(ctx, bson.M{"_id": o.ID}, o, upsert); err != nil {
			return fmt.Errorf("seed order %s: %w", o.ID, err)
		}
	}
	for _, c := range customers {
		if _, err := s.customers.ReplaceOne(ctx, bson.M{"_id": c.ID}, c, upsert); err != nil {
			return fmt.Errorf("seed customer %s: %w", c.ID, err)
		}
	}
	return nil
}
