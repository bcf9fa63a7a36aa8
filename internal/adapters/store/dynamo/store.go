// Package dynamo is a ports.SubscriberStore backed by a DynamoDB table.
//
// Table layout: partition key "email" (S) and a global secondary index on
// "unsubscribe_token" (S). Email uniqueness is enforced with a conditional
// put. Token uniqueness relies on the index lookup before writes plus the
// randomness of generated tokens, since a GSI cannot carry a constraint.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jsamuelsen/daily-stoic/internal/domain"
	"github.com/jsamuelsen/daily-stoic/internal/platform/config"
)

// API is the subset of the DynamoDB client the store uses.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// item is the stored attribute shape.
type item struct {
	Email            string `dynamodbav:"email"`
	Subscribed       bool   `dynamodbav:"subscribed"`
	UnsubscribeToken string `dynamodbav:"unsubscribe_token"`
	Timezone         string `dynamodbav:"timezone"`
	CreatedAt        string `dynamodbav:"created_at"`
	UpdatedAt        string `dynamodbav:"updated_at"`
}

func (it item) subscriber() (*domain.Subscriber, error) {
	created, err := time.Parse(time.RFC3339Nano, it.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	updated, err := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &domain.Subscriber{
		Email:            it.Email,
		Subscribed:       it.Subscribed,
		UnsubscribeToken: it.UnsubscribeToken,
		Timezone:         it.Timezone,
		CreatedAt:        created,
		UpdatedAt:        updated,
	}, nil
}

// Store implements ports.SubscriberStore.
type Store struct {
	api        API
	table      string
	tokenIndex string
	logger     *slog.Logger
	now        func() time.Time
}

// NewClient builds a DynamoDB client from the default AWS credential chain.
// Region and Endpoint override the environment when set.
func NewClient(ctx context.Context, cfg config.DynamoDBConfig) (*dynamodb.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// New returns a store over api.
func New(api API, cfg config.DynamoDBConfig, logger *slog.Logger) (*Store, error) {
	if api == nil {
		return nil, errors.New("dynamo: api client is required")
	}

	if strings.TrimSpace(cfg.Table) == "" {
		return nil, domain.NewConfigurationError("store.dynamodb.table", "table is required")
	}

	if strings.TrimSpace(cfg.TokenIndex) == "" {
		return nil, domain.NewConfigurationError("store.dynamodb.token_index", "token index is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		api:        api,
		table:      cfg.Table,
		tokenIndex: cfg.TokenIndex,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// FindByEmail implements ports.SubscriberStore.
func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	email = domain.NormalizeEmail(email)

	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            emailKey(email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("getting subscriber: %w", err)
	}

	if out.Item == nil {
		return nil, domain.NewNotFoundError(domain.EntitySubscriber, email)
	}

	return decode(out.Item)
}

// FindByToken implements ports.SubscriberStore.
func (s *Store) FindByToken(ctx context.Context, token string) (*domain.Subscriber, error) {
	it, err := s.lookupToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if it == nil {
		return nil, domain.NewNotFoundError(domain.EntitySubscriber, "")
	}

	return decode(it)
}

// Insert implements ports.SubscriberStore.
func (s *Store) Insert(ctx context.Context, sub *domain.Subscriber) error {
	if err := s.ensureTokenFree(ctx, sub.UnsubscribeToken, ""); err != nil {
		return err
	}

	now := s.now().UTC()

	it := item{
		Email:            domain.NormalizeEmail(sub.Email),
		Subscribed:       sub.Subscribed,
		UnsubscribeToken: sub.UnsubscribeToken,
		Timezone:         domain.NormalizeTimezone(sub.Timezone),
		CreatedAt:        stamp(sub.CreatedAt, now),
		UpdatedAt:        stamp(sub.UpdatedAt, now),
	}

	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return fmt.Errorf("marshaling subscriber: %w", err)
	}

	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if isConditionFailed(err) {
		return domain.NewConflictError(domain.EntitySubscriber, "email already registered")
	}

	if err != nil {
		return fmt.Errorf("putting subscriber: %w", err)
	}

	return nil
}

// UpdateByEmail implements ports.SubscriberStore.
func (s *Store) UpdateByEmail(ctx context.Context, email string, update domain.SubscriberUpdate) (*domain.Subscriber, error) {
	email = domain.NormalizeEmail(email)

	if update.UnsubscribeToken != nil {
		if err := s.ensureTokenFree(ctx, *update.UnsubscribeToken, email); err != nil {
			return nil, err
		}
	}

	sets := []string{"updated_at = :updated"}
	values := map[string]types.AttributeValue{
		":updated": &types.AttributeValueMemberS{Value: s.now().UTC().Format(time.RFC3339Nano)},
	}

	if update.Subscribed != nil {
		sets = append(sets, "subscribed = :subscribed")
		values[":subscribed"] = &types.AttributeValueMemberBOOL{Value: *update.Subscribed}
	}

	if update.UnsubscribeToken != nil {
		sets = append(sets, "unsubscribe_token = :token")
		values[":token"] = &types.AttributeValueMemberS{Value: *update.UnsubscribeToken}
	}

	if update.Timezone != nil {
		sets = append(sets, "#tz = :tz")
		values[":tz"] = &types.AttributeValueMemberS{Value: *update.Timezone}
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       emailKey(email),
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ConditionExpression:       aws.String("attribute_exists(email)"),
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	}

	// "timezone" is a DynamoDB reserved word.
	if update.Timezone != nil {
		input.ExpressionAttributeNames = map[string]string{"#tz": "timezone"}
	}

	out, err := s.api.UpdateItem(ctx, input)
	if isConditionFailed(err) {
		return nil, domain.NewNotFoundError(domain.EntitySubscriber, email)
	}

	if err != nil {
		return nil, fmt.Errorf("updating subscriber: %w", err)
	}

	return decode(out.Attributes)
}

// ListSubscribed implements ports.SubscriberStore. The table is scanned
// page by page; results are ordered by creation time, then email.
func (s *Store) ListSubscribed(ctx context.Context) ([]domain.Subscriber, error) {
	p := dynamodb.NewScanPaginator(s.api, &dynamodb.ScanInput{
		TableName:        aws.String(s.table),
		FilterExpression: aws.String("subscribed = :subscribed"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":subscribed": &types.AttributeValueMemberBOOL{Value: true},
		},
	})

	out := make([]domain.Subscriber, 0)
	pages := 0

	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scanning subscribers: %w", err)
		}

		pages++

		for _, av := range page.Items {
			sub, err := decode(av)
			if err != nil {
				return nil, err
			}

			out = append(out, *sub)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}

		return out[i].Email < out[j].Email
	})

	s.logger.DebugContext(ctx, "scanned subscribers",
		slog.Int("pages", pages),
		slog.Int("subscribed", len(out)),
	)

	return out, nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "subscriber-store" }

// Check implements ports.HealthChecker.
func (s *Store) Check(ctx context.Context) error {
	out, err := s.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.table)})
	if err != nil {
		return fmt.Errorf("describing table: %w", err)
	}

	if out.Table != nil && out.Table.TableStatus != types.TableStatusActive {
		return fmt.Errorf("table %s is %s", s.table, out.Table.TableStatus)
	}

	return nil
}

func (s *Store) lookupToken(ctx context.Context, token string) (map[string]types.AttributeValue, error) {
	if token == "" {
		return nil, nil
	}

	out, err := s.api.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(s.tokenIndex),
		KeyConditionExpression: aws.String("unsubscribe_token = :token"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":token": &types.AttributeValueMemberS{Value: token},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("querying token index: %w", err)
	}

	if len(out.Items) == 0 {
		return nil, nil
	}

	return out.Items[0], nil
}

// ensureTokenFree fails with a conflict when token belongs to a record
// other than owner.
func (s *Store) ensureTokenFree(ctx context.Context, token, owner string) error {
	it, err := s.lookupToken(ctx, token)
	if err != nil || it == nil {
		return err
	}

	if e, ok := it["email"].(*types.AttributeValueMemberS); ok && owner != "" && e.Value == owner {
		return nil
	}

	return domain.NewConflictError(domain.EntitySubscriber, "unsubscribe token already in use")
}

func emailKey(email string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"email": &types.AttributeValueMemberS{Value: email},
	}
}

func decode(av map[string]types.AttributeValue) (*domain.Subscriber, error) {
	var it item
	if err := attributevalue.UnmarshalMap(av, &it); err != nil {
		return nil, fmt.Errorf("unmarshaling subscriber: %w", err)
	}

	return it.subscriber()
}

func stamp(t, fallback time.Time) string {
	if t.IsZero() {
		t = fallback
	}

	return t.UTC().Format(time.RFC3339Nano)
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
