package repository

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/linskybing/scan2cad/internal/domain/notification"
)

const notificationsUserIndex = "user_id-index"

// DynamoNotificationRepo keeps notifications in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: user_id-index (PK: user_id, number)
type DynamoNotificationRepo struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ NotificationRepo = (*DynamoNotificationRepo)(nil)

func NewDynamoNotificationRepo(ddb *dynamodb.Client, tableName string) *DynamoNotificationRepo {
	return &DynamoNotificationRepo{ddb: ddb, tableName: tableName}
}

// DynamoDBConfig holds the connection settings; Endpoint targets a local
// DynamoDB when set.
type DynamoDBConfig struct {
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
}

func NewDynamoDBClient(ctx context.Context, cfg DynamoDBConfig) (*dynamodb.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

func (r *DynamoNotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	av, err := attributevalue.MarshalMap(n)
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	return err
}

func (r *DynamoNotificationRepo) ListByUser(ctx context.Context, userID uint, opts notification.ListOptions) ([]notification.Notification, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(notificationsUserIndex),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberN{Value: strconv.FormatUint(uint64(userID), 10)},
		},
	}
	if opts.UnreadOnly {
		input.FilterExpression = aws.String("is_read = :false")
		input.ExpressionAttributeValues[":false"] = &types.AttributeValueMemberBOOL{Value: false}
	}

	var items []notification.Notification
	paginator := dynamodb.NewQueryPaginator(r.ddb, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			var n notification.Notification
			if err := attributevalue.UnmarshalMap(raw, &n); err != nil {
				return nil, err
			}
			items = append(items, n)
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *DynamoNotificationRepo) ownedKey(id string, userID uint) (map[string]types.AttributeValue, map[string]types.AttributeValue) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
	values := map[string]types.AttributeValue{
		":uid": &types.AttributeValueMemberN{Value: strconv.FormatUint(uint64(userID), 10)},
	}
	return key, values
}

func (r *DynamoNotificationRepo) MarkRead(ctx context.Context, id string, userID uint) error {
	key, values := r.ownedKey(id, userID)
	values[":true"] = &types.AttributeValueMemberBOOL{Value: true}
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       key,
		UpdateExpression:          aws.String("SET is_read = :true"),
		ConditionExpression:       aws.String("user_id = :uid"),
		ExpressionAttributeValues: values,
	})
	return mapConditionFailure(err)
}

func (r *DynamoNotificationRepo) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	unread, err := r.ListByUser(ctx, userID, notification.ListOptions{UnreadOnly: true, Limit: 1 << 20})
	if err != nil {
		return 0, err
	}
	var n int64
	for _, item := range unread {
		if err := r.MarkRead(ctx, item.ID, userID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (r *DynamoNotificationRepo) Delete(ctx context.Context, id string, userID uint) error {
	key, values := r.ownedKey(id, userID)
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       key,
		ConditionExpression:       aws.String("user_id = :uid"),
		ExpressionAttributeValues: values,
	})
	return mapConditionFailure(err)
}

func mapConditionFailure(err error) error {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return ErrNotFound
	}
	return err
}
