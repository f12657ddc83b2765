package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aaa-sports-camp/camp-registration/camp"
	"github.com/aaa-sports-camp/camp-registration/slices"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

var _ camp.Repository = &DB{}

// Single-table layout: every registration lives under one partition so the
// staff listing is a Query, and GSI1 is a sparse index keyed by the checkout
// session id once a payment session is attached.
type registrationDynamo struct {
	PK     string
	SK     string
	GSI1PK string `dynamodbav:",omitempty"`
	GSI1SK string `dynamodbav:",omitempty"`

	ID               uuid.UUID
	Version          int
	ChildFirstName   string
	ChildLastName    string
	ChildAge         int
	ParentName       string
	ParentEmail      string
	ParentPhone      string
	EmergencyContact string
	EmergencyPhone   string
	Program          string
	WaiverCompleted  bool
	PolicyAgreed     bool
	PaymentStatus    camp.PaymentStatus
	PaymentSessionID string
	RegisteredAt     time.Time
}

const (
	registrationEntityName = "REGISTRATION"
	sessionEntityName      = "SESSION"
)

func registrationPK() string {
	return registrationEntityName
}

func registrationSK(id uuid.UUID) string {
	return fmt.Sprintf("%s#%s", registrationEntityName, id)
}

func sessionGSIPK(paymentSessionID string) string {
	return fmt.Sprintf("%s#%s", sessionEntityName, paymentSessionID)
}

func registrationToDynamo(reg camp.Registration) registrationDynamo {
	item := registrationDynamo{
		PK:               registrationPK(),
		SK:               registrationSK(reg.ID),
		ID:               reg.ID,
		Version:          reg.Version,
		ChildFirstName:   reg.ChildFirstName,
		ChildLastName:    reg.ChildLastName,
		ChildAge:         reg.ChildAge,
		ParentName:       reg.ParentName,
		ParentEmail:      reg.ParentEmail,
		ParentPhone:      reg.ParentPhone,
		EmergencyContact: reg.EmergencyContact,
		EmergencyPhone:   reg.EmergencyPhone,
		Program:          reg.Program,
		WaiverCompleted:  reg.WaiverCompleted,
		PolicyAgreed:     reg.PolicyAgreed,
		PaymentStatus:    reg.PaymentStatus,
		PaymentSessionID: reg.PaymentSessionID,
		RegisteredAt:     reg.RegisteredAt,
	}
	if reg.PaymentSessionID != "" {
		item.GSI1PK = sessionGSIPK(reg.PaymentSessionID)
		item.GSI1SK = registrationSK(reg.ID)
	}

	return item
}

func dynamoToRegistration(item registrationDynamo) camp.Registration {
	return camp.Registration{
		ID:               item.ID,
		Version:          item.Version,
		ChildFirstName:   item.ChildFirstName,
		ChildLastName:    item.ChildLastName,
		ChildAge:         item.ChildAge,
		ParentName:       item.ParentName,
		ParentEmail:      item.ParentEmail,
		ParentPhone:      item.ParentPhone,
		EmergencyContact: item.EmergencyContact,
		EmergencyPhone:   item.EmergencyPhone,
		Program:          item.Program,
		WaiverCompleted:  item.WaiverCompleted,
		PolicyAgreed:     item.PolicyAgreed,
		PaymentStatus:    item.PaymentStatus,
		PaymentSessionID: item.PaymentSessionID,
		RegisteredAt:     item.RegisteredAt,
	}
}

func (d *DB) CreateRegistration(ctx context.Context, reg camp.Registration) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	item, err := attributevalue.MarshalMap(registrationToDynamo(reg))
	if err != nil {
		return camp.NewFailedToTranslateToDBModelError("Failed to translate registration to dynamo model", err)
	}
	expr := exprMustBuild(expression.NewBuilder().WithCondition(newItemConditional()))

	_, err = d.dynamoClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(d.tableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var conditionFailedErr *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailedErr) {
			return camp.NewRegistrationAlreadyExistsError(fmt.Sprintf("Registration with ID %q already exists", reg.ID), err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return camp.NewTimeoutError("CreateRegistration timed out")
		}
		return camp.NewFailedToWriteError("Failed PutItem call", err)
	}

	return nil
}

func (d *DB) GetRegistration(ctx context.Context, id uuid.UUID) (camp.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	resp, err := d.dynamoClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: registrationPK()},
			"SK": &types.AttributeValueMemberS{Value: registrationSK(id)},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return camp.Registration{}, camp.NewTimeoutError("GetRegistration timed out")
		}
		return camp.Registration{}, camp.NewFailedToFetchError(fmt.Sprintf("Failed to fetch registration with ID %q", id), err)
	}

	if len(resp.Item) == 0 {
		return camp.Registration{}, camp.NewRegistrationDoesNotExistError(fmt.Sprintf("Registration with ID %q not found", id), nil)
	}

	var item registrationDynamo
	err = attributevalue.UnmarshalMap(resp.Item, &item)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal registration from dynamo: %s", err))
	}

	return dynamoToRegistration(item), nil
}

func (d *DB) GetRegistrationBySessionID(ctx context.Context, paymentSessionID string) (camp.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	keyCond := expression.Key("GSI1PK").Equal(expression.Value(sessionGSIPK(paymentSessionID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build dynamo key expression: %s", err))
	}

	result, err := d.dynamoClient.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(d.tableName),
		IndexName:                 aws.String(gsi1),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return camp.Registration{}, camp.NewTimeoutError("GetRegistrationBySessionID timed out")
		}
		return camp.Registration{}, camp.NewFailedToFetchError(fmt.Sprintf("Failed to query registration for session %q", paymentSessionID), err)
	}

	if len(result.Items) == 0 {
		return camp.Registration{}, camp.NewRegistrationDoesNotExistError(fmt.Sprintf("No registration found for session %q", paymentSessionID), nil)
	}

	var item registrationDynamo
	err = attributevalue.UnmarshalMap(result.Items[0], &item)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal registration from dynamo: %s", err))
	}

	return dynamoToRegistration(item), nil
}

func (d *DB) AttachPaymentSession(ctx context.Context, id uuid.UUID, paymentSessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	update := expression.
		Set(expression.Name("PaymentSessionID"), expression.Value(paymentSessionID)).
		Set(expression.Name("GSI1PK"), expression.Value(sessionGSIPK(paymentSessionID))).
		Set(expression.Name("GSI1SK"), expression.Value(registrationSK(id))).
		Set(expression.Name("Version"), expression.Name("Version").Plus(expression.Value(1)))
	expr := exprMustBuild(expression.NewBuilder().
		WithCondition(existingItemConditional()).
		WithUpdate(update))

	_, err := d.dynamoClient.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: registrationPK()},
			"SK": &types.AttributeValueMemberS{Value: registrationSK(id)},
		},
		ConditionExpression:       expr.Condition(),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var conditionFailedErr *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailedErr) {
			return camp.NewRegistrationDoesNotExistError(fmt.Sprintf("Registration with ID %q not found", id), err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return camp.NewTimeoutError("AttachPaymentSession timed out")
		}
		return camp.NewFailedToWriteError("Failed UpdateItem call", err)
	}

	return nil
}

func (d *DB) MarkRegistrationPaid(ctx context.Context, id uuid.UUID) (camp.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	update := expression.
		Set(expression.Name("PaymentStatus"), expression.Value(camp.PAYMENT_PAID)).
		Set(expression.Name("Version"), expression.Name("Version").Plus(expression.Value(1)))
	expr := exprMustBuild(expression.NewBuilder().
		WithCondition(existingItemConditional()).
		WithUpdate(update))

	resp, err := d.dynamoClient.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: registrationPK()},
			"SK": &types.AttributeValueMemberS{Value: registrationSK(id)},
		},
		ConditionExpression:       expr.Condition(),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var conditionFailedErr *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailedErr) {
			return camp.Registration{}, camp.NewRegistrationDoesNotExistError(fmt.Sprintf("Registration with ID %q not found", id), err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return camp.Registration{}, camp.NewTimeoutError("MarkRegistrationPaid timed out")
		}
		return camp.Registration{}, camp.NewFailedToWriteError("Failed UpdateItem call", err)
	}

	var item registrationDynamo
	err = attributevalue.UnmarshalMap(resp.Attributes, &item)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal registration from dynamo: %s", err))
	}

	return dynamoToRegistration(item), nil
}

func (d *DB) ListRegistrations(ctx context.Context, limit int32, cursor *string) (camp.ListRegistrationsResponse, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(registrationPK()))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build dynamo key expression: %s", err))
	}

	var startKey map[string]types.AttributeValue
	if cursor != nil {
		startKey, err = cursorToStartKey(*cursor)
		if err != nil {
			return camp.ListRegistrationsResponse{}, camp.NewInvalidCursorError("Invalid cursor", err)
		}
	}

	result, err := d.dynamoClient.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(d.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		// Fetch 1 more than limit to check if there is another page or not
		Limit:             aws.Int32(limit + 1),
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		return camp.ListRegistrationsResponse{}, camp.NewFailedToFetchError("Failed to fetch registrations from dynamo", err)
	}

	var items []registrationDynamo
	err = attributevalue.UnmarshalListOfMaps(result.Items, &items)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal dynamo registrations: %s", err))
	}

	hasNextPage := len(items) > int(limit)

	var newCursor *string
	if hasNextPage && len(result.LastEvaluatedKey) > 0 {
		// Can't use LastEvaluatedKey directly because we grabbed an extra
		// item to check for the next page
		lastItemGivenToUser := result.Items[len(result.Items)-2]
		lastItemKey := getKeyFromItem(result.LastEvaluatedKey, lastItemGivenToUser)
		c, err := startKeyToCursor(lastItemKey)
		if err != nil {
			panic(fmt.Sprintf("failed to make cursor from last evaluated key: %s", err))
		}
		newCursor = &c
	}

	return camp.ListRegistrationsResponse{
		Data: slices.Map(items, func(v registrationDynamo) camp.Registration {
			return dynamoToRegistration(v)
		})[:min(int(limit), len(items))],
		Cursor:      newCursor,
		HasNextPage: hasNextPage,
	}, nil
}
