package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrNotFound is returned by adapters when a key has no record. Every write
// in this system is a single-record operation; callers must not assume any
// cross-record consistency beyond what one PutItem/TransactWriteItems gives.
var ErrNotFound = errors.New("record not found")

// IsConditionFailed reports whether err is a conditional-write rejection,
// either directly on a PutItem or as a cancellation reason inside a
// TransactWriteItems call. Used to detect idempotency-claim collisions.
func IsConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, reason := range tce.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return true
			}
		}
	}
	return false
}

// ScanAll scans a whole table through the paginator. Unbounded by design:
// the scan endpoints exist for demo-scale datasets only.
func ScanAll(ctx context.Context, client *dynamodb.Client, table string) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.ScanInput{TableName: &table}
	paginator := dynamodb.NewScanPaginator(client, input)

	var items []map[string]types.AttributeValue
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan page failed: %w", err)
		}
		items = append(items, page.Items...)
	}
	return items, nil
}
