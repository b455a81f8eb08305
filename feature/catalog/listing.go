package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/scenespin/reference-sync/core/utils"
)

// Filters narrows a listing to a subset of the scope.
type Filters struct {
	// EntityType limits results to objects owned by entities of this type.
	EntityType string
	// EntityID limits results to objects owned by one entity.
	EntityID string
	// Folder limits results to one folder under the scope.
	Folder string
}

// Page is one page of a cursor-paginated listing.
type Page struct {
	Objects   []Object
	NextToken string
}

// Lister is the capability interface for the object listing service.
// Implementations are owned by collaborators; this layer only consumes
// the shape.
type Lister interface {
	List(ctx context.Context, scope string, filters Filters, pageToken string) (Page, error)
}

// ListAll drains every page of a listing. Each page fetch is retried with
// bounded exponential backoff on transient errors before the error is
// surfaced; callers keep rendering their last-known-good data in that case.
func ListAll(ctx context.Context, lister Lister, scope string, filters Filters) ([]Object, error) {
	var objects []Object
	token := ""

	for {
		var page Page
		err := utils.WithBackoff(ctx, 3, 250*time.Millisecond, func() error {
			var listErr error
			page, listErr = lister.List(ctx, scope, filters, token)
			return listErr
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list objects for scope %s: %w", scope, err)
		}

		objects = append(objects, page.Objects...)

		if page.NextToken == "" {
			return objects, nil
		}
		token = page.NextToken
	}
}
