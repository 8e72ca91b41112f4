package settings

import (
	"context"
	"fmt"
)

// Gateway persists one settings document per tenant.
type Gateway interface {
	// Load returns nil, nil when the tenant never saved settings.
	Load(ctx context.Context, tenant string) (*CompanySettings, error)
	Save(ctx context.Context, tenant string, doc *CompanySettings) error
}

// SaveError is a persistence failure. Its message carries the underlying cause.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("could not save settings: %v", e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// WorkingCopy loads the tenant's saved settings and merges them with the defaults.
func WorkingCopy(ctx context.Context, gw Gateway, tenant string) (*CompanySettings, error) {
	saved, err := gw.Load(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return Merge(saved), nil
}

// Commit validates doc and hands it to the gateway as a whole. A validation failure never
// reaches the gateway; a gateway failure is returned as a *SaveError.
func Commit(ctx context.Context, gw Gateway, tenant string, doc *CompanySettings) error {
	if err := Validate(doc); err != nil {
		return err
	}
	if err := gw.Save(ctx, tenant, doc); err != nil {
		return &SaveError{Err: err}
	}
	return nil
}
